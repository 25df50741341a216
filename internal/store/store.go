package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/majisemi/leadscore/pkg/lead"
)

// Organizer is one seminar host known to the warehouse.
type Organizer struct {
	Code string `db:"organizer_code" json:"organizer_code"`
	Name string `db:"organizer_name" json:"organizer_name"`
}

// Store is the warehouse interface. It is the query collaborator of the
// scoring pipeline: the pipeline consumes its output and never writes back.
type Store interface {
	lead.Store

	InsertRecords(ctx context.Context, recs []lead.RawRecord) error
	ListOrganizers(ctx context.Context) ([]Organizer, error)
	GetOrganizer(ctx context.Context, code string) (*Organizer, error)
	CountByOrganizer(ctx context.Context) (map[string]int, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertRecords(ctx context.Context, recs []lead.RawRecord) error {
	for i := range recs {
		r := &recs[i]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO followdata (
				company_name, organizer_code, organizer_name, seminar_title,
				seminar_date, status, user_company, employee_size,
				position_category, post_survey_answer_1, post_survey_answer_2,
				post_survey_answer_3, desired_follow_up, pre_survey_answer_2)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.CompanyName, r.OrganizerCode, r.OrganizerName, r.SeminarTitle,
			r.SeminarDate, r.Status, r.UserCompany, r.EmployeeSize,
			r.PositionCategory, r.PostSurveyAnswer1, r.PostSurveyAnswer2,
			r.PostSurveyAnswer3, r.DesiredFollowUp, r.PreSurveyAnswer2)
		if err != nil {
			return fmt.Errorf("insert record for %s: %w", r.CompanyName, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListOrganizers(ctx context.Context) ([]Organizer, error) {
	var organizers []Organizer
	err := s.db.SelectContext(ctx, &organizers, `
		SELECT organizer_code, MIN(organizer_name) AS organizer_name
		FROM followdata
		GROUP BY organizer_code
		ORDER BY organizer_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	return organizers, nil
}

func (s *SQLiteStore) GetOrganizer(ctx context.Context, code string) (*Organizer, error) {
	var org Organizer
	err := s.db.GetContext(ctx, &org, `
		SELECT organizer_code, MIN(organizer_name) AS organizer_name
		FROM followdata
		WHERE organizer_code = ?
		GROUP BY organizer_code
	`, code)
	if err != nil {
		return nil, fmt.Errorf("get organizer %s: %w", code, err)
	}
	return &org, nil
}

// ListAttendeeCompanies returns the distinct companies that attended the
// organizer's seminars, narrowed by the demographic filter. Filter values
// within a dimension are OR-ed, dimensions are AND-ed, mirroring the
// original warehouse query.
func (s *SQLiteStore) ListAttendeeCompanies(ctx context.Context, organizerCode string, f lead.AttendeeFilter) ([]string, error) {
	query := `SELECT DISTINCT company_name FROM followdata
		WHERE organizer_code = ? AND company_name != ''`
	args := []any{organizerCode}

	addLikeGroup := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		conds := make([]string, len(values))
		for i, v := range values {
			conds[i] = column + " LIKE '%' || ? || '%'"
			args = append(args, v)
		}
		query += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	addLikeGroup("user_company", f.Industries)
	addLikeGroup("employee_size", f.EmployeeSizes)
	addLikeGroup("position_category", f.Positions)

	query += " ORDER BY company_name"

	var companies []string
	if err := s.db.SelectContext(ctx, &companies, query, args...); err != nil {
		return nil, fmt.Errorf("list attendee companies: %w", err)
	}
	return companies, nil
}

// ListCompanyHistory returns every attendance row for the given companies
// with a seminar date on or after since, ordered by company then date. The
// per-seminar multi-row history is intentionally not deduplicated.
func (s *SQLiteStore) ListCompanyHistory(ctx context.Context, companies []string, since time.Time) ([]lead.RawRecord, error) {
	if len(companies) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM followdata
		WHERE company_name IN (?) AND seminar_date >= ?
		ORDER BY company_name, seminar_date
	`, companies, since)
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var recs []lead.RawRecord
	if err := s.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list company history: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) CountByOrganizer(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT organizer_code, COUNT(*) AS cnt FROM followdata GROUP BY organizer_code
	`)
	if err != nil {
		return nil, fmt.Errorf("count by organizer: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var cnt int
		if err := rows.Scan(&code, &cnt); err != nil {
			return nil, err
		}
		counts[code] = cnt
	}
	return counts, rows.Err()
}
