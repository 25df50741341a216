package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/majisemi/leadscore/pkg/lead"
)

const importBatchSize = 500

// ImportCSV reads attendance rows from r and inserts them into the
// warehouse. The header row names the followdata columns; unknown columns
// are ignored and missing optional columns default to empty. Returns the
// number of rows inserted.
func ImportCSV(ctx context.Context, st Store, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"company_name", "organizer_code", "seminar_date"} {
		if _, ok := idx[required]; !ok {
			return 0, fmt.Errorf("csv missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		batch    []lead.RawRecord
		imported int
		line     = 1
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.InsertRecords(ctx, batch); err != nil {
			return err
		}
		imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read csv line %d: %w", line, err)
		}

		date, err := parseDate(field(row, "seminar_date"))
		if err != nil {
			return imported, fmt.Errorf("csv line %d: %w", line, err)
		}

		batch = append(batch, lead.RawRecord{
			CompanyName:       field(row, "company_name"),
			OrganizerCode:     field(row, "organizer_code"),
			OrganizerName:     field(row, "organizer_name"),
			SeminarTitle:      field(row, "seminar_title"),
			SeminarDate:       date,
			Status:            field(row, "status"),
			UserCompany:       field(row, "user_company"),
			EmployeeSize:      field(row, "employee_size"),
			PositionCategory:  field(row, "position_category"),
			PostSurveyAnswer1: field(row, "post_survey_answer_1"),
			PostSurveyAnswer2: field(row, "post_survey_answer_2"),
			PostSurveyAnswer3: field(row, "post_survey_answer_3"),
			DesiredFollowUp:   field(row, "desired_follow_up"),
			PreSurveyAnswer2:  field(row, "pre_survey_answer_2"),
		})

		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized seminar_date %q", s)
}
