package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/majisemi/leadscore/pkg/keyword"
)

// DefaultTopN is how many leads get the full keyword treatment when the
// caller does not say otherwise.
const DefaultTopN = 5

// DefaultITIndustryLabel is the umbrella industry option that expands to the
// concrete IT segment labels the warehouse stores.
const DefaultITIndustryLabel = "IT関連企業"

// DefaultITIndustryValues returns the warehouse labels covered by the IT
// umbrella option.
func DefaultITIndustryValues() []string {
	return []string{
		"システム・インテグレータ",
		"IT・ビジネスコンサルティング",
		"IT関連製品販売",
		"SaaS・Webサービス事業",
		"その他ITサービス関連",
	}
}

// AttendeeFilter narrows the attendee candidate list by demographics. Empty
// slices match everything; values are substring-matched by the warehouse.
type AttendeeFilter struct {
	Industries    []string `json:"industries,omitempty"`
	EmployeeSizes []string `json:"employee_sizes,omitempty"`
	Positions     []string `json:"positions,omitempty"`
}

// Store is the slice of the warehouse the pipeline depends on.
type Store interface {
	// ListAttendeeCompanies returns the distinct companies that attended the
	// organizer's seminars and match the demographic filter.
	ListAttendeeCompanies(ctx context.Context, organizerCode string, f AttendeeFilter) ([]string, error)
	// ListCompanyHistory returns the full multi-row attendance history for
	// the given companies, scoped to seminars on or after since.
	ListCompanyHistory(ctx context.Context, companies []string, since time.Time) ([]RawRecord, error)
}

// Extractor turns a text corpus into frequency-weighted salient terms.
// Satisfied by *keyword.Extractor.
type Extractor interface {
	Extract(text string) ([]keyword.Term, error)
}

// Params is one analysis request. All ambient state the original tool kept in
// the session (current organizer, lookback boundary) arrives here explicitly.
type Params struct {
	OrganizerCode string
	TopN          int
	Since         time.Time
	Filter        AttendeeFilter
}

// LeadDetail is one ranked company with its interest profile.
type LeadDetail struct {
	Rank          int            `json:"rank"`
	CompanyName   string         `json:"company_name"`
	TotalScore    int            `json:"total_score"`
	Records       int            `json:"records"`
	CrossSeminars int            `json:"cross_seminars"`
	Keywords      []keyword.Term `json:"keywords,omitempty"`
}

// Report is the result of one pipeline run. Nothing in it is persisted; a
// fresh report is built from a fresh snapshot on every run.
type Report struct {
	RunID         string       `json:"run_id"`
	OrganizerCode string       `json:"organizer_code"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Since         time.Time    `json:"since"`
	Candidates    int          `json:"candidates"`
	ScoredRecords int          `json:"scored_records"`
	SkippedRows   int          `json:"skipped_rows"`
	Leads         []LeadDetail `json:"leads"`
}

// Empty reports the normal no-leads-found terminal state: the upstream
// filters matched nothing. Callers should show a friendly message, not an
// error.
func (r *Report) Empty() bool {
	return len(r.Leads) == 0
}

// Pipeline runs the whole analysis for one organizer: candidate selection,
// normalization, scoring, aggregation, ranking and per-lead keyword
// extraction. One run is one synchronous pass over one snapshot.
type Pipeline struct {
	store        Store
	scorer       *Scorer
	extractor    Extractor
	itLabel      string
	itIndustries []string
}

// NewPipeline wires the pipeline. extractor may be nil, which skips the
// keyword step entirely.
func NewPipeline(st Store, scorer *Scorer, extractor Extractor, itLabel string, itIndustries []string) *Pipeline {
	if scorer == nil {
		scorer = NewScorer("", nil, nil)
	}
	if itLabel == "" {
		itLabel = DefaultITIndustryLabel
	}
	if len(itIndustries) == 0 {
		itIndustries = DefaultITIndustryValues()
	}
	return &Pipeline{
		store:        st,
		scorer:       scorer,
		extractor:    extractor,
		itLabel:      itLabel,
		itIndustries: itIndustries,
	}
}

// Run executes one analysis. An empty report with a nil error is the normal
// "no leads found" state. A non-nil error is an operational fault from a
// collaborator; leads fully processed before the failure are kept in the
// returned report.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Report, error) {
	if params.OrganizerCode == "" {
		return nil, errors.New("organizer code is required")
	}
	topN := params.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	report := &Report{
		RunID:         uuid.NewString(),
		OrganizerCode: params.OrganizerCode,
		GeneratedAt:   time.Now().UTC(),
		Since:         params.Since,
	}

	filter := params.Filter
	filter.Industries = p.expandIndustries(filter.Industries)

	companies, err := p.store.ListAttendeeCompanies(ctx, params.OrganizerCode, filter)
	if err != nil {
		return nil, fmt.Errorf("list attendee companies: %w", err)
	}
	report.Candidates = len(companies)
	if len(companies) == 0 {
		return report, nil
	}

	raws, err := p.store.ListCompanyHistory(ctx, companies, params.Since)
	if err != nil {
		return nil, fmt.Errorf("list company history: %w", err)
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := Normalize(raw)
		if err != nil {
			report.SkippedRows++
			continue
		}
		records = append(records, rec)
	}
	report.ScoredRecords = len(records)
	if len(records) == 0 {
		return report, nil
	}

	history := make(map[string][]Record, len(companies))
	for _, rec := range records {
		history[rec.CompanyName] = append(history[rec.CompanyName], rec)
	}

	for _, rl := range Rank(Aggregate(records, p.scorer), topN) {
		detail := LeadDetail{
			Rank:        rl.Rank,
			CompanyName: rl.CompanyName,
			TotalScore:  rl.TotalScore,
			Records:     rl.Records,
		}

		cross := CrossSeminar(history[rl.CompanyName], params.OrganizerCode)
		detail.CrossSeminars = len(cross)

		// No cross-seminar history is an expected empty-signal case: the
		// lead is still reported, just without keywords.
		if len(cross) > 0 && p.extractor != nil {
			terms, err := p.extractor.Extract(joinTitles(cross))
			if err != nil {
				return report, fmt.Errorf("extract keywords for %s: %w", rl.CompanyName, err)
			}
			detail.Keywords = terms
		}

		report.Leads = append(report.Leads, detail)
	}

	return report, nil
}

// expandIndustries replaces the IT umbrella option with its concrete
// warehouse labels, leaving everything else untouched.
func (p *Pipeline) expandIndustries(selected []string) []string {
	var out []string
	for _, v := range selected {
		if v == p.itLabel {
			out = append(out, p.itIndustries...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func joinTitles(records []Record) string {
	titles := make([]string, len(records))
	for i, rec := range records {
		titles[i] = rec.SeminarTitle
	}
	return strings.Join(titles, " ")
}
