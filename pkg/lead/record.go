package lead

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord is one attendance row as returned by the warehouse. One row
// exists per (attendee, seminar) pairing; a company usually has several.
// Optional fields may be empty and nothing is trusted until Normalize runs.
type RawRecord struct {
	CompanyName       string    `db:"company_name" json:"company_name"`
	OrganizerCode     string    `db:"organizer_code" json:"organizer_code"`
	OrganizerName     string    `db:"organizer_name" json:"organizer_name"`
	SeminarTitle      string    `db:"seminar_title" json:"seminar_title"`
	SeminarDate       time.Time `db:"seminar_date" json:"seminar_date"`
	Status            string    `db:"status" json:"status"`
	UserCompany       string    `db:"user_company" json:"user_company"`
	EmployeeSize      string    `db:"employee_size" json:"employee_size"`
	PositionCategory  string    `db:"position_category" json:"position_category"`
	PostSurveyAnswer1 string    `db:"post_survey_answer_1" json:"post_survey_answer_1"`
	PostSurveyAnswer2 string    `db:"post_survey_answer_2" json:"post_survey_answer_2"`
	PostSurveyAnswer3 string    `db:"post_survey_answer_3" json:"post_survey_answer_3"`
	DesiredFollowUp   string    `db:"desired_follow_up" json:"desired_follow_up"`
	PreSurveyAnswer2  string    `db:"pre_survey_answer_2" json:"pre_survey_answer_2"`
}

// Record is the canonical form consumed by scoring. Every optional field is
// explicitly present: an absent answer is the empty string after trimming,
// never a missing key to probe for.
type Record struct {
	CompanyName       string
	OrganizerCode     string
	OrganizerName     string
	SeminarTitle      string
	SeminarDate       time.Time
	Status            string
	PostSurveyAnswers [3]string
	DesiredFollowUp   string
	IntentAnswer      string
}

// HasSurveyAnswer reports whether any post-seminar survey answer was given.
func (r Record) HasSurveyAnswer() bool {
	for _, a := range r.PostSurveyAnswers {
		if a != "" {
			return true
		}
	}
	return false
}

// Normalize validates a raw row and produces its canonical form. Company
// name, status and seminar title are required; every other field degrades to
// empty rather than failing the row.
func Normalize(raw RawRecord) (Record, error) {
	rec := Record{
		CompanyName:   strings.TrimSpace(raw.CompanyName),
		OrganizerCode: strings.TrimSpace(raw.OrganizerCode),
		OrganizerName: strings.TrimSpace(raw.OrganizerName),
		SeminarTitle:  strings.TrimSpace(raw.SeminarTitle),
		SeminarDate:   raw.SeminarDate,
		Status:        strings.TrimSpace(raw.Status),
		PostSurveyAnswers: [3]string{
			strings.TrimSpace(raw.PostSurveyAnswer1),
			strings.TrimSpace(raw.PostSurveyAnswer2),
			strings.TrimSpace(raw.PostSurveyAnswer3),
		},
		DesiredFollowUp: strings.TrimSpace(raw.DesiredFollowUp),
		IntentAnswer:    strings.TrimSpace(raw.PreSurveyAnswer2),
	}

	switch {
	case rec.CompanyName == "":
		return Record{}, fmt.Errorf("record missing company name")
	case rec.Status == "":
		return Record{}, fmt.Errorf("record for %s missing status", rec.CompanyName)
	case rec.SeminarTitle == "":
		return Record{}, fmt.Errorf("record for %s missing seminar title", rec.CompanyName)
	}

	return rec, nil
}
