package lead

import "strings"

// Scoring weights for the two stand-alone categories. The phrase-matched
// categories carry their points in the rule tables.
const (
	attendedPoints = 3
	surveyPoints   = 3
)

// DefaultAttendedStatus is the warehouse literal for an attendee who showed up.
const DefaultAttendedStatus = "出席"

// PhraseRule awards points when a free-text answer contains its phrase.
// Within a category, rules are evaluated in order and the first match wins;
// matches never stack.
type PhraseRule struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Points int    `yaml:"points" json:"points"`
}

// DefaultFollowUpRules score the desired follow-up action, most specific
// request first.
func DefaultFollowUpRules() []PhraseRule {
	return []PhraseRule{
		{Phrase: "製品やサービス導入に関する具体的な要望がある", Points: 5},
		{Phrase: "資料希望", Points: 3},
	}
}

// DefaultIntentRules score the pre-seminar intent-stage answer, latest
// pipeline stage first.
func DefaultIntentRules() []PhraseRule {
	return []PhraseRule{
		{Phrase: "既に同様の商品・サービスを導入済み", Points: 3},
		{Phrase: "既に候補の製品・サービスを絞っており、その評価・選定をしている", Points: 3},
		{Phrase: "製品・サービスの候補を探している", Points: 2},
		{Phrase: "導入するかどうか社内で検討中", Points: 1},
	}
}

// Scorer maps one canonical record to its lead score. The four categories
// (attendance, survey engagement, follow-up intent, pipeline stage) are
// independent and additive; the total is never negative and never capped.
type Scorer struct {
	attendedStatus string
	followUpRules  []PhraseRule
	intentRules    []PhraseRule
}

// NewScorer builds a scorer. Empty arguments fall back to the defaults above,
// which match the warehouse's survey wording.
func NewScorer(attendedStatus string, followUp, intent []PhraseRule) *Scorer {
	if attendedStatus == "" {
		attendedStatus = DefaultAttendedStatus
	}
	if len(followUp) == 0 {
		followUp = DefaultFollowUpRules()
	}
	if len(intent) == 0 {
		intent = DefaultIntentRules()
	}
	return &Scorer{
		attendedStatus: attendedStatus,
		followUpRules:  followUp,
		intentRules:    intent,
	}
}

// Score returns the record's point value. A record with no recognized signal
// scores exactly 0; missing answers simply contribute nothing.
func (s *Scorer) Score(r Record) int {
	score := 0
	if r.Status == s.attendedStatus {
		score += attendedPoints
	}
	if r.HasSurveyAnswer() {
		score += surveyPoints
	}
	score += matchFirst(s.followUpRules, r.DesiredFollowUp)
	score += matchFirst(s.intentRules, r.IntentAnswer)
	return score
}

// matchFirst returns the points of the first rule whose phrase appears in
// text, or 0 when nothing matches.
func matchFirst(rules []PhraseRule, text string) int {
	if text == "" {
		return 0
	}
	for _, rule := range rules {
		if rule.Phrase != "" && strings.Contains(text, rule.Phrase) {
			return rule.Points
		}
	}
	return 0
}
