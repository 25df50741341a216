package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func attendedRecord() Record {
	return Record{
		CompanyName:   "アクメ株式会社",
		OrganizerCode: "ORG-A",
		SeminarTitle:  "クラウドセキュリティ入門",
		Status:        DefaultAttendedStatus,
	}
}

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer("", nil, nil)

	tests := []struct {
		name   string
		record Record
		want   int
	}{
		{
			name:   "no recognized signal scores zero",
			record: Record{CompanyName: "アクメ株式会社", Status: "欠席", SeminarTitle: "t"},
			want:   0,
		},
		{
			name:   "attendance alone scores exactly three",
			record: attendedRecord(),
			want:   3,
		},
		{
			name: "any single survey answer scores three",
			record: Record{
				CompanyName:       "アクメ株式会社",
				Status:            "欠席",
				SeminarTitle:      "t",
				PostSurveyAnswers: [3]string{"", "", "とても参考になった"},
			},
			want: 3,
		},
		{
			name: "multiple survey answers do not stack",
			record: Record{
				CompanyName:       "アクメ株式会社",
				Status:            "欠席",
				SeminarTitle:      "t",
				PostSurveyAnswers: [3]string{"a", "b", "c"},
			},
			want: 3,
		},
		{
			name: "concrete adoption request scores five",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.DesiredFollowUp = "製品やサービス導入に関する具体的な要望がある"
				return r
			}(),
			want: 5,
		},
		{
			name: "materials request scores three",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.DesiredFollowUp = "資料希望"
				return r
			}(),
			want: 3,
		},
		{
			name: "follow-up rules are mutually exclusive, higher priority wins",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.DesiredFollowUp = "資料希望。製品やサービス導入に関する具体的な要望がある。"
				return r
			}(),
			want: 5,
		},
		{
			name: "intent stage searching scores two",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.IntentAnswer = "製品・サービスの候補を探している"
				return r
			}(),
			want: 2,
		},
		{
			name: "intent stage considering scores one",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.IntentAnswer = "導入するかどうか社内で検討中"
				return r
			}(),
			want: 1,
		},
		{
			name: "intent rules are mutually exclusive, higher priority wins",
			record: func() Record {
				r := attendedRecord()
				r.Status = "欠席"
				r.IntentAnswer = "既に同様の商品・サービスを導入済みだが、製品・サービスの候補を探している"
				return r
			}(),
			want: 3,
		},
		{
			name: "all categories stack to fourteen",
			record: func() Record {
				r := attendedRecord()
				r.PostSurveyAnswers = [3]string{"参考になった", "", ""}
				r.DesiredFollowUp = "製品やサービス導入に関する具体的な要望がある"
				r.IntentAnswer = "既に候補の製品・サービスを絞っており、その評価・選定をしている"
				return r
			}(),
			want: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.record))
		})
	}
}

func TestScorer_CustomRules(t *testing.T) {
	scorer := NewScorer("attended", []PhraseRule{
		{Phrase: "wants a demo", Points: 7},
		{Phrase: "send brochure", Points: 2},
	}, []PhraseRule{
		{Phrase: "evaluating", Points: 4},
	})

	r := Record{
		CompanyName:     "Acme",
		SeminarTitle:    "t",
		Status:          "attended",
		DesiredFollowUp: "send brochure, wants a demo",
		IntentAnswer:    "evaluating vendors",
	}
	// 3 (attended) + 7 (demo beats brochure) + 4 (evaluating)
	assert.Equal(t, 14, scorer.Score(r))
}

func TestScorer_MissingOptionalFieldsDegradeToZero(t *testing.T) {
	scorer := NewScorer("", nil, nil)

	r := Record{CompanyName: "Acme", SeminarTitle: "t", Status: "キャンセル"}
	assert.Equal(t, 0, scorer.Score(r))
}
