package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSV(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"company_name,organizer_code,organizer_name,seminar_title,seminar_date,status,pre_survey_answer_2",
		"Acme,ORG-A,主催A,ゼロトラスト実践,2026-03-01,出席,製品・サービスの候補を探している",
		"Globex,ORG-A,主催A,クラウド移行,2026/04/15,欠席,",
	}, "\n")

	n, err := ImportCSV(ctx, s, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := s.ListCompanyHistory(ctx, []string{"Acme", "Globex"}, time.Time{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ゼロトラスト実践", recs[0].SeminarTitle)
	assert.Equal(t, "製品・サービスの候補を探している", recs[0].PreSurveyAnswer2)
	assert.Equal(t, "欠席", recs[1].Status)
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	s := testStore(t)

	_, err := ImportCSV(context.Background(), s, strings.NewReader("company_name,status\nAcme,出席\n"))
	assert.ErrorContains(t, err, "organizer_code")
}

func TestImportCSV_BadDate(t *testing.T) {
	s := testStore(t)

	csvData := strings.Join([]string{
		"company_name,organizer_code,seminar_date",
		"Acme,ORG-A,not-a-date",
	}, "\n")

	_, err := ImportCSV(context.Background(), s, strings.NewReader(csvData))
	assert.ErrorContains(t, err, "seminar_date")
}

func TestImportCSV_IgnoresUnknownColumns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"company_name,organizer_code,seminar_date,legacy_column",
		"Acme,ORG-A,2026-03-01,ignored",
	}, "\n")

	n, err := ImportCSV(ctx, s, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
