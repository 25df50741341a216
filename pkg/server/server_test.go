package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majisemi/leadscore/internal/config"
	"github.com/majisemi/leadscore/internal/store"
	"github.com/majisemi/leadscore/pkg/auth"
	"github.com/majisemi/leadscore/pkg/lead"
)

type stubStore struct {
	organizers []store.Organizer
	err        error
}

func (s *stubStore) InsertRecords(ctx context.Context, recs []lead.RawRecord) error { return s.err }

func (s *stubStore) ListOrganizers(ctx context.Context) ([]store.Organizer, error) {
	return s.organizers, s.err
}

func (s *stubStore) GetOrganizer(ctx context.Context, code string) (*store.Organizer, error) {
	return nil, s.err
}

func (s *stubStore) ListAttendeeCompanies(ctx context.Context, organizerCode string, f lead.AttendeeFilter) ([]string, error) {
	return nil, s.err
}

func (s *stubStore) ListCompanyHistory(ctx context.Context, companies []string, since time.Time) ([]lead.RawRecord, error) {
	return nil, s.err
}

func (s *stubStore) CountByOrganizer(ctx context.Context) (map[string]int, error) {
	return nil, s.err
}

func (s *stubStore) Close() error { return nil }

type stubRunner struct {
	report *lead.Report
	err    error
	got    lead.Params
}

func (r *stubRunner) Run(ctx context.Context, params lead.Params) (*lead.Report, error) {
	r.got = params
	return r.report, r.err
}

func newTestServer(st store.Store, runner Runner, authClient *auth.Client) *Server {
	return New(st, runner, authClient, Options{
		TopN:       3,
		WindowDays: 180,
		Filters:    config.Default().Filters,
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubStore{}, &stubRunner{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleOrganizers(t *testing.T) {
	srv := newTestServer(&stubStore{organizers: []store.Organizer{
		{Code: "ORG-A", Name: "主催A"},
	}}, &stubRunner{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/organizers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data  []store.Organizer `json:"data"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "ORG-A", resp.Data[0].Code)
}

func TestHandleFilters(t *testing.T) {
	srv := newTestServer(&stubStore{}, &stubRunner{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IT関連企業")
}

func TestHandleLeads(t *testing.T) {
	runner := &stubRunner{report: &lead.Report{
		RunID:         "run-1",
		OrganizerCode: "ORG-A",
		Leads:         []lead.LeadDetail{{Rank: 1, CompanyName: "Acme", TotalScore: 8}},
	}}
	srv := newTestServer(&stubStore{}, runner, nil)

	body := `{"organizer_code":"ORG-A","top_n":5,"industries":["製造"]}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "ORG-A", runner.got.OrganizerCode)
	assert.Equal(t, 5, runner.got.TopN)
	assert.Equal(t, []string{"製造"}, runner.got.Filter.Industries)
	assert.False(t, runner.got.Since.IsZero())
	assert.Contains(t, rec.Body.String(), "Acme")
}

func TestHandleLeads_EmptyReportIsFriendly(t *testing.T) {
	runner := &stubRunner{report: &lead.Report{OrganizerCode: "ORG-A"}}
	srv := newTestServer(&stubStore{}, runner, nil)

	body := `{"organizer_code":"ORG-A"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no leads matched")
}

func TestHandleLeads_CollaboratorFailure(t *testing.T) {
	runner := &stubRunner{
		report: &lead.Report{Leads: []lead.LeadDetail{{Rank: 1, CompanyName: "First"}}},
		err:    errors.New("warehouse down"),
	}
	srv := newTestServer(&stubStore{}, runner, nil)

	body := `{"organizer_code":"ORG-A"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body)))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "warehouse down")
	assert.Contains(t, rec.Body.String(), "First", "finished leads ride along with the error")
}

func TestHandleLeads_MissingOrganizer(t *testing.T) {
	srv := newTestServer(&stubStore{}, &stubRunner{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","majisemi":true,"group_code":"ORG-A"}`))
	}))
	defer api.Close()

	srv := newTestServer(&stubStore{}, &stubRunner{}, auth.New(api.URL, ""))

	body := `{"username":"alice","password":"secret"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORG-A")
}

func TestHandleLogin_Rejected(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ng"}`))
	}))
	defer api.Close()

	srv := newTestServer(&stubStore{}, &stubRunner{}, auth.New(api.URL, ""))

	body := `{"username":"alice","password":"wrong"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogin_DisabledWithoutAuthClient(t *testing.T) {
	srv := newTestServer(&stubStore{}, &stubRunner{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
