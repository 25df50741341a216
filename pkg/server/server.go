package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/majisemi/leadscore/internal/config"
	"github.com/majisemi/leadscore/internal/store"
	"github.com/majisemi/leadscore/pkg/auth"
	"github.com/majisemi/leadscore/pkg/lead"
)

// Runner runs one lead analysis. Satisfied by *lead.Pipeline.
type Runner interface {
	Run(ctx context.Context, params lead.Params) (*lead.Report, error)
}

// Options carries server wiring that is not a collaborator.
type Options struct {
	Port       int
	TopN       int
	WindowDays int
	Filters    config.FiltersConfig
}

// Server provides the HTTP API consumed by the dashboard frontend.
type Server struct {
	store    store.Store
	pipeline Runner
	auth     *auth.Client // nil disables the login endpoint
	opts     Options
}

// New creates a new HTTP server.
func New(st store.Store, pipeline Runner, authClient *auth.Client, opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = 8080
	}
	if opts.TopN <= 0 {
		opts.TopN = lead.DefaultTopN
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 180
	}
	return &Server{
		store:    st,
		pipeline: pipeline,
		auth:     authClient,
		opts:     opts,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	fmt.Printf("leadscore server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the route table without binding a listener. Used by tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/organizers", s.handleOrganizers)
	mux.HandleFunc("/api/v1/filters", s.handleFilters)
	mux.HandleFunc("/api/v1/leads", s.handleLeads)
	if s.auth != nil {
		mux.HandleFunc("/api/v1/login", s.handleLogin)
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOrganizers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	organizers, err := s.store.ListOrganizers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  organizers,
		"count": len(organizers),
	})
}

// handleFilters serves the demographic option catalogs the frontend renders
// as checkboxes.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": s.opts.Filters})
}

type leadsRequest struct {
	OrganizerCode string   `json:"organizer_code"`
	TopN          int      `json:"top_n"`
	WindowDays    int      `json:"window_days"`
	Industries    []string `json:"industries"`
	EmployeeSizes []string `json:"employee_sizes"`
	Positions     []string `json:"positions"`
}

// handleLeads runs one scoring pipeline pass. An empty report is a normal
// 200 with a friendly message; a collaborator failure is a 502 carrying the
// leads that finished before the failure.
func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req leadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OrganizerCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "organizer_code is required"})
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.opts.TopN
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = s.opts.WindowDays
	}

	report, err := s.pipeline.Run(r.Context(), lead.Params{
		OrganizerCode: req.OrganizerCode,
		TopN:          topN,
		Since:         time.Now().UTC().AddDate(0, 0, -windowDays),
		Filter: lead.AttendeeFilter{
			Industries:    req.Industries,
			EmployeeSizes: req.EmployeeSizes,
			Positions:     req.Positions,
		},
	})
	if err != nil {
		resp := map[string]any{"error": err.Error()}
		if report != nil && len(report.Leads) > 0 {
			resp["partial"] = report
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	resp := map[string]any{
		"data":  report,
		"count": len(report.Leads),
	}
	if report.Empty() {
		resp["message"] = "no leads matched the current filters"
	}
	writeJSON(w, http.StatusOK, resp)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	account, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication failed"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": account})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
