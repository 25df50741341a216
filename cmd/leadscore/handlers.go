package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/majisemi/leadscore/internal/config"
	"github.com/majisemi/leadscore/internal/store"
	"github.com/majisemi/leadscore/pkg/auth"
	"github.com/majisemi/leadscore/pkg/keyword"
	"github.com/majisemi/leadscore/pkg/lead"
	"github.com/majisemi/leadscore/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildScorer(cfg *config.Config) *lead.Scorer {
	return lead.NewScorer(
		cfg.Analysis.AttendedStatus,
		cfg.Analysis.FollowUpRules,
		cfg.Analysis.IntentRules,
	)
}

func buildPipeline(cfg *config.Config, db store.Store) (*lead.Pipeline, error) {
	extractor, err := keyword.New(cfg.Keywords.ExcludeWords)
	if err != nil {
		return nil, fmt.Errorf("build keyword extractor: %w", err)
	}
	return lead.NewPipeline(db, buildScorer(cfg), extractor,
		cfg.Filters.ITIndustryLabel, cfg.Filters.ITIndustries), nil
}

func runLeads(organizer string, topN, windowDays int, industries, employeeSizes, positions []string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	pipeline, err := buildPipeline(cfg, db)
	if err != nil {
		return err
	}

	if topN <= 0 {
		topN = cfg.Analysis.TopN
	}
	if windowDays <= 0 {
		windowDays = cfg.Analysis.WindowDays
	}

	report, err := pipeline.Run(context.Background(), lead.Params{
		OrganizerCode: organizer,
		TopN:          topN,
		Since:         time.Now().UTC().AddDate(0, 0, -windowDays),
		Filter: lead.AttendeeFilter{
			Industries:    industries,
			EmployeeSizes: employeeSizes,
			Positions:     positions,
		},
	})
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Empty() {
		fmt.Println("no leads found (check the filters, or import data first: leadscore import)")
		return nil
	}

	fmt.Printf("top %d leads for %s (since %s, %d candidate companies, %d records)\n\n",
		len(report.Leads), report.OrganizerCode,
		report.Since.Format("2006-01-02"), report.Candidates, report.ScoredRecords)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCOMPANY\tSCORE\tRECORDS\tCROSS\tINTEREST KEYWORDS")
	for _, l := range report.Leads {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
			l.Rank, l.CompanyName, l.TotalScore, l.Records, l.CrossSeminars,
			formatKeywords(l.Keywords, 8))
	}
	return w.Flush()
}

// formatKeywords renders the top n terms on one line; an empty list marks the
// no-cross-seminar-history case.
func formatKeywords(terms []keyword.Term, n int) string {
	if len(terms) == 0 {
		return "(no cross-seminar history)"
	}
	if len(terms) > n {
		terms = terms[:n]
	}
	words := make([]string, len(terms))
	for i, t := range terms {
		words[i] = t.Word
	}
	return strings.Join(words, " ")
}

func runOrganizers(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	organizers, err := db.ListOrganizers(ctx)
	if err != nil {
		return fmt.Errorf("list organizers: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(organizers)
	}

	if len(organizers) == 0 {
		fmt.Println("no organizers found (import data first: leadscore import)")
		return nil
	}

	counts, err := db.CountByOrganizer(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tRECORDS")
	for _, org := range organizers {
		fmt.Fprintf(w, "%s\t%s\t%d\n", org.Code, org.Name, counts[org.Code])
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	pipeline, err := buildPipeline(cfg, db)
	if err != nil {
		return err
	}

	var authClient *auth.Client
	if cfg.Auth.Enabled && cfg.Auth.BaseURL != "" {
		authClient = auth.New(cfg.Auth.BaseURL, cfg.Auth.ClubPlan)
		fmt.Fprintf(os.Stderr, "membership auth: %s\n", cfg.Auth.BaseURL)
	}

	srv := server.New(db, pipeline, authClient, server.Options{
		Port:       port,
		TopN:       cfg.Analysis.TopN,
		WindowDays: cfg.Analysis.WindowDays,
		Filters:    cfg.Filters,
	})
	return srv.ListenAndServe()
}

func runImport(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	n, err := store.ImportCSV(context.Background(), db, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "imported %d records from %s\n", n, path)
	return nil
}
