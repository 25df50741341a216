package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/majisemi/leadscore/pkg/keyword"
	"github.com/majisemi/leadscore/pkg/lead"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Filters  FiltersConfig  `yaml:"filters"`
	Keywords KeywordsConfig `yaml:"keywords"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AuthConfig configures the remote membership API. When disabled, the login
// endpoint is not registered and the tool trusts its caller.
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	ClubPlan string `yaml:"club_plan"`
}

// AnalysisConfig configures the scoring pipeline. The phrase tables are
// configuration on purpose: the survey wording varies between warehouse
// snapshots, and the domain owner confirms the canonical variant here rather
// than in code.
type AnalysisConfig struct {
	TopN           int               `yaml:"top_n"`
	WindowDays     int               `yaml:"window_days"`
	AttendedStatus string            `yaml:"attended_status"`
	FollowUpRules  []lead.PhraseRule `yaml:"follow_up_rules"`
	IntentRules    []lead.PhraseRule `yaml:"intent_rules"`
}

// FiltersConfig holds the demographic option catalogs offered to the UI and
// the expansion of the IT umbrella option into concrete warehouse labels.
type FiltersConfig struct {
	Industries      []string `yaml:"industries" json:"industries"`
	ITIndustryLabel string   `yaml:"it_industry_label" json:"it_industry_label"`
	ITIndustries    []string `yaml:"it_industries" json:"it_industries"`
	EmployeeSizes   []string `yaml:"employee_sizes" json:"employee_sizes"`
	Positions       []string `yaml:"positions" json:"positions"`
}

// KeywordsConfig configures keyword extraction.
type KeywordsConfig struct {
	ExcludeWords []string `yaml:"exclude_words"`
}

// Default returns a Config with sensible defaults. The Japanese literals
// match the production warehouse's survey wording and the membership site's
// filter options.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./leadscore.db"},
		Server:   ServerConfig{Port: 8080},
		Auth: AuthConfig{
			Enabled:  false,
			BaseURL:  "https://majisemi.com/e/api",
			ClubPlan: "マジセミ倶楽部",
		},
		Analysis: AnalysisConfig{
			TopN:           lead.DefaultTopN,
			WindowDays:     180,
			AttendedStatus: lead.DefaultAttendedStatus,
			FollowUpRules:  lead.DefaultFollowUpRules(),
			IntentRules:    lead.DefaultIntentRules(),
		},
		Filters: FiltersConfig{
			Industries: []string{
				"製造", "通信キャリア・データセンター", "商社", "小売", "金融",
				"建設・土木・設備工事", "マーケティング・広告・出版・印刷", "教育",
				"IT関連企業",
			},
			ITIndustryLabel: lead.DefaultITIndustryLabel,
			ITIndustries:    lead.DefaultITIndustryValues(),
			EmployeeSizes: []string{
				"5000人以上", "1000人以上5000人未満", "500人以上1000人未満",
				"300人以上500人未満", "100人以上300人未満", "30人以上100人未満",
				"10人以上30人未満", "10人未満",
			},
			Positions: []string{
				"経営者・役員クラス", "事業部長/工場長クラス", "部長クラス",
				"課長クラス", "係長・主任クラス", "一般社員・職員クラス",
			},
		},
		Keywords: KeywordsConfig{
			ExcludeWords: keyword.DefaultExcludeWords,
		},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEADSCORE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LEADSCORE_AUTH_URL"); v != "" {
		cfg.Auth.BaseURL = v
		cfg.Auth.Enabled = true
	}
}
