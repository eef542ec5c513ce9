package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/riskmap/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:            ":8080",
		JWTSecret:       "strongsecret",
		APITimeout:      5 * time.Second,
		DatabasePath:    "risk.db",
		TokenDuration:   1 * time.Hour,
		Generator:       config.DefaultGeneratorConfig(),
		Analytics:       config.DefaultAnalyticsConfig(),
		Recommendations: config.DefaultRecommendationConfig(),
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("RISK_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("RISK_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("RISK_ENV", "development")

	cases := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"empty db path", func(c *config.Config) { c.DatabasePath = " " }, "database_path"},
		{"negative min sample", func(c *config.Config) { c.Analytics.TimePatternMinSample = -1 }, "analytics"},
		{"default above max", func(c *config.Config) { c.Generator.DefaultEmployees = 1000 }, "generator defaults"},
		{"zero window", func(c *config.Config) { c.Generator.WindowDays = 0 }, "window_days"},
		{"rate above 100", func(c *config.Config) { c.Recommendations.PeakClickRate = 120 }, "recommendation"},
		{"zero timeout", func(c *config.Config) { c.APITimeout = 0 }, "timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RISK_ADDR", "")
	t.Setenv("RISK_JWT_SECRET", "")
	t.Setenv("RISK_DATABASE_PATH", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.DatabasePath != "security_behavior.db" {
		t.Fatalf("unexpected DatabasePath: got %q", cfg.DatabasePath)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrate_on_start to default to true")
	}
	if cfg.Analytics.TimePatternMinSample != 3 || cfg.Analytics.CombinationLimit != 15 || cfg.Analytics.EmployeeLimit != 20 {
		t.Fatalf("unexpected analytics defaults %#v", cfg.Analytics)
	}
	if cfg.Recommendations.PeakClickRate != 25 || cfg.Recommendations.MobileClickRate != 20 {
		t.Fatalf("unexpected recommendation defaults %#v", cfg.Recommendations)
	}
	if cfg.Generator.WindowDays != 90 {
		t.Fatalf("unexpected window days %d", cfg.Generator.WindowDays)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RISK_ADDR", ":7070")
	t.Setenv("RISK_DATABASE_PATH", "env.db")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.DatabasePath != "env.db" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`addr: ":9090"
jwt_secret: "filekey"
timeout: "30s"
database_path: "test.db"
token_duration: "2h"
analytics:
  time_pattern_min_sample: 5
  time_pattern_limit: 20
recommendations:
  peak_click_rate: 30
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.JWTSecret != "filekey" || cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected top-level values: %#v", cfg)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.Analytics.TimePatternMinSample != 5 || cfg.Analytics.TimePatternLimit != 20 {
		t.Fatalf("analytics overrides not applied: %#v", cfg.Analytics)
	}
	// untouched nested fields keep their defaults
	if cfg.Analytics.CombinationMinSample != 2 {
		t.Fatalf("expected combination min sample default kept, got %d", cfg.Analytics.CombinationMinSample)
	}
	if cfg.Recommendations.PeakClickRate != 30 || cfg.Recommendations.MobileClickRate != 20 {
		t.Fatalf("unexpected recommendations: %#v", cfg.Recommendations)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("RISK_TEST_DOTENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RISK_TEST_DOTENV_VALUE", "")
	os.Unsetenv("RISK_TEST_DOTENV_VALUE")

	if err := config.LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("RISK_TEST_DOTENV_VALUE"); got != "from-file" {
		t.Fatalf("expected value loaded from file, got %q", got)
	}
}
