package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr              string        `yaml:"addr"`
	JWTSecret         string        `yaml:"jwt_secret"`
	APITimeout        time.Duration `yaml:"timeout"`
	DatabasePath      string        `yaml:"database_path"`
	TokenDuration     time.Duration `yaml:"token_duration"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	MigrateOnStart    bool          `yaml:"migrate_on_start"`
	LogLevel          string        `yaml:"log_level"`

	Generator       GeneratorConfig      `yaml:"generator"`
	Analytics       AnalyticsConfig      `yaml:"analytics"`
	Recommendations RecommendationConfig `yaml:"recommendations"`
}

// GeneratorConfig bounds synthetic dataset generation requests.
type GeneratorConfig struct {
	DefaultEmployees int `yaml:"default_employees"`
	DefaultEvents    int `yaml:"default_events"`
	MaxEmployees     int `yaml:"max_employees"`
	MaxEvents        int `yaml:"max_events"`
	WindowDays       int `yaml:"window_days"`
}

// AnalyticsConfig carries the minimum-sample thresholds and row limits of the
// aggregation views. A zero limit means no limit.
type AnalyticsConfig struct {
	TimePatternMinSample int `yaml:"time_pattern_min_sample"`
	TimePatternLimit     int `yaml:"time_pattern_limit"`
	CombinationMinSample int `yaml:"combination_min_sample"`
	CombinationLimit     int `yaml:"combination_limit"`
	EmployeeLimit        int `yaml:"employee_limit"`
}

// RecommendationConfig holds click-rate percentages above which findings fire.
type RecommendationConfig struct {
	PeakClickRate   float64 `yaml:"peak_click_rate"`
	MobileClickRate float64 `yaml:"mobile_click_rate"`
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{DefaultEmployees: 200, DefaultEvents: 5000, MaxEmployees: 500, MaxEvents: 10000, WindowDays: 90}
}

func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{TimePatternMinSample: 3, CombinationMinSample: 2, CombinationLimit: 15, EmployeeLimit: 20}
}

func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{PeakClickRate: 25, MobileClickRate: 20}
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:              getEnv("RISK_ADDR", ":8080"),
		JWTSecret:         getEnv("RISK_JWT_SECRET", insecureJWTSecret),
		APITimeout:        apiTimeout,
		DatabasePath:      getEnv("RISK_DATABASE_PATH", "security_behavior.db"),
		TokenDuration:     tokenDuration,
		AdminPasswordHash: getEnv("RISK_ADMIN_PASSWORD_HASH", ""),
		MigrateOnStart:    true,
		LogLevel:          getEnv("RISK_LOG_LEVEL", "info"),
		Generator:         DefaultGeneratorConfig(),
		Analytics:         DefaultAnalyticsConfig(),
		Recommendations:   DefaultRecommendationConfig(),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Missing files are ignored and variables that
// are already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.JWTSecret == "" {
		problems = append(problems, "jwt_secret is required")
	} else if c.JWTSecret == insecureJWTSecret && !strings.EqualFold(os.Getenv("RISK_ENV"), "development") {
		problems = append(problems, "jwt_secret uses the insecure default outside development")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		problems = append(problems, "database_path is required")
	}
	if c.APITimeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.TokenDuration <= 0 {
		problems = append(problems, "token_duration must be positive")
	}

	g := c.Generator
	if g.MaxEmployees < 1 || g.MaxEvents < 0 {
		problems = append(problems, "generator maxima must be positive")
	}
	if g.DefaultEmployees < 1 || g.DefaultEmployees > g.MaxEmployees || g.DefaultEvents < 0 || g.DefaultEvents > g.MaxEvents {
		problems = append(problems, "generator defaults must lie within the maxima")
	}
	if g.WindowDays < 1 {
		problems = append(problems, "generator.window_days must be at least 1")
	}

	a := c.Analytics
	if a.TimePatternMinSample < 0 || a.CombinationMinSample < 0 || a.TimePatternLimit < 0 || a.CombinationLimit < 0 || a.EmployeeLimit < 0 {
		problems = append(problems, "analytics thresholds and limits must not be negative")
	}

	r := c.Recommendations
	if r.PeakClickRate < 0 || r.PeakClickRate > 100 || r.MobileClickRate < 0 || r.MobileClickRate > 100 {
		problems = append(problems, "recommendation thresholds must be percentages between 0 and 100")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
