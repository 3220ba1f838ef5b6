// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML policy file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studytime/internal/repository"
	"github.com/alexanderramin/studytime/internal/service"
	"github.com/alexanderramin/studytime/internal/studytime"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	DBPath        string
	RedisURL      string
	LimitCacheTTL time.Duration
	BatchWorkers  int
	LogLevel      slog.Level
	LogFormat     string // "text" or "json"
	Location      *time.Location
	PolicyFile    string
	Policy        studytime.Policy
}

// DefaultConfig returns a Config with sensible defaults.
// The Redis limit cache is disabled by default.
func DefaultConfig() Config {
	dbPath := "studytime.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".studytime", "studytime.db")
	}
	return Config{
		DBPath:        dbPath,
		LimitCacheTTL: repository.DefaultLimitCacheTTL,
		BatchWorkers:  service.DefaultBatchWorkers,
		LogLevel:      slog.LevelInfo,
		LogFormat:     "text",
		Location:      time.Local,
		Policy:        studytime.DefaultPolicy(),
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset or unparseable values. The policy file, when
// named, is applied before the policy environment overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDYTIME_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STUDYTIME_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("STUDYTIME_LIMIT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LimitCacheTTL = d
		}
	}
	if v := os.Getenv("STUDYTIME_BATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BatchWorkers = n
		}
	}
	if v := os.Getenv("STUDYTIME_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := strings.ToLower(os.Getenv("STUDYTIME_LOG_FORMAT")); v == "text" || v == "json" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("STUDYTIME_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("loading timezone %q: %w", v, err)
		}
		cfg.Location = loc
	}

	if v := os.Getenv("STUDYTIME_POLICY_FILE"); v != "" {
		cfg.PolicyFile = v
		p, err := LoadPolicyFile(v)
		if err != nil {
			return cfg, err
		}
		cfg.Policy = p
	}

	if v := os.Getenv("STUDYTIME_DAILY_LIMIT_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Policy.DailyLimitSeconds = f
		}
	}
	if v := os.Getenv("STUDYTIME_INTERACTION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Policy.InteractionTimeoutSeconds = n
		}
	}
	if v := os.Getenv("STUDYTIME_CONTINUITY_GAP_SECONDS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Policy.ContinuityGapSeconds = n
		}
	}

	return cfg, nil
}

// LoadPolicyFile decodes a YAML policy. Omitted fields keep their defaults.
func LoadPolicyFile(path string) (studytime.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return studytime.Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	p := studytime.DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return studytime.Policy{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}
	p = p.WithDefaults()
	if w := p.Weights; w.Focus < 0 || w.Interaction < 0 || w.Continuity < 0 {
		return studytime.Policy{}, fmt.Errorf("policy file %s: weights must not be negative", path)
	}
	return p, nil
}

// NewLogger builds the slog logger described by the config.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
