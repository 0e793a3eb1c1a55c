// Package config loads the runtime configuration: defaults, YAML files per
// environment, then environment variables. In development the files are
// watched and changes are pushed to the running services.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domainconfig "thoughtgraph/domain/config"
)

// Environment is the deployment environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// Settings store backends
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreRedis  = "redis"
)

// Notes sources
const (
	SourceFile     = "file"
	SourceSupabase = "supabase"
)

// Config is the complete runtime configuration
type Config struct {
	Environment Environment              `yaml:"environment" validate:"required,oneof=development test production"`
	Logging     Logging                  `yaml:"logging"`
	Graph       domainconfig.GraphConfig `yaml:"graph"`
	Orbit       domainconfig.OrbitConfig `yaml:"orbit"`
	Settings    SettingsStore            `yaml:"settings"`
	Notes       Notes                    `yaml:"notes"`
	Metrics     Metrics                  `yaml:"metrics"`
	Breaker     CircuitBreaker           `yaml:"breaker"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// Logging configures zap
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// SettingsStore selects where display settings are persisted
type SettingsStore struct {
	Backend   string `yaml:"backend" validate:"oneof=memory badger redis"`
	Key       string `yaml:"key" validate:"required"`
	BadgerDir string `yaml:"badger_dir" validate:"required_if=Backend badger"`
	Redis     Redis  `yaml:"redis"`
}

// Redis connection settings
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	Prefix   string        `yaml:"prefix"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Notes selects where notes are read from
type Notes struct {
	Source   string   `yaml:"source" validate:"oneof=file supabase"`
	File     string   `yaml:"file"`
	Supabase Supabase `yaml:"supabase"`
}

// Supabase connection settings
type Supabase struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Table string `yaml:"table"`
}

// Metrics configures the Prometheus collector
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required"`
}

// CircuitBreaker configures the breakers around remote stores
type CircuitBreaker struct {
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	FailureRatio float64       `yaml:"failure_ratio" validate:"gt=0,lte=1"`
	MinRequests  uint32        `yaml:"min_requests"`
}

var validate = validator.New()

// Validate checks the configuration, including the domain tunables
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}

	if c.Settings.Backend == StoreRedis && c.Settings.Redis.Addr == "" {
		problems = append(problems, "settings.redis.addr is required for the redis backend")
	}
	switch c.Notes.Source {
	case SourceFile:
		if c.Notes.File == "" {
			problems = append(problems, "notes.file is required for the file source")
		}
	case SourceSupabase:
		if c.Notes.Supabase.URL == "" || c.Notes.Supabase.Key == "" || c.Notes.Supabase.Table == "" {
			problems = append(problems, "notes.supabase url, key and table are required for the supabase source")
		}
	}

	if err := c.Graph.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.Orbit.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsDevelopment reports whether hot reloading and verbose logging apply
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// Defaults returns the built-in configuration for an environment
func Defaults(env Environment) *Config {
	cfg := &Config{
		Environment: env,
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Graph: *domainconfig.LoadGraphConfig(string(env)),
		Orbit: *domainconfig.DefaultOrbitConfig(),
		Settings: SettingsStore{
			Backend: StoreMemory,
			Key:     "display-settings",
			Redis: Redis{
				Addr:    "localhost:6379",
				Prefix:  "thoughtgraph:",
				Timeout: 2 * time.Second,
			},
		},
		Notes: Notes{
			Source: SourceFile,
			File:   "notes.json",
			Supabase: Supabase{
				Table: "notes",
			},
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "thoughtgraph",
		},
		Breaker: CircuitBreaker{
			MaxRequests:  3,
			Interval:     10 * time.Second,
			Timeout:      30 * time.Second,
			FailureRatio: 0.5,
			MinRequests:  5,
		},
	}

	if env == Development {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	return cfg
}
