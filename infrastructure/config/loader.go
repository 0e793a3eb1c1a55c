package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader builds a Config from layered sources. Later sources win:
//  1. defaults for the environment
//  2. base.yaml
//  3. <environment>.yaml
//  4. environment variables
type Loader struct {
	basePath    string
	environment Environment
	fileLoaders []FileLoader
	getenv      func(string) string
}

// FileLoader decodes one configuration file format
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// YAMLLoader loads YAML configuration files
type YAMLLoader struct{}

func (YAMLLoader) Load(reader io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (YAMLLoader) Extension() string { return "yaml" }

// NewLoader creates a loader reading files from basePath
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	if env == "" {
		env = Development
	}
	return &Loader{
		basePath:    basePath,
		environment: env,
		fileLoaders: []FileLoader{YAMLLoader{}},
		getenv:      os.Getenv,
	}
}

// EnvironmentFromEnv reads THOUGHTGRAPH_ENV, defaulting to development
func EnvironmentFromEnv() Environment {
	if env := strings.ToLower(strings.TrimSpace(os.Getenv("THOUGHTGRAPH_ENV"))); env != "" {
		return Environment(env)
	}
	return Development
}

// BasePath returns the directory configuration files are read from
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load reads every source and validates the result
func (l *Loader) Load() (*Config, error) {
	cfg := Defaults(l.environment)
	sources := []string{"defaults"}

	for _, name := range []string{"base", string(l.environment)} {
		path, err := l.loadFile(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", name, err)
		}
		if path != "" {
			sources = append(sources, path)
		}
	}

	// A file must not move the config to another environment
	cfg.Environment = l.environment

	if l.applyEnvironment(cfg) {
		sources = append(sources, "environment")
	}
	cfg.LoadedFrom = sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile applies name.<ext> if it exists and returns its path
func (l *Loader) loadFile(name string, cfg *Config) (string, error) {
	for _, loader := range l.fileLoaders {
		path := filepath.Join(l.basePath, name+"."+loader.Extension())

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}

		err = loader.Load(file, cfg)
		file.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// applyEnvironment overlays environment variables and reports whether any
// were set
func (l *Loader) applyEnvironment(cfg *Config) bool {
	applied := false
	str := func(key string, dst *string) {
		if val := l.getenv(key); val != "" {
			*dst = val
			applied = true
		}
	}
	integer := func(key string, dst *int) {
		if val := l.getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil {
				*dst = n
				applied = true
			}
		}
	}

	str("THOUGHTGRAPH_LOG_LEVEL", &cfg.Logging.Level)
	str("THOUGHTGRAPH_LOG_FORMAT", &cfg.Logging.Format)

	str("THOUGHTGRAPH_SETTINGS_BACKEND", &cfg.Settings.Backend)
	str("THOUGHTGRAPH_SETTINGS_KEY", &cfg.Settings.Key)
	str("THOUGHTGRAPH_BADGER_DIR", &cfg.Settings.BadgerDir)
	str("REDIS_ADDR", &cfg.Settings.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Settings.Redis.Password)
	integer("REDIS_DB", &cfg.Settings.Redis.DB)

	str("THOUGHTGRAPH_NOTES_SOURCE", &cfg.Notes.Source)
	str("THOUGHTGRAPH_NOTES_FILE", &cfg.Notes.File)
	str("SUPABASE_URL", &cfg.Notes.Supabase.URL)
	str("SUPABASE_KEY", &cfg.Notes.Supabase.Key)
	str("SUPABASE_TABLE", &cfg.Notes.Supabase.Table)

	integer("THOUGHTGRAPH_MAX_SESSIONS", &cfg.Graph.MaxRenderedSessions)

	if val := l.getenv("ENABLE_METRICS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
			applied = true
		}
	}

	return applied
}
