// Package config loads the htmlgen YAML configuration.
//
// Values may reference environment variables as ${VAR}. Variables from
// .env.local and .env in the working directory are loaded first without
// overriding the process environment.
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/signaturit"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "htmlgen.yaml"

// TokenEnv is consulted when no token is configured.
const TokenEnv = "SIGNATURIT_TOKEN"

// Config represents the application configuration.
type Config struct {
	Signaturit SignaturitConfig `yaml:"signaturit"`
	Editor     EditorConfig     `yaml:"editor"`
	Store      StoreConfig      `yaml:"store"`
	Relay      RelayConfig      `yaml:"relay"`
	Preview    PreviewConfig    `yaml:"preview"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SignaturitConfig selects the provider environment and how to reach it.
type SignaturitConfig struct {
	Environment signaturit.Environment `yaml:"environment"`
	Token       string                 `yaml:"token,omitempty"`
	RelayURL    string                 `yaml:"relay_url"`
	Timeout     time.Duration          `yaml:"timeout"`
	Retry       RetryConfig            `yaml:"retry"`
}

// RetryConfig controls retries of branding reads that fail at the network
// level. MaxRetries defaults to zero, so nothing is retried unless asked
// for. Writes are never retried.
type RetryConfig struct {
	Backoff    retry.BackoffMode `yaml:"backoff"`
	Initial    time.Duration     `yaml:"initial"`
	Max        time.Duration     `yaml:"max"`
	MaxRetries int               `yaml:"max_retries"`
}

// Policy converts the settings into a retry policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.NewPolicy(r.Backoff, r.Initial, r.Max, r.MaxRetries)
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	Category variables.Category `yaml:"category"`
	Minify   bool               `yaml:"minify"`
}

// StoreConfig selects where brandings are persisted.
type StoreConfig struct {
	Driver StoreDriver `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// RelayConfig configures the relay service.
type RelayConfig struct {
	Listen         string   `yaml:"listen"`
	Path           string   `yaml:"path"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	Metrics        bool     `yaml:"metrics"`
}

// PreviewConfig configures the live preview server.
type PreviewConfig struct {
	Port    int  `yaml:"port"`
	Metrics bool `yaml:"metrics"`
}

// MetricsConfig configures metrics for one-shot commands. When Textfile is
// set, every command writes its counters there on exit in the Prometheus
// text format.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads the configuration at path. An empty path yields the defaults
// plus the environment token, if any.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if path != "" {
		// #nosec G304 -- configuration path is chosen by the user
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, ferrors.ConfigError("configuration file not found").
					WithContext("path", path).
					Build()
			}
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration").Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration").
				WithContext("path", path).
				Build()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Signaturit.Environment == "" {
		cfg.Signaturit.Environment = signaturit.Sandbox
	}
	if cfg.Signaturit.Token == "" {
		cfg.Signaturit.Token = os.Getenv(TokenEnv)
	}
	if cfg.Signaturit.RelayURL == "" {
		cfg.Signaturit.RelayURL = "http://localhost:8787/relay"
	}
	if cfg.Signaturit.Timeout <= 0 {
		cfg.Signaturit.Timeout = 30 * time.Second
	}
	if cfg.Signaturit.Retry.Backoff == "" {
		cfg.Signaturit.Retry.Backoff = retry.DefaultPolicy().Mode
	}
	if cfg.Editor.Category == "" {
		cfg.Editor.Category = variables.SignaturesRequest
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverSignaturit
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "htmlgen.db"
	}
	if cfg.Relay.Listen == "" {
		cfg.Relay.Listen = ":8787"
	}
	if cfg.Relay.Path == "" {
		cfg.Relay.Path = "/relay"
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = 8788
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

// normalize canonicalises enum values and rejects unknown ones.
func (c *Config) normalize() error {
	if c.Signaturit.Environment != "" {
		env, err := signaturit.ParseEnvironment(string(c.Signaturit.Environment))
		if err != nil {
			return err
		}
		c.Signaturit.Environment = env
	}
	if c.Editor.Category != "" {
		category, err := variables.ParseCategory(string(c.Editor.Category))
		if err != nil {
			return err
		}
		c.Editor.Category = category
	}

	if c.Signaturit.Retry.Backoff != "" {
		backoff, err := backoffNormalizer.NormalizeWithValidation(string(c.Signaturit.Retry.Backoff))
		if err != nil {
			return err
		}
		c.Signaturit.Retry.Backoff = backoff
	}
	if c.Signaturit.Retry.MaxRetries < 0 {
		return ferrors.ValidationError("retry max_retries cannot be negative").Build()
	}

	driver, err := storeDriverNormalizer.NormalizeWithValidation(string(c.Store.Driver))
	if err != nil {
		return err
	}
	c.Store.Driver = driver

	level, err := logLevelNormalizer.NormalizeWithValidation(string(c.Logging.Level))
	if err != nil {
		return err
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithValidation(string(c.Logging.Format))
	if err != nil {
		return err
	}
	c.Logging.Format = format

	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return ferrors.ValidationError("preview port out of range").
			WithContext("port", c.Preview.Port).
			Build()
	}
	return nil
}
