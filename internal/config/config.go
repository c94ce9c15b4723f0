// Package config handles configuration loading and validation for chunkmeter.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Artifacts locates the trained model and rank artifacts.
	Artifacts ArtifactConfig `toml:"artifacts" json:"artifacts" yaml:"artifacts"`

	// Server configures the scoring HTTP endpoint.
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// ArtifactConfig locates the model artifacts. Sources are local paths or
// http(s) URLs; local files are watched and hot-swapped on replacement.
type ArtifactConfig struct {
	// Model is the source of the PCFG model artifact.
	Model string `toml:"model" json:"model" yaml:"model"`

	// Rank is the source of the Monte-Carlo rank artifact.
	Rank string `toml:"rank" json:"rank" yaml:"rank"`

	// Watch enables hot reload of local artifact files.
	Watch bool `toml:"watch" json:"watch" yaml:"watch"`
}

// ServerConfig configures the scoring HTTP server.
type ServerConfig struct {
	// Listen is the address to bind, host:port.
	Listen string `toml:"listen" json:"listen" yaml:"listen"`

	// MaxPasswordBytes caps the accepted request password size.
	MaxPasswordBytes int `toml:"max_password_bytes" json:"max_password_bytes" yaml:"max_password_bytes"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the output format: text or json.
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is where logs go: stdout or stderr.
	Output string `toml:"output" json:"output" yaml:"output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Artifacts: ArtifactConfig{
			Model: "resources/pcfg_model.json",
			Rank:  "resources/pcfg_rank.json",
			Watch: true,
		},
		Server: ServerConfig{
			Listen:           "127.0.0.1:3001",
			MaxPasswordBytes: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads, parses, and validates a configuration file. A missing file
// yields the defaults. Environment overrides apply after parsing.
func Load(path string) (*Config, error) {
	cfg, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	return cfg, nil
}

// ApplyEnvOverrides applies CHUNKMETER_* environment variables over the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHUNKMETER_MODEL"); v != "" {
		c.Artifacts.Model = v
	}
	if v := os.Getenv("CHUNKMETER_RANK"); v != "" {
		c.Artifacts.Rank = v
	}
	if v := os.Getenv("CHUNKMETER_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("CHUNKMETER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}
	if c.Artifacts.Model == "" {
		errs = append(errs, ValidationError{Field: "artifacts.model", Message: "model source is required"})
	}
	if c.Artifacts.Rank == "" {
		errs = append(errs, ValidationError{Field: "artifacts.rank", Message: "rank source is required"})
	}
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.listen",
			Message: fmt.Sprintf("invalid listen address %q", c.Server.Listen),
		})
	}
	if c.Server.MaxPasswordBytes <= 0 {
		errs = append(errs, ValidationError{Field: "server.max_password_bytes", Message: "must be positive"})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
