// Package config loads and saves the wsynab config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG subdirectories.
const AppName = "wsynab"

// FileName is the config file name inside the XDG config directory.
const FileName = "config.yaml"

// Config represents the top-level config.yaml.
type Config struct {
	Settings SettingsConfig `yaml:"settings"`
	Export   ExportConfig   `yaml:"export"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// SettingsConfig selects where rename rules are persisted.
type SettingsConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=file sqlite memory"`
	Path    string `yaml:"path" validate:"required_unless=Backend memory"`
}

// ExportConfig controls where the CSV is written.
type ExportConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	FileName string `yaml:"file_name" validate:"required"`
	RunLog   string `yaml:"run_log"`
}

// ImportConfig points at the directory scanned for saved activity pages.
type ImportConfig struct {
	Dir     string `yaml:"dir" validate:"required"`
	Archive bool   `yaml:"archive"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// MetricsConfig enables the Prometheus textfile. Empty path disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

var validate = validator.New()

// DefaultPath is config.yaml under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// DefaultDataDir is the XDG data directory for settings, snapshots and logs.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Default returns a Config rooted at the XDG data directory.
func Default() *Config {
	return DefaultIn(DefaultDataDir())
}

// DefaultIn returns a Config keeping all data under dataDir.
func DefaultIn(dataDir string) *Config {
	return &Config{
		Settings: SettingsConfig{
			Backend: "file",
			Path:    filepath.Join(dataDir, "settings.json"),
		},
		Export: ExportConfig{
			Dir:      dataDir,
			FileName: "Wealthsimple.csv",
			RunLog:   filepath.Join(dataDir, "logs", "runs.csv"),
		},
		Import: ImportConfig{
			Dir: filepath.Join(dataDir, "import"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a config file from disk. Keys missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the struct tags on every section.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	name := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
