package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultIn(dir)
	cfg.Settings.Backend = "sqlite"
	cfg.Settings.Path = filepath.Join(dir, "settings.db")
	cfg.Import.Archive = true
	cfg.Metrics.Textfile = filepath.Join(dir, "wsynab.prom")

	path := filepath.Join(dir, "nested", "config.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := DefaultIn("/data")

	assert.Equal(t, "file", cfg.Settings.Backend)
	assert.Equal(t, filepath.Join("/data", "settings.json"), cfg.Settings.Path)
	assert.Equal(t, "/data", cfg.Export.Dir)
	assert.Equal(t, "Wealthsimple.csv", cfg.Export.FileName)
	assert.Equal(t, filepath.Join("/data", "logs", "runs.csv"), cfg.Export.RunLog)
	assert.Equal(t, filepath.Join("/data", "import"), cfg.Import.Dir)
	assert.False(t, cfg.Import.Archive)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultUsesXDG(t *testing.T) {
	assert.Equal(t, AppName, filepath.Base(DefaultDataDir()))
	assert.Equal(t, FileName, filepath.Base(DefaultPath()))
	assert.Equal(t, DefaultDataDir(), Default().Export.Dir)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Settings.Backend)
	assert.Equal(t, "Wealthsimple.csv", cfg.Export.FileName)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Settings.Backend = "redis" }, "Settings.Backend must be one of"},
		{"missing path", func(c *Config) { c.Settings.Path = "" }, "Settings.Path is required"},
		{"memory needs no path", func(c *Config) { c.Settings.Backend = "memory"; c.Settings.Path = "" }, ""},
		{"missing export dir", func(c *Config) { c.Export.Dir = "" }, "Export.Dir is required"},
		{"missing file name", func(c *Config) { c.Export.FileName = "" }, "Export.FileName is required"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Log.Level must be one of"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "Log.Format must be one of"},
		{"empty log settings", func(c *Config) { c.Log = LogConfig{} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultIn(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  backend: redis\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestYAMLFormat(t *testing.T) {
	cfg := DefaultIn("/data")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "file_name: Wealthsimple.csv")
	assert.Contains(t, contents, "archive: false")
	assert.Contains(t, contents, "level: info")
	assert.NotContains(t, contents, "textfile")
}

func TestLoadEmptyRunLogStaysEmpty(t *testing.T) {
	cfg := DefaultIn(t.TempDir())
	cfg.Export.RunLog = ""
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got.Export.RunLog)
}
