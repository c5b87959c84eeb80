package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps Load from picking up a real barcoder.yaml
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  dir: ./exports
  format: xlsx
  zip: false
input:
  header_rows: 1
transform:
  coerce_numbers: true
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./exports", cfg.Output.Dir)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.False(t, cfg.Output.Zip)
	assert.Equal(t, 1, cfg.Input.HeaderRows)
	assert.True(t, cfg.Transform.CoerceNumbers)
	assert.Equal(t, "1c_files", cfg.Output.ArchivePrefix, "unset keys keep defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("BARCODER_OUTPUT_FORMAT", "xlsx")
	t.Setenv("BARCODER_TRANSFORM_STRICT_COLUMNS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.True(t, cfg.Transform.StrictColumns)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config path must exist")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: pdf\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults", func(*Config) {}, false},
		{"Bad format", func(c *Config) { c.Output.Format = "ods" }, true},
		{"Bad encoding", func(c *Config) { c.Output.Encoding = "latin1" }, true},
		{"Negative header rows", func(c *Config) { c.Input.HeaderRows = -1 }, true},
		{"Bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"JSON logs", func(c *Config) { c.Log.Format = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcoder.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Error(t, WriteDefault(path), "existing file is not overwritten")
}
