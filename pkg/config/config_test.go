package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 40, cfg.ChartWidth)
	assert.True(t, cfg.MatchByFingerprint)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestBuildLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgFile := filepath.Join(dir, "tally.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"file: ledger.xlsx\nsheet: Budget\nchart_width: 60\nport: \"9000\"\n"), 0o644))
	t.Setenv("TALLY_CHART_WIDTH", "80")
	t.Setenv("TALLY_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "", "")
	flags.String("sheet", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "9100"}))

	cfg, err := Build(cfgFile, flags)
	require.NoError(t, err)

	assert.Equal(t, "ledger.xlsx", cfg.File)
	assert.Equal(t, "Budget", cfg.Sheet, "unset flag must not hide the file value")
	assert.Equal(t, 80, cfg.ChartWidth)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, "9100", cfg.Port)
}

func TestBuildDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TALLY_SHEET=FromDotEnv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TALLY_SHEET") })

	cfg, err := Build("", nil)
	require.NoError(t, err)
	assert.Equal(t, "FromDotEnv", cfg.Sheet)
}

func TestBuildMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Build("does-not-exist.yaml", nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{LogLevel: "info", ChartWidth: 40, Port: "8080", File: "ledger.csv"}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, errorString: "invalid log level 'loud'"},
		{name: "narrow chart", mutate: func(c *Config) { c.ChartWidth = 2 }, errorString: "invalid chart width 2"},
		{name: "port not a number", mutate: func(c *Config) { c.Port = "abc" }, errorString: "invalid port 'abc': must be a number"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, errorString: "invalid port 70000"},
		{name: "unsupported file", mutate: func(c *Config) { c.File = "ledger.json" }, errorString: "unsupported backing file 'ledger.json'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "ledger.xlsx"), ExpandPath("~/ledger.xlsx"))
	assert.Equal(t, "/tmp/ledger.xlsx", ExpandPath("/tmp/ledger.xlsx"))
	assert.Equal(t, "", ExpandPath(""))
}
