package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/tally/pkg/parser"
)

const envPrefix = "TALLY"

type Config struct {
	// Backing spreadsheet
	File  string `mapstructure:"file"`
	Sheet string `mapstructure:"sheet"`

	LogLevel   string `mapstructure:"log_level"`
	ChartWidth int    `mapstructure:"chart_width"`

	// Match plan entries against the backing file by fingerprint instead of
	// by field comparison.
	MatchByFingerprint bool `mapstructure:"match_by_fingerprint"`

	// HTTP Server
	Port string `mapstructure:"port"`
}

var defaults = map[string]any{
	"file":                 "",
	"sheet":                "",
	"log_level":            "info",
	"chart_width":          40,
	"match_by_fingerprint": true,
	"port":                 "8080",
}

// flagNames maps config keys to the command line flags that override them.
var flagNames = map[string]string{
	"file":                 "file",
	"sheet":                "sheet",
	"log_level":            "log-level",
	"chart_width":          "width",
	"match_by_fingerprint": "fingerprint",
	"port":                 "port",
}

// Build loads the configuration. Later sources win: defaults, the config
// file, .env, TALLY_* environment variables, then flags that were set.
// cfgFile may be empty, in which case config.yaml is looked up in the
// working directory and is optional.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = ExpandPath(cfg.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.ChartWidth < 10 || c.ChartWidth > 200 {
		problems = append(problems, fmt.Sprintf("invalid chart width %d: must be between 10 and 200", c.ChartWidth))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.File != "" && !parser.Supported(c.File) {
		problems = append(problems, fmt.Sprintf("unsupported backing file '%s': must be .xlsx, .xls or .csv", c.File))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Level returns the parsed log level, info when it cannot be parsed.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ExpandPath replaces a leading ~/ with the user's home directory.
func ExpandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
