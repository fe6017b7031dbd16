package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/service"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tally",
		Short:         "Personal ledger backed by a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load configuration (config file + flag overrides)
			cfg, err := config.Build(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Show help when no subcommand is provided
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Backing spreadsheet (.xlsx, .xls or .csv)")
	rootCmd.PersistentFlags().String("sheet", "", "Worksheet to use in xlsx files (default is the first one)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		a.importCmd(),
		a.listCmd(),
		a.addCmd(),
		a.summaryCmd(),
		a.chartCmd(),
		a.exportCmd(),
		a.planCmd(),
		a.applyCmd(),
		a.shellCmd(),
	)
	return rootCmd
}

func newLogger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tally",
		Level:           cfg.Level(),
	})
}

// loadSession starts a session and imports paths into it. Without paths the
// configured backing file is imported when there is one.
func (a *app) loadSession(ctx context.Context, paths []string) (*service.Session, error) {
	session := service.NewSession(a.cfg, a.logger)

	if len(paths) == 0 {
		if a.cfg.File == "" {
			return session, nil
		}
		paths = []string{a.cfg.File}
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			if _, err := session.ImportDirectory(ctx, path); err != nil {
				return nil, err
			}
			continue
		}
		files = append(files, path)
	}
	if len(files) > 0 {
		if _, err := session.ImportFiles(ctx, files...); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
