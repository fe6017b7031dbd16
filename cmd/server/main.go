package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/server"
	"github.com/yurifrl/tally/pkg/service"
)

func main() {
	flags := pflag.NewFlagSet("tally-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("port", "", "Server port")
	flags.StringP("file", "f", "", "Backing spreadsheet (.xlsx, .xls or .csv)")
	flags.String("sheet", "", "Worksheet to use in xlsx files")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "tally-server",
		Level:           cfg.Level(),
	})

	session := service.NewSession(cfg, logger)
	if cfg.File != "" {
		_, err := session.Import(cfg.File)
		switch {
		case errors.Is(err, parser.ErrSourceNotFound):
			logger.Warn("backing file does not exist, recording is disabled until it does", "file", cfg.File)
		case err != nil:
			logger.Fatal("failed to load backing file", "file", cfg.File, "err", err)
		default:
			logger.Info("loaded backing file", "file", cfg.File, "balance", session.Balance())
		}
	}

	srv := server.New(cfg, logger, session)
	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
