package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/app"
	"github.com/octobees/presence-audit/internal/cli"
	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Terminal output belongs to the report; logs go to LOG_FILE or nowhere.
	zl := zap.NewNop()
	if cfg.LogFile != "" {
		if zl, err = logger.New(cfg.LogLevel, cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = zl.Sync() }()

	tool := cli.NewCLI(cli.Options{
		Open: func(ctx context.Context) (cli.Auditor, func(), error) {
			a, err := app.Build(ctx, cfg, zl)
			if err != nil {
				return nil, nil, err
			}
			return a.Audits, a.Close, nil
		},
		Output:  os.Stdout,
		Limits:  cli.Limits{Daily: cfg.DailyQuotaLimit, ProDaily: cfg.ProDailyQuotaLimit},
		Timeout: 15 * cfg.ProviderTimeout,
	})

	if err := tool.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
