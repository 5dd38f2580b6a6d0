package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap/zapcore"

	"github.com/resale/backend/config"
	"github.com/resale/backend/internal/bootstrap"
	"github.com/resale/backend/internal/cli"
	"github.com/resale/backend/internal/infrastructure/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		once   sync.Once
		app    *bootstrap.App
		appErr error
	)
	load := func() (*bootstrap.App, error) {
		once.Do(func() {
			cfg, err := config.Load()
			if err != nil {
				appErr = err
				return
			}
			// stdout carries the JSON payload, so logs go to stderr and stay quiet below warn
			level := cfg.Log.Level
			if l, err := logger.ParseLevel(level); err == nil && l < zapcore.WarnLevel {
				level = "warn"
			}
			log, err := logger.New(&logger.Config{Level: level, Format: cfg.Log.Format, Output: "stderr"})
			if err != nil {
				appErr = err
				return
			}
			app = bootstrap.Build(cfg, log)
		})
		return app, appErr
	}

	deps := cli.Dependencies{
		Ebay: func() (cli.EbayService, error) {
			a, err := load()
			if err != nil || a.Ebay == nil {
				return nil, err
			}
			return a.Ebay, nil
		},
		Merchant: func() (cli.MerchantService, error) {
			a, err := load()
			if err != nil {
				return nil, err
			}
			return a.Merchant, nil
		},
	}

	if err := cli.NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
