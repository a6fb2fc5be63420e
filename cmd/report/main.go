package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/app"
	"github.com/spec-kit/ticket-sla/internal/auth"
	"github.com/spec-kit/ticket-sla/internal/config"
	"github.com/spec-kit/ticket-sla/internal/observability"
	"github.com/spec-kit/ticket-sla/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	flags := pflag.NewFlagSet("report", pflag.ExitOnError)
	jql := flags.String("jql", cfg.Jira.JQL, "JQL query selecting the tickets to evaluate")
	flags.StringVar(&cfg.Report.OutputPath, "out", cfg.Report.OutputPath, "CSV output path (empty disables export)")
	flags.IntVar(&cfg.Report.Workers, "workers", cfg.Report.Workers, "number of concurrent ticket workers")
	flags.BoolVar(&cfg.Report.FailFast, "fail-fast", cfg.Report.FailFast, "abort the run on the first ticket failure")
	flags.BoolVar(&cfg.Report.StoreResults, "store", cfg.Report.StoreResults, "persist reports to postgres when configured")
	mintToken := flags.String("mint-token", "", "print an API token for the given subject and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	if *mintToken != "" {
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
		token, expires, err := tokens.GenerateToken(*mintToken, auth.AllScopes...)
		if err != nil {
			log.Fatalf("mint token: %v", err)
		}
		fmt.Printf("%s\n# expires %s\n", token, expires.Format("2006-01-02 15:04:05Z07:00"))
		return
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init service", zap.Error(err))
	}
	defer a.Close()

	summary, err := a.Reports.Run(ctx, service.RunOptions{JQL: *jql})
	if err != nil {
		logger.Error("report run failed", zap.Error(err))
		a.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("write summary", zap.Error(err))
	}
}
