package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"surveycli/internal/app"
	"surveycli/internal/config"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/infrastructure"
	"surveycli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (defaults to $SURVEY_CONFIG or ./config.yaml)")
	full := fs.Bool("full", false, "rebuild the processed table even if it already exists")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(contracts.GetFullVersionString("report"))
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cfg, nil)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	resp, runErr := application.RunReport(ctx, *full)
	if err := application.Close(context.Background()); err != nil {
		slog.Warn("Failed to close application", "error", err)
	}
	if runErr != nil {
		slog.ErrorContext(ctx, "Report generation failed", "error", runErr,
			"error_type", string(apperrors.TypeOf(runErr)))
		return 1
	}

	slog.InfoContext(ctx, "Report generation complete",
		"reports_dir", application.Paths.ReportsDir,
		"cached", resp.CacheHit,
		"files", len(resp.Outputs))
	return 0
}
