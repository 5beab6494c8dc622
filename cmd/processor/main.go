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
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (defaults to $SURVEY_CONFIG or ./config.yaml)")
	rawDir := fs.String("raw", "", "directory holding the developer_survey_<year> exports (overrides paths.raw_dir)")
	outFile := fs.String("out", "", "processed table to write (overrides paths.processed_csv)")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(contracts.GetFullVersionString("processor"))
		return 0
	}

	cfg, err := loadConfig(*configPath, *rawDir, *outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
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

	resp, runErr := application.RunProcess(ctx)
	if err := application.Close(context.Background()); err != nil {
		slog.Warn("Failed to close application", "error", err)
	}
	if runErr != nil {
		slog.ErrorContext(ctx, "Survey processing failed", "error", runErr,
			"error_type", string(apperrors.TypeOf(runErr)))
		return 1
	}

	slog.InfoContext(ctx, "Survey processing complete",
		"processed_csv", application.Paths.ProcessedCSV,
		"duration", resp.Duration)
	return 0
}

// loadConfig loads configuration and applies the command line overrides
func loadConfig(path, rawDir, outFile string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if rawDir != "" {
		cfg.Paths.RawDir = rawDir
	}
	if outFile != "" {
		cfg.Paths.ProcessedCSV = outFile
	}
	return cfg, nil
}
