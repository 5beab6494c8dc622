package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"surveycli/internal/config"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/infrastructure"
	"surveycli/internal/operations"
)

// Application wires configuration, logging, telemetry and the survey pipeline
// for one command invocation
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Tracer        *operations.OperationTracer
}

// NewApplication resolves paths and starts telemetry. A nil logger
// initializes the global logger from cfg.Logging, with a relative log file
// placed inside the logs directory.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	if logger == nil {
		logCfg := cfg.Logging
		if logCfg.FilePath != "" {
			logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
		}
		logger, err = infrastructure.InitializeLogger(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.InfoContext(ctx, "application_starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(ctx, cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize operation tracer: %w", err)
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Tracer:        tracer,
	}, nil
}

// RunProcess rebuilds the processed table from the raw survey exports
func (a *Application) RunProcess(ctx context.Context) (*operations.OperationResponse, error) {
	stepCfg, err := a.stepConfig()
	if err != nil {
		return nil, err
	}
	return a.execute(ctx, operations.NewProcessRegistry(stepCfg, a.dependencies()))
}

// RunReport aggregates the processed table and writes the reports. An
// existing processed table is reused unless full is set.
func (a *Application) RunReport(ctx context.Context, full bool) (*operations.OperationResponse, error) {
	stepCfg, err := a.stepConfig()
	if err != nil {
		return nil, err
	}
	stepCfg.ForceReprocess = stepCfg.ForceReprocess || full
	return a.execute(ctx, operations.NewReportRegistry(stepCfg, a.dependencies()))
}

func (a *Application) stepConfig() (*operations.Config, error) {
	stepCfg, err := operations.FromAppConfig(a.Config, a.Paths)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return stepCfg, nil
}

func (a *Application) dependencies() operations.Dependencies {
	return operations.Dependencies{
		Paths:  a.Paths,
		Tracer: a.Tracer,
		Logger: a.Logger,
	}
}

func (a *Application) execute(ctx context.Context, registry *operations.Registry) (*operations.OperationResponse, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	manager := operations.NewManager(registry, a.Tracer, a.Logger)

	resp, runErr := manager.Execute(ctx, operations.OperationRequest{})

	manifest := operations.NewRunManifest(resp)
	if runErr != nil {
		manifest.ErrorType = string(apperrors.TypeOf(runErr))
	}
	manifestPath := a.Paths.GetReportPath(config.RunManifestName)
	if err := manifest.Save(manifestPath); err != nil {
		a.Logger.WarnContext(ctx, "run_manifest_not_saved",
			slog.String("path", manifestPath),
			slog.String("error", err.Error()))
	}

	return resp, runErr
}

// Close flushes telemetry and writes the metrics textfile when enabled
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.Config.Telemetry.Metrics && a.Paths.MetricsFile != "" {
		if err := a.OTelProviders.WriteMetrics(a.Paths.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		} else {
			a.Logger.InfoContext(ctx, "metrics_written", slog.String("path", a.Paths.MetricsFile))
		}
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down telemetry: %w", err))
	}
	return errors.Join(errs...)
}
