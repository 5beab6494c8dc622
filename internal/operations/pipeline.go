package operations

import (
	"log/slog"

	"surveycli/internal/config"
	"surveycli/internal/exporter"
)

// Dependencies are the shared collaborators the survey steps are built with
type Dependencies struct {
	Paths  *config.Paths
	Tracer *OperationTracer
	Logger *slog.Logger
}

func (d Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// NewProcessRegistry registers the steps that rebuild the processed table
func NewProcessRegistry(cfg *Config, deps Dependencies) *Registry {
	registry := NewRegistry()
	registry.MustRegister(processingSteps(cfg, deps)...)
	return registry
}

// NewReportRegistry registers the cached report pipeline: reuse or rebuild
// the processed table, then aggregate and export reports
func NewReportRegistry(cfg *Config, deps Dependencies) *Registry {
	logger := deps.logger()
	metrics := deps.Tracer.Metrics()
	store := exporter.NewProcessedStore(cfg.Languages, logger)

	registry := NewRegistry()
	registry.MustRegister(NewCacheStage(cfg, store, metrics, logger))
	registry.MustRegister(processingSteps(cfg, deps)...)
	registry.MustRegister(
		NewAggregateStage(cfg, logger),
		NewReportStage(cfg, exporter.NewReportExporter(deps.Paths, logger), logger),
	)
	return registry
}

func processingSteps(cfg *Config, deps Dependencies) []Step {
	logger := deps.logger()
	metrics := deps.Tracer.Metrics()
	store := exporter.NewProcessedStore(cfg.Languages, logger)

	return []Step{
		NewLoadStage(cfg, metrics, logger),
		NewFilterStage(metrics, logger),
		NewFeaturesStage(cfg, logger),
		NewCleanStage(metrics, logger),
		NewPersistStage(cfg, store, metrics),
	}
}
