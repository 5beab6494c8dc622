package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"surveycli/internal/dataprocessing"
	"surveycli/internal/errors"
	"surveycli/internal/exporter"
	"surveycli/internal/files"
	"surveycli/internal/infrastructure"
	"surveycli/pkg/contracts/domain"
)

const cacheHitReason = "processed table loaded from cache"

// skipOnCacheHit is embedded by the steps that rebuild the processed table
type skipOnCacheHit struct{}

// ShouldSkip skips the step when a cached table was loaded
func (skipOnCacheHit) ShouldSkip(state *OperationState) (bool, string) {
	if state.CacheHit() {
		return true, cacheHitReason
	}
	return false, ""
}

// CacheStage loads an existing processed table instead of rebuilding it
type CacheStage struct {
	BaseStage
	store   *exporter.ProcessedStore
	path    string
	force   bool
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewCacheStage creates the cache step
func NewCacheStage(cfg *Config, store *exporter.ProcessedStore, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *CacheStage {
	return &CacheStage{
		BaseStage: NewBaseStage(StageIDCache, StageNameCache, nil),
		store:     store,
		path:      cfg.ProcessedCSV,
		force:     cfg.ForceReprocess,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute loads the processed table when it exists and reprocessing is not forced
func (s *CacheStage) Execute(ctx context.Context, state *OperationState) error {
	state.SetContext(ContextKeyCacheHit, false)
	stepState := state.GetStage(s.ID())

	if s.force {
		s.logger.InfoContext(ctx, "processed_table_cache_bypassed", "path", s.path)
		stepState.UpdateProgress(100, "reprocessing forced")
		return nil
	}
	if !s.store.Exists(s.path) {
		s.logger.InfoContext(ctx, "processed_table_missing", "path", s.path)
		stepState.UpdateProgress(100, "no processed table, reprocessing")
		return nil
	}

	rows, err := s.store.Read(s.path)
	if err != nil {
		return err
	}

	state.SetResponses(rows)
	state.SetContext(ContextKeyCacheHit, true)
	stepState.SetMetadata("rows", len(rows))
	stepState.UpdateProgress(100, cacheHitReason)
	s.metrics.CacheHit(ctx)
	s.logger.InfoContext(ctx, "processed_table_cache_hit",
		"path", s.path,
		"rows", len(rows))
	return nil
}

// LoadStage discovers, reads and reconciles every configured survey year
type LoadStage struct {
	BaseStage
	skipOnCacheHit
	cfg        *Config
	discovery  *files.Discovery
	reconciler *dataprocessing.Reconciler
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// NewLoadStage creates the load step
func NewLoadStage(cfg *Config, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage:  NewBaseStage(StageIDLoad, StageNameLoad, nil),
		cfg:        cfg,
		discovery:  files.NewDiscovery(cfg.RawDir),
		reconciler: dataprocessing.NewReconciler(cfg.Formats),
		metrics:    metrics,
		logger:     logger,
	}
}

// Validate requires at least one year
func (s *LoadStage) Validate(state *OperationState) error {
	if len(s.cfg.Years) == 0 {
		return NewValidationError(s.ID(), "no survey years configured")
	}
	return nil
}

// Execute reads the years concurrently and concatenates them in ascending
// year order
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	years := s.cfg.SortedYears()
	results := make([][]domain.SurveyResponse, len(years))
	stepState := state.GetStage(s.ID())

	s.logger.InfoContext(ctx, "loading_survey_data",
		"years", years,
		"raw_dir", s.cfg.RawDir)
	s.warnUnconfiguredYears(ctx, years)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Workers))
	for i, year := range years {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := s.loadYear(gctx, year)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	all := make([]domain.SurveyResponse, 0, total)
	for _, rows := range results {
		all = append(all, rows...)
	}

	state.SetResponses(all)
	stepState.SetMetadata("rows", total)
	stepState.UpdateProgress(100, fmt.Sprintf("loaded %d responses", total))
	return nil
}

// warnUnconfiguredYears flags survey directories under the raw dir that the
// run will not read
func (s *LoadStage) warnUnconfiguredYears(ctx context.Context, years []int) {
	found, err := s.discovery.ListSurveyYears("")
	if err != nil {
		s.logger.DebugContext(ctx, "survey_directories_not_listed", "error", err.Error())
		return
	}

	configured := make(map[int]bool, len(years))
	for _, y := range years {
		configured[y] = true
	}
	var extra []int
	for _, y := range found {
		if !configured[y] {
			extra = append(extra, y)
		}
	}
	if len(extra) > 0 {
		s.logger.WarnContext(ctx, "unconfigured_survey_years",
			"years", extra,
			"raw_dir", s.cfg.RawDir)
	}
}

func (s *LoadStage) loadYear(ctx context.Context, year int) ([]domain.SurveyResponse, error) {
	format, ok := s.cfg.Formats.Lookup(year)
	if !ok {
		return nil, errors.NewSchemaMismatchError(year, "", "", "no survey format for year")
	}

	file, err := s.discovery.FindSurveyExport(year, format.Source)
	if err != nil {
		return nil, fmt.Errorf("survey %d: %w", year, err)
	}

	table, err := dataprocessing.ReadRawFile(file.Path, dataprocessing.ReadOptions{
		Path:       file.Path,
		NullTokens: s.cfg.NullTokens,
		AllText:    format.AllText,
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.reconciler.Reconcile(year, table)
	if err != nil {
		return nil, err
	}

	s.metrics.RowsRead(ctx, year, len(rows))
	s.logger.InfoContext(ctx, "survey_year_loaded",
		"year", year,
		"path", file.Path,
		"rows", len(rows))
	return rows, nil
}

// FilterStage keeps only respondents in a data-science role
type FilterStage struct {
	BaseStage
	skipOnCacheHit
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewFilterStage creates the filter step
func NewFilterStage(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *FilterStage {
	return &FilterStage{
		BaseStage: NewBaseStage(StageIDFilter, StageNameFilter, []string{StageIDLoad}),
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute applies the data-scientist filter
func (s *FilterStage) Execute(ctx context.Context, state *OperationState) error {
	rows := state.Responses()
	before := dataprocessing.CountByYear(rows)

	kept, dropped := dataprocessing.FilterDataScientists(rows)
	recordDropped(ctx, s.metrics, before, dataprocessing.CountByYear(kept), infrastructure.DropReasonRole)

	state.SetResponses(kept)
	state.GetStage(s.ID()).SetMetadata("dropped", dropped)
	s.logger.InfoContext(ctx, "data_scientists_filtered",
		"retained", len(kept),
		"dropped", dropped)
	return nil
}

// FeaturesStage computes the per-language flags
type FeaturesStage struct {
	BaseStage
	skipOnCacheHit
	engineer *dataprocessing.FeatureEngineer
	logger   *slog.Logger
}

// NewFeaturesStage creates the feature engineering step
func NewFeaturesStage(cfg *Config, logger *slog.Logger) *FeaturesStage {
	return &FeaturesStage{
		BaseStage: NewBaseStage(StageIDFeatures, StageNameFeatures, []string{StageIDFilter}),
		engineer:  dataprocessing.NewFeatureEngineer(cfg.Languages, cfg.Workers),
		logger:    logger,
	}
}

// Execute fills the language flags in place
func (s *FeaturesStage) Execute(ctx context.Context, state *OperationState) error {
	rows := state.Responses()
	s.logger.InfoContext(ctx, "engineering_features",
		"rows", len(rows),
		"languages", s.engineer.Languages)
	return s.engineer.Engineer(ctx, rows)
}

// CleanStage drops rows that answered neither language question
type CleanStage struct {
	BaseStage
	skipOnCacheHit
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewCleanStage creates the cleaning step
func NewCleanStage(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean, []string{StageIDFeatures}),
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute drops rows missing both language answers
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	rows := state.Responses()
	before := dataprocessing.CountByYear(rows)

	kept, dropped := dataprocessing.DropMissingLanguages(rows)
	recordDropped(ctx, s.metrics, before, dataprocessing.CountByYear(kept), infrastructure.DropReasonNoLanguages)

	state.SetResponses(kept)
	state.GetStage(s.ID()).SetMetadata("dropped", dropped)
	s.logger.InfoContext(ctx, "data_set_cleaned",
		"retained", len(kept),
		"dropped", dropped)
	return nil
}

// PersistStage writes the processed table atomically
type PersistStage struct {
	BaseStage
	skipOnCacheHit
	store   *exporter.ProcessedStore
	path    string
	metrics *infrastructure.PipelineMetrics
}

// NewPersistStage creates the persist step
func NewPersistStage(cfg *Config, store *exporter.ProcessedStore, metrics *infrastructure.PipelineMetrics) *PersistStage {
	return &PersistStage{
		BaseStage: NewBaseStage(StageIDPersist, StageNamePersist, []string{StageIDClean}),
		store:     store,
		path:      cfg.ProcessedCSV,
		metrics:   metrics,
	}
}

// Execute writes the retained rows
func (s *PersistStage) Execute(ctx context.Context, state *OperationState) error {
	rows := state.Responses()
	if err := s.store.Write(s.path, rows); err != nil {
		return err
	}

	retained := dataprocessing.CountByYear(rows)
	for _, year := range sortedKeys(retained) {
		s.metrics.RowsRetained(ctx, year, retained[year])
	}

	state.AddOutputs(s.path)
	state.GetStage(s.ID()).SetMetadata("rows", len(rows))
	return nil
}

// AggregateStage computes yearly ratios from the persisted table
type AggregateStage struct {
	BaseStage
	cfg    *Config
	logger *slog.Logger
}

// NewAggregateStage creates the aggregation step
func NewAggregateStage(cfg *Config, logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate, []string{StageIDPersist}),
		cfg:       cfg,
		logger:    logger,
	}
}

// Validate requires the processed table to exist
func (s *AggregateStage) Validate(state *OperationState) error {
	if _, err := os.Stat(s.cfg.ProcessedCSV); err != nil {
		return NewValidationError(s.ID(), fmt.Sprintf("processed table not available: %v", err))
	}
	return nil
}

// Execute reads the persisted table and computes every yearly metric
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	f, err := os.Open(s.cfg.ProcessedCSV)
	if err != nil {
		return errors.NewStorageError("failed to open processed table", err)
	}
	defer f.Close()

	agg, err := dataprocessing.NewAggregator(f, dataprocessing.AggregatorConfig{
		EmptyYearPolicy: s.cfg.EmptyYearPolicy,
		Logger:          s.logger,
	})
	if err != nil {
		return err
	}

	metrics, err := agg.YearlyMetrics(s.cfg.SortedYears(), s.cfg.Languages)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyMetrics, metrics)
	state.GetStage(s.ID()).SetMetadata("metrics", len(metrics))
	s.logger.InfoContext(ctx, "yearly_metrics_computed",
		"rows", agg.Rows(),
		"metrics", len(metrics))
	return nil
}

// ReportStage writes the metrics and chart tables
type ReportStage struct {
	BaseStage
	cfg      *Config
	exporter *exporter.ReportExporter
	logger   *slog.Logger
}

// NewReportStage creates the report step
func NewReportStage(cfg *Config, reports *exporter.ReportExporter, logger *slog.Logger) *ReportStage {
	return &ReportStage{
		BaseStage: NewBaseStage(StageIDReport, StageNameReport, []string{StageIDAggregate}),
		cfg:       cfg,
		exporter:  reports,
		logger:    logger,
	}
}

// Validate requires aggregated metrics
func (s *ReportStage) Validate(state *OperationState) error {
	if _, ok := state.GetContext(ContextKeyMetrics); !ok {
		return NewValidationError(s.ID(), "no yearly metrics available")
	}
	return nil
}

// Execute builds the chart tables and writes every report file
func (s *ReportStage) Execute(ctx context.Context, state *OperationState) error {
	metrics := state.YearlyMetrics()
	years := s.cfg.SortedYears()

	s.logger.InfoContext(ctx, "creating_charts", "report_year", s.cfg.ReportYear)
	set := exporter.ReportSet{
		Metrics:     metrics,
		Comparison:  dataprocessing.ComparisonTable(metrics, s.cfg.ReportYear, s.cfg.Languages),
		WorkedTrend: dataprocessing.TrendTable(metrics, domain.IntentWorkedWith, years, s.cfg.Languages),
		WantTrend:   dataprocessing.TrendTable(metrics, domain.IntentWantWorkWith, years, s.cfg.Languages),
	}

	written, err := s.exporter.Export(set)
	state.AddOutputs(written...)
	if err != nil {
		return err
	}

	for _, m := range metrics {
		if m.Year != s.cfg.ReportYear {
			continue
		}
		s.logger.InfoContext(ctx, "language_share",
			"year", m.Year,
			"language", string(m.Language),
			"intent", string(m.Intent),
			"share", exporter.RatioPercent(m.Ratio))
	}
	state.GetStage(s.ID()).SetMetadata("files", len(written))
	return nil
}

// recordDropped emits a dropped-row counter per year
func recordDropped(ctx context.Context, metrics *infrastructure.PipelineMetrics, before, after map[int]int, reason string) {
	for _, year := range sortedKeys(before) {
		metrics.RowsDropped(ctx, year, reason, before[year]-after[year])
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
