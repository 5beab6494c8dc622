package operations

import (
	"time"
)

// Survey pipeline step identifiers
const (
	StageIDCache     = "cache"
	StageIDLoad      = "load"
	StageIDFilter    = "filter"
	StageIDFeatures  = "features"
	StageIDClean     = "clean"
	StageIDPersist   = "persist"
	StageIDAggregate = "aggregate"
	StageIDReport    = "report"
)

// Survey pipeline step names
const (
	StageNameCache     = "Processed Table Cache"
	StageNameLoad      = "Survey Loading"
	StageNameFilter    = "Data Scientist Filter"
	StageNameFeatures  = "Feature Engineering"
	StageNameClean     = "Data Cleaning"
	StageNamePersist   = "Processed Table Export"
	StageNameAggregate = "Yearly Aggregation"
	StageNameReport    = "Report Export"
)

// Context keys for operation state
const (
	ContextKeyResponses = "responses"
	ContextKeyCacheHit  = "cache_hit"
	ContextKeyMetrics   = "yearly_metrics"
	ContextKeyOutputs   = "outputs"
)

// ProcessingSteps are the steps that rebuild the processed table
var ProcessingSteps = []string{
	StageIDLoad,
	StageIDFilter,
	StageIDFeatures,
	StageIDClean,
	StageIDPersist,
}

// OperationRequest represents a request to execute an operation
type OperationRequest struct {
	ID string `json:"id"`
	// Steps selects and orders the steps to run. Empty runs every registered
	// step in dependency order.
	Steps []string `json:"steps,omitempty"`
}

// OperationResponse represents the result of an operation execution
type OperationResponse struct {
	ID        string                `json:"id"`
	Status    OperationStatus       `json:"status"`
	Duration  time.Duration         `json:"duration"`
	StepOrder []string              `json:"step_order"`
	Steps     map[string]*StepState `json:"steps"`
	CacheHit  bool                  `json:"cache_hit"`
	Outputs   []string              `json:"outputs,omitempty"`
	Error     string                `json:"error,omitempty"`
}
