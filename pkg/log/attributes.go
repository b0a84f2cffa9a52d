// Package log defines standard attribute keys for encoder operations.
//
// The keys follow a hierarchical naming convention ("model.name",
// "data.samples", "woe.information_value") so log lines from different
// estimators can be filtered the same way.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "WoEEncoder", "KBinsDiscretizer".
	ModelNameKey = "model.name"

	// EstimatorIDKey is the per-instance identifier (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey is the operation being performed: "fit", "transform", "report".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the record.
	ComponentKey = "ml.component"

	// StepKey names a pipeline step.
	StepKey = "pipeline.step"
)

// Data shape.
const (
	// SamplesKey is the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns processed.
	FeaturesKey = "data.features"

	// FeatureKey names a single column.
	FeatureKey = "data.feature"

	// EventsKey and NonEventsKey count rows per target class.
	EventsKey    = "data.events"
	NonEventsKey = "data.non_events"
)

// Weight of evidence results.
const (
	CategoriesKey             = "woe.categories"
	InformationValueKey       = "woe.information_value"
	UndefinedContributionsKey = "woe.undefined_contributions"
	PredictivePowerKey        = "woe.predictive_power"
)

// Performance.
const (
	// DurationMsKey records the execution time in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey is the number of goroutines used.
	WorkersKey = "perf.workers"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationReport       = "report"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDegenerateTarget  = "DEGENERATE_TARGET"
	ErrorUnseenCategory    = "UNSEEN_CATEGORY"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
)
