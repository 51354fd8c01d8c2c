// Package log defines standard attribute keys for arcgo operations.
//
// Using these keys consistently enables filtering and analysis of logs from
// training-loss construction and verification runs. The keys follow a
// hierarchical naming convention (e.g. "data.samples", "eval.fold").

package log

// Model and operation context.
const (
	// ModelNameKey identifies the component type.
	// Examples: "ArcMargin", "Evaluator", "L2Normalizer"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "logits", "evaluate", "fit", "transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "margin", "verification", "preprocessing"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey is the number of samples (rows) in a batch.
	SamplesKey = "data.samples"

	// FeaturesKey is the embedding dimensionality.
	FeaturesKey = "data.features"

	// ClassesKey is the number of identity classes in the weight matrix.
	ClassesKey = "data.classes"

	// PairsKey is the number of verification pairs.
	PairsKey = "data.pairs"
)

// Margin transform configuration.
const (
	// ScaleKey is the multiplicative logit scale s.
	ScaleKey = "margin.scale"

	// MarginKey is the additive angular margin m in radians.
	MarginKey = "margin.m"
)

// Evaluation metrics.
const (
	// FoldKey is the index of the current cross-validation fold.
	FoldKey = "eval.fold"

	// FoldCountKey is the total number of folds.
	FoldCountKey = "eval.fold_count"

	// ThresholdKey is a decision threshold selected by the fold search.
	ThresholdKey = "eval.threshold"

	// AccuracyKey is a verification accuracy in [0, 1].
	AccuracyKey = "eval.accuracy"

	// MethodKey names the pair scoring method ("cosine", "euclidean").
	MethodKey = "eval.method"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrAttrKey is the key under which error values are logged.
	ErrAttrKey = "error"

	// StacktraceAttrKey is the key under which stack traces are logged.
	StacktraceAttrKey = "stacktrace"
)
