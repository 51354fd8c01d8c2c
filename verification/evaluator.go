// Package verification implements cross-validated pair-verification
// evaluation for face embeddings, the protocol used by benchmarks such as
// LFW, AgeDB-30 and CFP-FP.
//
// Pairs of embeddings are scored with cosine similarity or Euclidean
// distance, partitioned into k folds, and each fold is scored with a
// decision threshold searched on the union of the other folds only. That
// leave-one-fold-out separation is the protocol's core invariant: a fold's
// threshold never sees the fold's own scores, so the reported accuracy is
// not inflated by threshold overfitting.
package verification

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arcgo/core/parallel"
	"github.com/YuminosukeSato/arcgo/metrics"
	"github.com/YuminosukeSato/arcgo/pkg/errors"
	"github.com/YuminosukeSato/arcgo/pkg/log"
)

// Pair batches at or below this size are scored on a single core.
const parallelThreshold = 512

// SimilarityMethod selects the per-pair scoring function.
type SimilarityMethod int

const (
	// CosineSimilarity scores pairs with the cosine of the angle between
	// the two embeddings; higher means more likely the same identity.
	CosineSimilarity SimilarityMethod = iota
	// EuclideanDistance scores pairs with the L2 distance; lower means
	// more likely the same identity.
	EuclideanDistance
)

// String returns the method name used in logs and CLI flags.
func (m SimilarityMethod) String() string {
	switch m {
	case CosineSimilarity:
		return "cosine"
	case EuclideanDistance:
		return "euclidean"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name ("cosine" or "euclidean").
func ParseMethod(s string) (SimilarityMethod, error) {
	switch s {
	case "cosine":
		return CosineSimilarity, nil
	case "euclidean":
		return EuclideanDistance, nil
	default:
		return 0, errors.NewValidationError("method", "unknown similarity method", s)
	}
}

// FlipMode selects how the horizontally-flipped-image embedding is combined
// with the original before scoring. Flip augmentation is an optional
// accuracy improvement, not required for correctness.
type FlipMode int

const (
	// FlipNone scores the original embeddings as-is.
	FlipNone FlipMode = iota
	// FlipAverage averages original and flipped embeddings elementwise.
	FlipAverage
	// FlipConcat concatenates original and flipped embeddings.
	FlipConcat
)

// String returns the flip mode name.
func (f FlipMode) String() string {
	switch f {
	case FlipNone:
		return "none"
	case FlipAverage:
		return "average"
	case FlipConcat:
		return "concat"
	default:
		return "unknown"
	}
}

// PairBatch carries the parallel inputs for one evaluation run: one
// verification pair per row index.
type PairBatch struct {
	// Left and Right hold one embedding per row; row i of each forms
	// pair i.
	Left  *mat.Dense
	Right *mat.Dense

	// LeftFlipped and RightFlipped hold the embeddings of the
	// horizontally flipped images. Required when the evaluator's flip
	// mode is not FlipNone, ignored otherwise.
	LeftFlipped  *mat.Dense
	RightFlipped *mat.Dense

	// Same marks whether pair i shows the same identity.
	Same []bool
}

// Result holds the cross-validated evaluation output.
type Result struct {
	// FoldAccuracies and FoldThresholds are indexed by fold.
	FoldAccuracies []float64
	FoldThresholds []float64

	// MeanAccuracy and StdAccuracy aggregate FoldAccuracies.
	MeanAccuracy float64
	StdAccuracy  float64

	// MeanThreshold aggregates FoldThresholds.
	MeanThreshold float64

	// Method is the scoring method the run used.
	Method SimilarityMethod
}

// Evaluator runs the cross-validated pair-verification protocol. All
// configuration is fixed at construction; Evaluate and EvaluateScores are
// pure functions of their inputs.
type Evaluator struct {
	method  SimilarityMethod
	folds   int
	flip    FlipMode
	shuffle bool
	seed    int

	logger log.Logger
}

// NewEvaluator creates an Evaluator. Defaults: cosine similarity, 10 folds,
// no flip augmentation, contiguous (unshuffled) fold assignment.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		method: CosineSimilarity,
		folds:  10,
		flip:   FlipNone,
		seed:   42,
		logger: log.GetLoggerWithName("verification"),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.folds < 2 {
		return nil, errors.NewValidationError("foldCount", "must be at least 2", e.folds)
	}
	if e.method != CosineSimilarity && e.method != EuclideanDistance {
		return nil, errors.NewValidationError("method", "unknown similarity method", int(e.method))
	}
	if e.flip != FlipNone && e.flip != FlipAverage && e.flip != FlipConcat {
		return nil, errors.NewValidationError("flip", "unknown flip mode", int(e.flip))
	}

	return e, nil
}

// GetParams returns the evaluator's configuration.
func (e *Evaluator) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"method":     e.method.String(),
		"fold_count": e.folds,
		"flip":       e.flip.String(),
		"shuffle":    e.shuffle,
		"seed":       e.seed,
	}
}

// Evaluate scores every pair in the batch and runs the cross-validated
// threshold search over the scores.
func (e *Evaluator) Evaluate(batch PairBatch) (*Result, error) {
	scores, err := e.PairScores(batch)
	if err != nil {
		return nil, err
	}
	return e.EvaluateScores(scores, batch.Same)
}

// PairScores computes the per-pair score for the whole batch, applying flip
// augmentation first when configured.
func (e *Evaluator) PairScores(batch PairBatch) (scores []float64, err error) {
	defer errors.Recover(&err, "Evaluator.PairScores")

	left, right, n, err := e.preparePairs(batch)
	if err != nil {
		return nil, err
	}

	scores = make([]float64, n)
	rowErrs := make([]error, n)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			scores[i], rowErrs[i] = e.score(left.RowView(i), right.RowView(i))
		}
	})
	for i, rowErr := range rowErrs {
		if rowErr != nil {
			return nil, errors.Wrapf(rowErr, "pair %d", i)
		}
	}

	if err := errors.CheckNumericalStability("Evaluator.PairScores", scores, 0); err != nil {
		return nil, err
	}

	return scores, nil
}

// EvaluateScores runs the fold partition and per-fold threshold search over
// precomputed pair scores. Exposed for callers that already hold scores
// (e.g. the faceval CLI).
func (e *Evaluator) EvaluateScores(scores []float64, same []bool) (*Result, error) {
	n := len(scores)
	if n == 0 {
		return nil, errors.NewValueError("Evaluator.EvaluateScores", "empty input")
	}
	if len(same) != n {
		return nil, errors.NewDimensionError("Evaluator.EvaluateScores", n, len(same), 0)
	}

	kf := NewKFold(e.folds, e.shuffle, e.seed)
	folds, err := kf.Split(n)
	if err != nil {
		return nil, err
	}

	higherIsSame := e.method == CosineSimilarity

	res := &Result{
		FoldAccuracies: make([]float64, len(folds)),
		FoldThresholds: make([]float64, len(folds)),
		Method:         e.method,
	}

	for i, fold := range folds {
		trainScores, trainSame := gather(scores, same, fold.TrainIndices)
		threshold, _, err := searchThreshold(trainScores, trainSame, higherIsSame)
		if err != nil {
			return nil, err
		}

		testScores, testSame := gather(scores, same, fold.TestIndices)
		acc, err := metrics.ThresholdAccuracy(testScores, testSame, threshold, higherIsSame)
		if err != nil {
			return nil, err
		}

		res.FoldAccuracies[i] = acc
		res.FoldThresholds[i] = threshold

		e.logger.Debug("fold evaluated",
			log.OperationKey, "evaluate",
			log.FoldKey, i,
			log.ThresholdKey, threshold,
			log.AccuracyKey, acc,
		)
	}

	res.MeanAccuracy = mean(res.FoldAccuracies)
	res.StdAccuracy = std(res.FoldAccuracies, res.MeanAccuracy)
	res.MeanThreshold = mean(res.FoldThresholds)

	e.logger.Info("evaluation finished",
		log.OperationKey, "evaluate",
		log.MethodKey, e.method.String(),
		log.PairsKey, n,
		log.FoldCountKey, e.folds,
		log.AccuracyKey, res.MeanAccuracy,
		log.ThresholdKey, res.MeanThreshold,
	)

	return res, nil
}

// preparePairs validates the batch and returns the (possibly flip-combined)
// left and right feature matrices.
func (e *Evaluator) preparePairs(batch PairBatch) (left, right *mat.Dense, n int, err error) {
	if batch.Left == nil || batch.Right == nil {
		return nil, nil, 0, errors.NewValueError("Evaluator.PairScores", "nil feature matrix")
	}

	lr, lc := batch.Left.Dims()
	rr, rc := batch.Right.Dims()
	if lr == 0 || lc == 0 {
		return nil, nil, 0, errors.NewModelError("Evaluator.PairScores", "empty data", errors.ErrEmptyData)
	}
	if rr != lr {
		return nil, nil, 0, errors.NewDimensionError("Evaluator.PairScores", lr, rr, 0)
	}
	if rc != lc {
		return nil, nil, 0, errors.NewDimensionError("Evaluator.PairScores", lc, rc, 1)
	}
	if len(batch.Same) != lr {
		return nil, nil, 0, errors.NewDimensionError("Evaluator.PairScores", lr, len(batch.Same), 0)
	}

	if e.flip == FlipNone {
		return batch.Left, batch.Right, lr, nil
	}

	if batch.LeftFlipped == nil || batch.RightFlipped == nil {
		return nil, nil, 0, errors.NewValueError("Evaluator.PairScores",
			"flip mode requires flipped feature matrices")
	}
	for _, m := range []*mat.Dense{batch.LeftFlipped, batch.RightFlipped} {
		fr, fc := m.Dims()
		if fr != lr {
			return nil, nil, 0, errors.NewDimensionError("Evaluator.PairScores", lr, fr, 0)
		}
		if fc != lc {
			return nil, nil, 0, errors.NewDimensionError("Evaluator.PairScores", lc, fc, 1)
		}
	}

	left, err = combineFlip(batch.Left, batch.LeftFlipped, e.flip)
	if err != nil {
		return nil, nil, 0, err
	}
	right, err = combineFlip(batch.Right, batch.RightFlipped, e.flip)
	if err != nil {
		return nil, nil, 0, err
	}
	return left, right, lr, nil
}

// combineFlip merges original and flipped embeddings per the mode and
// re-normalizes every row to unit length, keeping the downstream scoring
// on the same footing as unaugmented unit embeddings.
func combineFlip(orig, flipped *mat.Dense, mode FlipMode) (*mat.Dense, error) {
	r, c := orig.Dims()

	var combined *mat.Dense
	switch mode {
	case FlipAverage:
		combined = mat.NewDense(r, c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				combined.Set(i, j, (orig.At(i, j)+flipped.At(i, j))/2)
			}
		}
	case FlipConcat:
		combined = mat.NewDense(r, 2*c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				combined.Set(i, j, orig.At(i, j))
				combined.Set(i, c+j, flipped.At(i, j))
			}
		}
	default:
		return nil, errors.NewValidationError("flip", "unknown flip mode", int(mode))
	}

	rows, cols := combined.Dims()
	for i := 0; i < rows; i++ {
		norm := mat.Norm(combined.RowView(i), 2)
		if norm < 1e-12 {
			return nil, errors.NewNumericalInstabilityError("flip_combination",
				[]float64{norm}, i)
		}
		for j := 0; j < cols; j++ {
			combined.Set(i, j, combined.At(i, j)/norm)
		}
	}

	return combined, nil
}

// score computes the configured similarity for one pair of embeddings.
func (e *Evaluator) score(a, b mat.Vector) (float64, error) {
	switch e.method {
	case EuclideanDistance:
		var sum float64
		for i := 0; i < a.Len(); i++ {
			d := a.AtVec(i) - b.AtVec(i)
			sum += d * d
		}
		return math.Sqrt(sum), nil
	default: // CosineSimilarity
		na := mat.Norm(a, 2)
		nb := mat.Norm(b, 2)
		if na < 1e-12 || nb < 1e-12 {
			return 0, errors.NewNumericalInstabilityError("pair_score",
				[]float64{na, nb}, 0)
		}
		return mat.Dot(a, b) / (na * nb), nil
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func std(xs []float64, m float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
