// Package margin implements additive angular-margin logit transforms used
// to train face-recognition embedding networks (ArcFace).
//
// ArcMargin converts a batch of embeddings and a learnable class-weight
// matrix into logits for a multi-class cross-entropy loss, injecting an
// additive angular margin at the ground-truth class of every sample. The
// transform is a pure function of its inputs: the weight matrix is read on
// each call and mutated only by an external optimizer.
package margin

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arcgo/core/parallel"
	"github.com/YuminosukeSato/arcgo/pkg/errors"
	"github.com/YuminosukeSato/arcgo/pkg/log"
)

// Batches at or below this row count are processed on a single core.
const parallelThreshold = 256

// ArcMargin computes scaled, margin-adjusted cosine logits.
//
// Embedding rows are expected to be unit-normalized upstream (see
// preprocessing.L2Normalizer); this is a documented precondition, not
// enforced here. Weight columns are re-normalized to unit length on every
// call, and the normalization is never written back into the stored
// parameter.
type ArcMargin struct {
	dim        int
	numClasses int
	scale      float64
	margin     float64
	seed       int

	// Constants derived from margin, fixed at construction.
	cosM      float64
	sinM      float64
	threshold float64 // cos(pi - margin); at or below it the fallback applies
	fallback  float64 // sin(margin) * margin, subtracted in the fallback regime

	weights *mat.Dense // dim x numClasses, one class center per column

	logger log.Logger
}

// NewArcMargin creates an ArcMargin head for embeddings of the given
// dimensionality and the given number of identity classes. The weight
// matrix is initialized from a seeded Gaussian; an external optimizer
// updates it across training via Weights or SetWeights.
//
// Defaults: scale 64, margin 0.5 rad, seed 42.
func NewArcMargin(dim, numClasses int, opts ...Option) (*ArcMargin, error) {
	am := &ArcMargin{
		dim:        dim,
		numClasses: numClasses,
		scale:      64,
		margin:     0.5,
		seed:       42,
		logger:     log.GetLoggerWithName("margin"),
	}

	for _, opt := range opts {
		opt(am)
	}

	if dim <= 0 {
		return nil, errors.NewValidationError("dim", "must be positive", dim)
	}
	if numClasses <= 0 {
		return nil, errors.NewValidationError("numClasses", "must be positive", numClasses)
	}
	if am.scale <= 0 {
		return nil, errors.NewValidationError("scale", "must be positive", am.scale)
	}
	if am.margin < 0 || am.margin >= math.Pi {
		return nil, errors.NewValidationError("margin", "must be in [0, pi)", am.margin)
	}

	am.cosM = math.Cos(am.margin)
	am.sinM = math.Sin(am.margin)
	am.threshold = math.Cos(math.Pi - am.margin)
	am.fallback = am.sinM * am.margin

	am.weights = initWeights(dim, numClasses, am.seed)

	am.logger.Debug("ArcMargin created",
		log.ModelNameKey, "ArcMargin",
		log.FeaturesKey, dim,
		log.ClassesKey, numClasses,
		log.ScaleKey, am.scale,
		log.MarginKey, am.margin,
	)

	return am, nil
}

// initWeights draws initial class centers from a seeded Gaussian scaled by
// sqrt(2 / (dim + numClasses)).
func initWeights(dim, numClasses, seed int) *mat.Dense {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	std := math.Sqrt(2.0 / float64(dim+numClasses))

	data := make([]float64, dim*numClasses)
	for i := range data {
		data[i] = r.NormFloat64() * std
	}
	return mat.NewDense(dim, numClasses, data)
}

// Dim returns the embedding dimensionality d.
func (am *ArcMargin) Dim() int { return am.dim }

// NumClasses returns the number of identity classes n.
func (am *ArcMargin) NumClasses() int { return am.numClasses }

// Scale returns the multiplicative logit scale s.
func (am *ArcMargin) Scale() float64 { return am.scale }

// Margin returns the additive angular margin m in radians.
func (am *ArcMargin) Margin() float64 { return am.margin }

// Weights returns the live dim x numClasses weight parameter. The caller
// (optimizer) may mutate it between Logits calls; ArcMargin itself never
// writes to it after construction.
func (am *ArcMargin) Weights() *mat.Dense { return am.weights }

// SetWeights replaces the weight parameter with a copy of w.
func (am *ArcMargin) SetWeights(w mat.Matrix) error {
	r, c := w.Dims()
	if r != am.dim {
		return errors.NewDimensionError("ArcMargin.SetWeights", am.dim, r, 0)
	}
	if c != am.numClasses {
		return errors.NewDimensionError("ArcMargin.SetWeights", am.numClasses, c, 1)
	}

	fresh := mat.NewDense(r, c, nil)
	fresh.Copy(w)
	am.weights = fresh
	return nil
}

// GetParams returns the head's hyperparameters.
func (am *ArcMargin) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"dim":         am.dim,
		"num_classes": am.numClasses,
		"scale":       am.scale,
		"margin":      am.margin,
		"seed":        am.seed,
	}
}

// Logits computes the batch x numClasses margin-adjusted logit matrix for a
// batch of embeddings X and ground-truth labels.
//
// Every entry is scale * cos(theta) for the (sample, class) pair, clamped
// into [-1, 1] before scaling; the entry at (i, labels[i]) is overridden
// with the margin-adjusted value:
//
//	cos(theta + m)              when cos(theta) >  cos(pi - m)
//	cos(theta) - sin(m) * m     when cos(theta) <= cos(pi - m)
//
// The second branch keeps the loss monotonically decreasing in the
// extreme-angle regime where theta + m would wrap past pi.
//
// The output feeds directly into a standard cross-entropy loss.
func (am *ArcMargin) Logits(X mat.Matrix, labels []int) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("ArcMargin.Logits", "empty data", errors.ErrEmptyData)
	}
	if cols != am.dim {
		return nil, errors.NewDimensionError("ArcMargin.Logits", am.dim, cols, 1)
	}
	if len(labels) != rows {
		return nil, errors.NewDimensionError("ArcMargin.Logits", rows, len(labels), 0)
	}
	for i, label := range labels {
		if label < 0 || label >= am.numClasses {
			return nil, errors.NewLabelRangeError("ArcMargin.Logits", i, label, am.numClasses)
		}
	}

	weightsNorm, err := am.normalizedWeights()
	if err != nil {
		return nil, err
	}

	cosTheta := mat.NewDense(rows, am.numClasses, nil)
	cosTheta.Mul(X, weightsNorm)

	if err := errors.CheckMatrix("ArcMargin.Logits", cosTheta, rows, am.numClasses, 0); err != nil {
		return nil, err
	}

	// Build the full scale*cos matrix first, then override the target
	// entries. No in-place aliasing of the cosine matrix.
	out := mat.NewDense(rows, am.numClasses, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < am.numClasses; j++ {
				c := errors.ClipValue(cosTheta.At(i, j), -1, 1)
				out.Set(i, j, am.scale*c)
			}

			c := errors.ClipValue(cosTheta.At(i, labels[i]), -1, 1)
			sinTheta := math.Sqrt(1 - c*c)
			phi := c*am.cosM - sinTheta*am.sinM
			if c <= am.threshold {
				phi = c - am.fallback
			}
			out.Set(i, labels[i], am.scale*phi)
		}
	})

	am.logger.Debug("margin logits computed",
		log.OperationKey, "logits",
		log.SamplesKey, rows,
		log.ClassesKey, am.numClasses,
	)

	return out, nil
}

// CosineLogits computes scale * cos(theta) without any margin adjustment.
// Used at inference time and for evaluation, where the margin penalty does
// not apply.
func (am *ArcMargin) CosineLogits(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("ArcMargin.CosineLogits", "empty data", errors.ErrEmptyData)
	}
	if cols != am.dim {
		return nil, errors.NewDimensionError("ArcMargin.CosineLogits", am.dim, cols, 1)
	}

	weightsNorm, err := am.normalizedWeights()
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, am.numClasses, nil)
	out.Mul(X, weightsNorm)

	if err := errors.CheckMatrix("ArcMargin.CosineLogits", out, rows, am.numClasses, 0); err != nil {
		return nil, err
	}

	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < am.numClasses; j++ {
				out.Set(i, j, am.scale*errors.ClipValue(out.At(i, j), -1, 1))
			}
		}
	})

	return out, nil
}

// normalizedWeights returns a fresh copy of the weight matrix with every
// column scaled to unit L2 norm. The stored parameter is left untouched.
func (am *ArcMargin) normalizedWeights() (*mat.Dense, error) {
	norm := mat.NewDense(am.dim, am.numClasses, nil)

	for j := 0; j < am.numClasses; j++ {
		col := am.weights.ColView(j)
		n := mat.Norm(col, 2)
		if n < 1e-12 {
			// A zero class center cannot be normalized; this is a
			// configuration error, not a numerical edge to clamp.
			return nil, errors.NewNumericalInstabilityError("weight_normalization", []float64{n}, j)
		}
		for i := 0; i < am.dim; i++ {
			norm.Set(i, j, am.weights.At(i, j)/n)
		}
	}

	return norm, nil
}
