// Package preprocessing provides embedding-matrix transformations applied
// between the backbone network and the margin or verification stages.
package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arcgo/core/model"
	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// L2Normalizer scales every row of an embedding matrix to unit L2 norm.
//
// The margin transform documents unit-normalized embedding rows as a
// precondition; L2Normalizer is the producer-side half of that convention.
// Fit only records the expected dimensionality, Transform does the work.
type L2Normalizer struct {
	model.BaseEstimator

	// NFeatures is the embedding dimensionality seen during Fit.
	NFeatures int
}

// NewL2Normalizer creates a new L2Normalizer.
//
// Usage:
//
//	norm := preprocessing.NewL2Normalizer()
//	unit, err := norm.FitTransform(embeddings)
func NewL2Normalizer() *L2Normalizer {
	return &L2Normalizer{}
}

// Fit records the embedding dimensionality from X.
func (n *L2Normalizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("L2Normalizer.Fit", "empty data", errors.ErrEmptyData)
	}

	n.NFeatures = c
	n.SetFitted()
	return nil
}

// Transform returns a copy of X with every row scaled to unit L2 norm.
// A zero row cannot be normalized and is reported as an error rather than
// silently passed through.
func (n *L2Normalizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("L2Normalizer", "Transform")
	}

	r, c := X.Dims()
	if c != n.NFeatures {
		return nil, errors.NewDimensionError("L2Normalizer.Transform", n.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	out.Copy(X)
	for i := 0; i < r; i++ {
		norm := mat.Norm(out.RowView(i), 2)
		if norm < 1e-12 {
			return nil, errors.NewNumericalInstabilityError("row_normalization",
				[]float64{norm}, i)
		}
		for j := 0; j < c; j++ {
			out.Set(i, j, out.At(i, j)/norm)
		}
	}

	return out, nil
}

// FitTransform fits on X and transforms it in one call.
func (n *L2Normalizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}

// GetParams returns the normalizer's parameters.
func (n *L2Normalizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_features": n.NFeatures,
	}
}
