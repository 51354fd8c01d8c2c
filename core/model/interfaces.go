package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for components that learn state from data.
type Fitter interface {
	// Fit learns internal state from the input matrix.
	Fit(X mat.Matrix) error
}

// Transformer is the interface for components that map matrices to matrices.
type Transformer interface {
	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms it in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for components that expose their
// hyperparameters.
type ParameterGetter interface {
	// GetParams returns the component's hyperparameters.
	GetParams() map[string]interface{}
}
