// Package model defines the estimator state machine and the interfaces
// shared by arcgo's fittable components.
package model

// EstimatorState represents the fitted state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not run yet.
	NotFitted EstimatorState = iota
	// Fitted means Fit has completed successfully.
	Fitted
)

// BaseEstimator is the embeddable base for all fittable components.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to its initial, unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
