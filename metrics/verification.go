// Package metrics provides threshold-based binary verification metrics over
// pair scores.
package metrics

import (
	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// Accuracy computes the fraction of predictions matching the ground truth.
func Accuracy(yTrue, yPred []bool) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty input")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Predict applies a decision threshold to a single pair score. With
// higherIsSame (cosine similarity) a pair is accepted when score >=
// threshold; without it (a distance) when score < threshold.
func Predict(score, threshold float64, higherIsSame bool) bool {
	if higherIsSame {
		return score >= threshold
	}
	return score < threshold
}

// ThresholdAccuracy applies the threshold to every score and computes the
// binary accuracy against the same-identity labels.
func ThresholdAccuracy(scores []float64, same []bool, threshold float64, higherIsSame bool) (float64, error) {
	n := len(scores)
	if n == 0 {
		return 0, errors.NewValueError("ThresholdAccuracy", "empty input")
	}
	if len(same) != n {
		return 0, errors.NewDimensionError("ThresholdAccuracy", n, len(same), 0)
	}

	correct := 0
	for i, s := range scores {
		if Predict(s, threshold, higherIsSame) == same[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// TrueAcceptRate computes the fraction of same-identity pairs accepted at
// the threshold. With no same-identity pairs present the rate is undefined;
// a warning is raised and 0 is returned.
func TrueAcceptRate(scores []float64, same []bool, threshold float64, higherIsSame bool) (float64, error) {
	n := len(scores)
	if n == 0 {
		return 0, errors.NewValueError("TrueAcceptRate", "empty input")
	}
	if len(same) != n {
		return 0, errors.NewDimensionError("TrueAcceptRate", n, len(same), 0)
	}

	accepted, total := 0, 0
	for i, s := range scores {
		if !same[i] {
			continue
		}
		total++
		if Predict(s, threshold, higherIsSame) {
			accepted++
		}
	}
	if total == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("true_accept_rate", "no same-identity pairs", 0))
		return 0, nil
	}
	return float64(accepted) / float64(total), nil
}

// FalseAcceptRate computes the fraction of different-identity pairs accepted
// at the threshold. With no different-identity pairs present the rate is
// undefined; a warning is raised and 0 is returned.
func FalseAcceptRate(scores []float64, same []bool, threshold float64, higherIsSame bool) (float64, error) {
	n := len(scores)
	if n == 0 {
		return 0, errors.NewValueError("FalseAcceptRate", "empty input")
	}
	if len(same) != n {
		return 0, errors.NewDimensionError("FalseAcceptRate", n, len(same), 0)
	}

	accepted, total := 0, 0
	for i, s := range scores {
		if same[i] {
			continue
		}
		total++
		if Predict(s, threshold, higherIsSame) {
			accepted++
		}
	}
	if total == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("false_accept_rate", "no different-identity pairs", 0))
		return 0, nil
	}
	return float64(accepted) / float64(total), nil
}
