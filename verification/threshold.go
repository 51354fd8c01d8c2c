package verification

import (
	"sort"

	"github.com/YuminosukeSato/arcgo/metrics"
	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// candidateThresholds returns the sorted, deduplicated observed score
// values. Sweeping exactly the observed values is sufficient: accuracy is a
// step function of the threshold that only changes at them.
func candidateThresholds(scores []float64) []float64 {
	candidates := make([]float64, len(scores))
	copy(candidates, scores)
	sort.Float64s(candidates)

	out := candidates[:0]
	for i, c := range candidates {
		if i == 0 || c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// searchThreshold sweeps the candidate thresholds over the given scores and
// returns the one maximizing binary accuracy, together with that accuracy.
//
// Tie-break convention: when several candidates reach the maximum accuracy,
// the smallest candidate wins. Candidates are swept in ascending order and
// a later candidate must be strictly better to replace the incumbent, which
// keeps reported thresholds deterministic.
func searchThreshold(scores []float64, same []bool, higherIsSame bool) (float64, float64, error) {
	if len(scores) == 0 {
		return 0, 0, errors.NewValueError("searchThreshold", "no scores to search")
	}

	candidates := candidateThresholds(scores)

	bestThreshold := candidates[0]
	bestAccuracy := -1.0
	for _, t := range candidates {
		acc, err := metrics.ThresholdAccuracy(scores, same, t, higherIsSame)
		if err != nil {
			return 0, 0, err
		}
		if acc > bestAccuracy {
			bestAccuracy = acc
			bestThreshold = t
		}
	}

	return bestThreshold, bestAccuracy, nil
}

// gather copies the elements of scores and same at the given indices.
func gather(scores []float64, same []bool, indices []int) ([]float64, []bool) {
	s := make([]float64, len(indices))
	l := make([]bool, len(indices))
	for i, idx := range indices {
		s[i] = scores[idx]
		l[i] = same[idx]
	}
	return s, l
}
