package margin

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

const tol = 1e-5

// fixedHead builds a head with a known weight matrix: columns are unit (or
// deliberately unnormalized) class centers in R^4.
func fixedHead(t *testing.T, scale, m float64) *ArcMargin {
	t.Helper()

	head, err := NewArcMargin(4, 3, WithScale(scale), WithMargin(m))
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}

	// Column 0 has norm 2 on purpose: Logits must normalize it per call.
	weights := mat.NewDense(4, 3, []float64{
		2, 0, 1,
		0, 1, 1,
		0, 0, 0,
		0, 0, 0,
	})
	if err := head.SetWeights(weights); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	return head
}

func TestLogitsHandComputed(t *testing.T) {
	const (
		scale = 64.0
		m     = 0.5
	)
	head := fixedHead(t, scale, m)

	// Unit embeddings: sample 0 along e1 (label 0), sample 1 along e2
	// (label 2, 45 degrees from center 2).
	X := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	labels := []int{0, 2}

	out, err := head.Logits(X, labels)
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}

	inv := 1 / math.Sqrt2
	cos := [][]float64{
		{1, 0, inv},
		{0, 1, inv},
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			c := cos[i][j]
			want := scale * c
			if j == labels[i] {
				sin := math.Sqrt(1 - c*c)
				want = scale * (c*math.Cos(m) - sin*math.Sin(m))
			}
			if got := out.At(i, j); math.Abs(got-want) > tol {
				t.Errorf("out[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestLogitsNonTargetColumnsAreScaledCosine(t *testing.T) {
	head := fixedHead(t, 32, 0.5)

	X := mat.NewDense(1, 4, []float64{0.5, 0.5, 0.5, 0.5})
	out, err := head.Logits(X, []int{1})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}
	plain, err := head.CosineLogits(X)
	if err != nil {
		t.Fatalf("CosineLogits: %v", err)
	}

	for j := 0; j < 3; j++ {
		if j == 1 {
			continue
		}
		if got, want := out.At(0, j), plain.At(0, j); got != want {
			t.Errorf("non-target column %d = %v, want exactly %v", j, got, want)
		}
	}
	if out.At(0, 1) >= plain.At(0, 1) {
		t.Errorf("target logit %v not penalized below plain %v", out.At(0, 1), plain.At(0, 1))
	}
}

func TestLogitsBoundaryFallback(t *testing.T) {
	const (
		scale = 64.0
		m     = 0.5
	)
	head := fixedHead(t, scale, m)

	// cos(theta) = -1 <= cos(pi - m), so the fallback applies.
	X := mat.NewDense(1, 4, []float64{-1, 0, 0, 0})
	out, err := head.Logits(X, []int{0})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}

	want := scale * (-1 - math.Sin(m)*m)
	if got := out.At(0, 0); math.Abs(got-want) > tol {
		t.Errorf("fallback logit = %v, want %v", got, want)
	}
}

func TestLogitsBoundaryRegimeSwitch(t *testing.T) {
	const m = 0.5
	head := fixedHead(t, 1, m)

	threshold := math.Cos(math.Pi - m)

	tests := []struct {
		name string
		cos  float64
	}{
		{"just above threshold", threshold + 1e-3},
		{"just below threshold", threshold - 1e-3},
		{"exactly at threshold", threshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Embedding in the e1/e2 plane with the requested cosine
			// against center 0 (= e1).
			sin := math.Sqrt(1 - tt.cos*tt.cos)
			X := mat.NewDense(1, 4, []float64{tt.cos, sin, 0, 0})

			out, err := head.Logits(X, []int{0})
			if err != nil {
				t.Fatalf("Logits: %v", err)
			}

			want := tt.cos*math.Cos(m) - sin*math.Sin(m)
			if tt.cos <= threshold {
				want = tt.cos - math.Sin(m)*m
			}
			if got := out.At(0, 0); math.Abs(got-want) > tol {
				t.Errorf("cos=%v: logit = %v, want %v", tt.cos, got, want)
			}
		})
	}
}

func TestLogitsClampsCosine(t *testing.T) {
	const scale = 64.0
	head := fixedHead(t, scale, 0.5)

	// Norm-2 embedding: the raw dot against center 0 is 2, which must be
	// clamped to 1 before the angle extraction.
	X := mat.NewDense(1, 4, []float64{2, 0, 0, 0})
	out, err := head.Logits(X, []int{1})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}

	if got := out.At(0, 0); got != scale {
		t.Errorf("clamped non-target logit = %v, want %v", got, scale)
	}
	for j := 0; j < 3; j++ {
		if math.IsNaN(out.At(0, j)) {
			t.Errorf("NaN leaked into logit column %d", j)
		}
	}
}

func TestLogitsUnusedColumnPermutation(t *testing.T) {
	X := mat.NewDense(1, 4, []float64{1, 0, 0, 0})

	head := fixedHead(t, 64, 0.5)
	out, err := head.Logits(X, []int{0})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}

	// Swap the two non-target centers; the target column must not move.
	swapped, err := NewArcMargin(4, 3, WithScale(64), WithMargin(0.5))
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}
	if err := swapped.SetWeights(mat.NewDense(4, 3, []float64{
		2, 1, 0,
		0, 1, 1,
		0, 0, 0,
		0, 0, 0,
	})); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	outSwapped, err := swapped.Logits(X, []int{0})
	if err != nil {
		t.Fatalf("Logits: %v", err)
	}

	if got, want := outSwapped.At(0, 0), out.At(0, 0); math.Abs(got-want) > tol {
		t.Errorf("target logit changed by unused-column permutation: %v vs %v", got, want)
	}
	if got, want := outSwapped.At(0, 1), out.At(0, 2); math.Abs(got-want) > tol {
		t.Errorf("swapped column 1 = %v, want old column 2 = %v", got, want)
	}
	if got, want := outSwapped.At(0, 2), out.At(0, 1); math.Abs(got-want) > tol {
		t.Errorf("swapped column 2 = %v, want old column 1 = %v", got, want)
	}
}

func TestLogitsInputContract(t *testing.T) {
	head := fixedHead(t, 64, 0.5)
	X := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})

	tests := []struct {
		name   string
		X      *mat.Dense
		labels []int
	}{
		{"label above range", X, []int{0, 3}},
		{"negative label", X, []int{-1, 0}},
		{"label count mismatch", X, []int{0}},
		{"feature mismatch", mat.NewDense(1, 3, []float64{1, 0, 0}), []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := head.Logits(tt.X, tt.labels); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	var lre *errors.LabelRangeError
	_, err := head.Logits(X, []int{0, 5})
	if !errors.As(err, &lre) {
		t.Fatalf("expected LabelRangeError, got %v", err)
	}
	if lre.Label != 5 || lre.Index != 1 {
		t.Errorf("LabelRangeError = %+v, want label 5 at index 1", lre)
	}
}

func TestLogitsZeroWeightColumn(t *testing.T) {
	head, err := NewArcMargin(4, 3)
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}
	if err := head.SetWeights(mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 0,
		0, 0, 0,
	})); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}

	X := mat.NewDense(1, 4, []float64{1, 0, 0, 0})
	_, err = head.Logits(X, []int{0})

	var nie *errors.NumericalInstabilityError
	if !errors.As(err, &nie) {
		t.Fatalf("expected NumericalInstabilityError for zero center, got %v", err)
	}
}

func TestLogitsDoesNotMutateWeights(t *testing.T) {
	head := fixedHead(t, 64, 0.5)

	before := mat.DenseCopyOf(head.Weights())
	X := mat.NewDense(1, 4, []float64{1, 0, 0, 0})
	if _, err := head.Logits(X, []int{0}); err != nil {
		t.Fatalf("Logits: %v", err)
	}

	if !mat.Equal(before, head.Weights()) {
		t.Error("Logits persisted the weight normalization into the parameter")
	}
}

func TestNewArcMarginValidation(t *testing.T) {
	tests := []struct {
		name       string
		dim        int
		numClasses int
		opts       []Option
	}{
		{"zero dim", 0, 3, nil},
		{"zero classes", 4, 0, nil},
		{"negative scale", 4, 3, []Option{WithScale(-1)}},
		{"margin at pi", 4, 3, []Option{WithMargin(math.Pi)}},
		{"negative margin", 4, 3, []Option{WithMargin(-0.1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewArcMargin(tt.dim, tt.numClasses, tt.opts...); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSetWeightsValidation(t *testing.T) {
	head, err := NewArcMargin(4, 3)
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}

	if err := head.SetWeights(mat.NewDense(3, 3, nil)); err == nil {
		t.Error("expected row mismatch error, got nil")
	}
	if err := head.SetWeights(mat.NewDense(4, 2, nil)); err == nil {
		t.Error("expected column mismatch error, got nil")
	}
}

func TestWeightInitializationIsSeeded(t *testing.T) {
	a, err := NewArcMargin(8, 5, WithSeed(11))
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}
	b, err := NewArcMargin(8, 5, WithSeed(11))
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}

	if !mat.Equal(a.Weights(), b.Weights()) {
		t.Error("same seed produced different initial weights")
	}

	c, err := NewArcMargin(8, 5, WithSeed(12))
	if err != nil {
		t.Fatalf("NewArcMargin: %v", err)
	}
	if mat.Equal(a.Weights(), c.Weights()) {
		t.Error("different seeds produced identical initial weights")
	}
}
