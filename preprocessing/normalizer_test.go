package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

func TestL2NormalizerTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		3, 4,
		0, 2,
		-1, 0,
	})

	norm := NewL2Normalizer()
	out, err := norm.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	want := [][]float64{
		{0.6, 0.8},
		{0, 1},
		{-1, 0},
	}
	for i := range want {
		for j := range want[i] {
			if got := out.At(i, j); math.Abs(got-want[i][j]) > 1e-12 {
				t.Errorf("out[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}

	// Every row must end up with unit norm.
	dense := out.(*mat.Dense)
	for i := 0; i < 3; i++ {
		if n := mat.Norm(dense.RowView(i), 2); math.Abs(n-1) > 1e-12 {
			t.Errorf("row %d norm = %v, want 1", i, n)
		}
	}

	// The input must be left untouched.
	if X.At(0, 0) != 3 {
		t.Error("Transform mutated its input")
	}
}

func TestL2NormalizerNotFitted(t *testing.T) {
	norm := NewL2Normalizer()
	_, err := norm.Transform(mat.NewDense(1, 2, []float64{1, 0}))

	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
}

func TestL2NormalizerZeroRow(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 0,
	})

	norm := NewL2Normalizer()
	_, err := norm.FitTransform(X)

	var nie *errors.NumericalInstabilityError
	if !errors.As(err, &nie) {
		t.Fatalf("expected NumericalInstabilityError for zero row, got %v", err)
	}
	if nie.Iteration != 1 {
		t.Errorf("offending row = %d, want 1", nie.Iteration)
	}
}

func TestL2NormalizerDimensionMismatch(t *testing.T) {
	norm := NewL2Normalizer()
	if err := norm.Fit(mat.NewDense(1, 3, []float64{1, 2, 3})); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if _, err := norm.Transform(mat.NewDense(1, 2, []float64{1, 2})); err == nil {
		t.Error("expected dimension error, got nil")
	}
}
