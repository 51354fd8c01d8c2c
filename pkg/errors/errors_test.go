package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("ArcMargin", "Logits")

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "ArcMargin" || nfe.Method != "Logits" {
		t.Errorf("fields = %q/%q, want ArcMargin/Logits", nfe.ModelName, nfe.Method)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("message = %q, want it to mention the fitted state", err)
	}
}

func TestDimensionErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		axis   int
		wantIn string
	}{
		{"rows axis", 0, "rows"},
		{"features axis", 1, "features"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Logits", 128, 64, tt.axis)
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("message = %q, want it to name the %s axis", err, tt.wantIn)
			}

			var de *DimensionError
			if !As(err, &de) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if de.Expected != 128 || de.Got != 64 {
				t.Errorf("Expected/Got = %d/%d, want 128/64", de.Expected, de.Got)
			}
		})
	}
}

func TestLabelRangeError(t *testing.T) {
	err := NewLabelRangeError("Logits", 3, 7, 5)

	var lre *LabelRangeError
	if !As(err, &lre) {
		t.Fatalf("expected LabelRangeError, got %T", err)
	}
	if lre.Index != 3 || lre.Label != 7 || lre.NumClasses != 5 {
		t.Errorf("fields = %+v, want Index 3, Label 7, NumClasses 5", lre)
	}
	if !strings.Contains(err.Error(), "outside [0, 5)") {
		t.Errorf("message = %q, want the class range", err)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	err := NewModelError("ReadPairs", "empty manifest", ErrEmptyData)

	if !Is(err, ErrEmptyData) {
		t.Error("ModelError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "empty manifest") {
		t.Errorf("message = %q, want the kind string", err)
	}
}

func TestNumericalInstabilityErrorTruncatesValues(t *testing.T) {
	err := NewNumericalInstabilityError("pair_score",
		[]float64{1, 2, 3, 4, 5, 6, 7}, 9)

	msg := err.Error()
	if !strings.Contains(msg, "...") {
		t.Errorf("message = %q, want long value lists truncated", msg)
	}
	if !strings.Contains(msg, "index 9") {
		t.Errorf("message = %q, want the offending index", msg)
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewValidationError("folds", "must be at least 2", 1)
	err := Wrap(inner, "evaluator setup")

	var ve *ValidationError
	if !As(err, &ve) {
		t.Fatal("wrapping should preserve the concrete error type")
	}
	if ve.ParamName != "folds" {
		t.Errorf("ParamName = %q, want folds", ve.ParamName)
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("true_accept_rate", "no same-identity pairs", 0)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	var umw *UndefinedMetricWarning
	if !As(captured, &umw) {
		t.Fatalf("captured %T, want UndefinedMetricWarning", captured)
	}
	if umw.Metric != "true_accept_rate" {
		t.Errorf("Metric = %q, want true_accept_rate", umw.Metric)
	}
}
