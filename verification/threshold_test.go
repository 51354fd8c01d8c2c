package verification

import (
	"math"
	"testing"
)

func TestCandidateThresholds(t *testing.T) {
	got := candidateThresholds([]float64{0.9, 0.2, 0.8, 0.3, 0.8})
	want := []float64{0.2, 0.3, 0.8, 0.9}

	if len(got) != len(want) {
		t.Fatalf("got %d candidates %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSearchThreshold(t *testing.T) {
	tests := []struct {
		name          string
		scores        []float64
		same          []bool
		higherIsSame  bool
		wantThreshold float64
		wantAccuracy  float64
	}{
		{
			name:          "perfectly separable",
			scores:        []float64{0.9, 0.2, 0.8, 0.3, 0.8},
			same:          []bool{true, false, true, false, true},
			higherIsSame:  true,
			wantThreshold: 0.8,
			wantAccuracy:  1.0,
		},
		{
			name:          "tie resolved to smallest candidate",
			scores:        []float64{1, 2, 3, 4},
			same:          []bool{false, true, false, true},
			higherIsSame:  true,
			wantThreshold: 2, // candidates 2 and 4 both reach 3/4
			wantAccuracy:  0.75,
		},
		{
			name:          "distance scores",
			scores:        []float64{0.3, 1.1, 0.5, 0.9},
			same:          []bool{true, false, true, false},
			higherIsSame:  false,
			wantThreshold: 0.9,
			wantAccuracy:  1.0,
		},
		{
			name:          "single score",
			scores:        []float64{0.5},
			same:          []bool{true},
			higherIsSame:  true,
			wantThreshold: 0.5,
			wantAccuracy:  1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threshold, acc, err := searchThreshold(tt.scores, tt.same, tt.higherIsSame)
			if err != nil {
				t.Fatalf("searchThreshold: %v", err)
			}
			if math.Abs(threshold-tt.wantThreshold) > tol {
				t.Errorf("threshold = %v, want %v", threshold, tt.wantThreshold)
			}
			if math.Abs(acc-tt.wantAccuracy) > tol {
				t.Errorf("accuracy = %v, want %v", acc, tt.wantAccuracy)
			}
		})
	}
}

func TestSearchThresholdEmpty(t *testing.T) {
	if _, _, err := searchThreshold(nil, nil, true); err == nil {
		t.Error("expected error for empty scores, got nil")
	}
}

func TestGather(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.3, 0.4}
	same := []bool{true, false, true, false}

	gs, gl := gather(scores, same, []int{3, 1})
	if len(gs) != 2 || gs[0] != 0.4 || gs[1] != 0.2 {
		t.Errorf("gathered scores = %v, want [0.4 0.2]", gs)
	}
	if gl[0] != false || gl[1] != false {
		t.Errorf("gathered labels = %v, want [false false]", gl)
	}
}
