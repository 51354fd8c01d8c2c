package verification

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// Fold holds the index partition for a single cross-validation fold. The
// threshold for a fold is searched on TrainIndices and applied to
// TestIndices; the two sets are always disjoint.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold partitions n items into NSplits disjoint folds of near-equal size.
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 10 // verification benchmark default
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// Split generates the train/test index partition for each fold over n
// items. Fold sizes differ by at most one; earlier folds absorb the
// remainder. With Shuffle the assignment is drawn from a seeded PCG, so a
// fixed seed yields a fixed partition.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if n < kf.NSplits {
		return nil, errors.NewValidationError("foldCount",
			"more folds than items", kf.NSplits)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		trainIndices := make([]int, 0, n-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds, nil
}
