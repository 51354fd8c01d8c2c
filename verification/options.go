package verification

// Option is a function that configures Evaluator
type Option func(*Evaluator)

// WithMethod sets the pair scoring method (default CosineSimilarity)
func WithMethod(m SimilarityMethod) Option {
	return func(e *Evaluator) {
		e.method = m
	}
}

// WithFoldCount sets the number of cross-validation folds (default 10)
func WithFoldCount(k int) Option {
	return func(e *Evaluator) {
		e.folds = k
	}
}

// WithFlipMode sets the flipped-embedding augmentation mode (default FlipNone)
func WithFlipMode(f FlipMode) Option {
	return func(e *Evaluator) {
		e.flip = f
	}
}

// WithShuffle enables randomized fold assignment instead of contiguous folds
func WithShuffle(shuffle bool) Option {
	return func(e *Evaluator) {
		e.shuffle = shuffle
	}
}

// WithSeed sets the seed for the shuffled fold assignment (default 42).
// A fixed seed makes the partition, and therefore the whole evaluation,
// reproducible bit for bit.
func WithSeed(seed int) Option {
	return func(e *Evaluator) {
		e.seed = seed
	}
}
