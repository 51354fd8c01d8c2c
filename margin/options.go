package margin

// Option is a function that configures ArcMargin
type Option func(*ArcMargin)

// WithScale sets the multiplicative logit scale s (default 64). Deployments
// training smaller backbones commonly use 32.
func WithScale(s float64) Option {
	return func(am *ArcMargin) {
		am.scale = s
	}
}

// WithMargin sets the additive angular margin m in radians (default 0.5)
func WithMargin(m float64) Option {
	return func(am *ArcMargin) {
		am.margin = m
	}
}

// WithSeed sets the seed for weight initialization (default 42)
func WithSeed(seed int) Option {
	return func(am *ArcMargin) {
		am.seed = seed
	}
}
