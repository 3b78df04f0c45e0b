package distortion

import "runtime"

// Algorithm selects the displacement strategy.
type Algorithm int

const (
	// Heuristic displaces each point radially away from the reference point
	// by its mean travel time. Cheap and stable, the default.
	Heuristic Algorithm = iota
	// ClassicalMDS embeds the travel-time matrix with classical
	// multidimensional scaling and blends the embedding with the originals.
	ClassicalMDS
)

func (a Algorithm) String() string {
	switch a {
	case ClassicalMDS:
		return "mds"
	default:
		return "heuristic"
	}
}

type options struct {
	factor    float64
	algorithm Algorithm
	threads   int
}

type Option interface {
	apply(*options)
}

type factorOption float64

func (f factorOption) apply(o *options) {
	o.factor = float64(f)
}

// WithFactor sets the distortion factor. Default: 1, intended range [0,5].
func WithFactor(factor float64) Option {
	return factorOption(factor)
}

type algorithmOption Algorithm

func (a algorithmOption) apply(o *options) {
	o.algorithm = Algorithm(a)
}

// WithAlgorithm selects the strategy. Default: Heuristic.
func WithAlgorithm(a Algorithm) Option {
	return algorithmOption(a)
}

type threadsOption int

func (t threadsOption) apply(o *options) {
	o.threads = int(t)
}

// WithThreads caps worker goroutines for the per-point pass.
func WithThreads(n int) Option {
	return threadsOption(n)
}

func loadOptions(opts ...Option) options {
	options := options{
		factor:    1,
		algorithm: Heuristic,
		threads:   runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	if options.threads < 1 {
		options.threads = 1
	}
	return options
}
