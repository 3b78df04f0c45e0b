package vectorfield

import (
	"runtime"

	"github.com/paulmach/orb"
)

const (
	// DefaultGridSize is the fixed field resolution.
	DefaultGridSize = 20
	// DefaultSeedLattice is the fixed streamline seed density per axis.
	DefaultSeedLattice = 10

	// stagnationEpsilon terminates integration in near-zero flow.
	stagnationEpsilon = 1e-6
)

type fieldOptions struct {
	gridSize int
}

// FieldOption configures Synthesize.
type FieldOption interface {
	applyField(*fieldOptions)
}

type gridSizeOption int

func (g gridSizeOption) applyField(o *fieldOptions) {
	o.gridSize = int(g)
}

// WithGridSize overrides the field resolution. Default: 20x20.
func WithGridSize(n int) FieldOption {
	return gridSizeOption(n)
}

func loadFieldOptions(opts ...FieldOption) fieldOptions {
	options := fieldOptions{gridSize: DefaultGridSize}
	for _, o := range opts {
		o.applyField(&options)
	}
	if options.gridSize < 2 {
		options.gridSize = 2
	}
	return options
}

type traceOptions struct {
	stepSize   float64
	maxSteps   int
	lineLength float64
	seeds      []orb.Point
	threads    int
}

// TraceOption configures Trace.
type TraceOption interface {
	applyTrace(*traceOptions)
}

type stepSizeOption float64

func (s stepSizeOption) applyTrace(o *traceOptions) {
	o.stepSize = float64(s)
}

// WithStepSize sets the Euler step. Default: 0.1.
func WithStepSize(step float64) TraceOption {
	return stepSizeOption(step)
}

type maxStepsOption int

func (m maxStepsOption) applyTrace(o *traceOptions) {
	o.maxSteps = int(m)
}

// WithMaxSteps caps iterations per line. Default: 1000.
func WithMaxSteps(n int) TraceOption {
	return maxStepsOption(n)
}

type lineLengthOption float64

func (l lineLengthOption) applyTrace(o *traceOptions) {
	o.lineLength = float64(l)
}

// WithLineLength caps the approximate arc length per line. Default: 10.
func WithLineLength(length float64) TraceOption {
	return lineLengthOption(length)
}

type seedsOption []orb.Point

func (s seedsOption) applyTrace(o *traceOptions) {
	o.seeds = []orb.Point(s)
}

// WithSeeds overrides the seed points. Default: a deterministic 10x10
// lattice spanning the bounds.
func WithSeeds(seeds []orb.Point) TraceOption {
	return seedsOption(seeds)
}

type traceThreadsOption int

func (t traceThreadsOption) applyTrace(o *traceOptions) {
	o.threads = int(t)
}

// WithThreads caps worker goroutines, one line per task.
func WithThreads(n int) TraceOption {
	return traceThreadsOption(n)
}

func loadTraceOptions(opts ...TraceOption) traceOptions {
	options := traceOptions{
		stepSize:   0.1,
		maxSteps:   1000,
		lineLength: 10,
		threads:    runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o.applyTrace(&options)
	}
	if options.threads < 1 {
		options.threads = 1
	}
	return options
}
