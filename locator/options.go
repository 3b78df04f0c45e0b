package locator

import "log/slog"

type options struct {
	searchRadius float64
	logger       *slog.Logger
}

type Option interface {
	apply(*options)
}

type searchRadius float64

func (r searchRadius) apply(o *options) {
	o.searchRadius = float64(r)
}

// WithSearchRadius caps how far a query may be from its nearest grid point.
// Default: 0.5 in coordinate units.
func WithSearchRadius(radius float64) Option {
	return searchRadius(radius)
}

type loggerOption struct {
	log *slog.Logger
}

func (l loggerOption) apply(o *options) {
	o.logger = l.log
}

// WithLogger routes construction logging. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return loggerOption{log: log}
}

func loadOptions(opts ...Option) options {
	options := options{
		searchRadius: defaultSearchRadius,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}
