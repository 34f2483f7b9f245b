package baseline

import (
	"context"

	"github.com/cwbudde/algo-massmap/lensing/field"
	"github.com/cwbudde/algo-massmap/lensing/score"
)

// DefaultMaxScaleSteps is the default upper bound of the scale scan.
const DefaultMaxScaleSteps = 30

// Scorer maps a reference map and a candidate map to a scalar quality score.
// Higher scores indicate closer agreement.
type Scorer func(reference, candidate *field.Map) (float64, error)

// Progress is invoked after each candidate scale has been scored.
type Progress func(scale int, scored float64)

type config struct {
	maxScaleSteps int
	scorer        Scorer
	progress      Progress
	ctx           context.Context
}

func defaultConfig() config {
	return config{
		maxScaleSteps: DefaultMaxScaleSteps,
		scorer:        score.SNR,
		ctx:           context.Background(),
	}
}

// Option configures a search.
type Option func(*config)

// WithMaxScaleSteps sets the largest smoothing scale to evaluate, in pixels.
// Values below 1 cause [Search] to fail with [ErrInvalidSteps].
func WithMaxScaleSteps(n int) Option {
	return func(cfg *config) {
		cfg.maxScaleSteps = n
	}
}

// WithScorer replaces the default SNR scoring metric.
func WithScorer(s Scorer) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.scorer = s
		}
	}
}

// WithProgress registers a callback invoked once per scored candidate, e.g.
// to collect the full score curve for plotting.
func WithProgress(p Progress) Option {
	return func(cfg *config) {
		cfg.progress = p
	}
}

// WithContext makes the scan cancelable. The context is checked once per
// candidate scale before any work on that candidate.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}
