package baseline

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-massmap/lensing/field"
	"github.com/cwbudde/algo-massmap/lensing/smooth"
)

// Errors returned by the search.
var (
	ErrNilMap        = errors.New("baseline: nil input map")
	ErrShapeMismatch = errors.New("baseline: raw estimate and ground truth shape mismatch")
	ErrInvalidSteps  = errors.New("baseline: max scale steps must be >= 1")
)

// Result holds the outcome of a smoothing-scale search.
type Result struct {
	// Scale is the winning Gaussian standard deviation in pixels.
	// Zero means no candidate beat the unsmoothed trivial baseline.
	Scale int

	// Score is the winning score. Zero for the trivial baseline.
	Score float64

	// Field is the smoothed map at the winning scale, or a copy of the raw
	// estimate when Scale is zero.
	Field *field.Map
}

// Search scans Gaussian smoothing scales 1..maxScaleSteps (whole pixels),
// blurs rawEstimate at each scale, scores the result against groundTruth,
// and returns the best candidate.
//
// The running best starts at scale 0 with score 0 and is replaced only on a
// strictly greater score, so the smallest scale achieving the maximum wins
// ties and a scan where nothing beats score 0 returns the raw estimate.
// Inputs are never mutated; identical inputs always yield identical results.
func Search(rawEstimate, groundTruth *field.Map, opts ...Option) (Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if rawEstimate == nil || groundTruth == nil {
		return Result{}, ErrNilMap
	}
	if !rawEstimate.SameShape(groundTruth) {
		return Result{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch,
			rawEstimate.Rows(), rawEstimate.Cols(), groundTruth.Rows(), groundTruth.Cols())
	}
	if cfg.maxScaleSteps < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidSteps, cfg.maxScaleSteps)
	}

	blurrer, err := smooth.NewBlurrer(rawEstimate.Rows(), rawEstimate.Cols())
	if err != nil {
		return Result{}, fmt.Errorf("baseline: %w", err)
	}

	best := Result{Scale: 0, Score: 0, Field: nil}

	for scale := 1; scale <= cfg.maxScaleSteps; scale++ {
		if err := cfg.ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("baseline: scan canceled at scale %d: %w", scale, err)
		}

		smoothed, err := blurrer.Apply(rawEstimate, float64(scale))
		if err != nil {
			return Result{}, fmt.Errorf("baseline: smoothing at scale %d: %w", scale, err)
		}

		scored, err := cfg.scorer(groundTruth, smoothed)
		if err != nil {
			return Result{}, fmt.Errorf("baseline: scoring at scale %d: %w", scale, err)
		}

		if cfg.progress != nil {
			cfg.progress(scale, scored)
		}

		if scored > best.Score {
			best = Result{Scale: scale, Score: scored, Field: smoothed}
		}
	}

	if best.Field == nil {
		best.Field = rawEstimate.Clone()
	}

	return best, nil
}
