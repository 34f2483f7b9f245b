// Package score provides quality metrics comparing a reconstructed map
// against a reference map.
//
// The primary metric is [SNR], the log-ratio of reference signal power to
// residual power in decibels, the figure of merit used when tuning a
// reconstruction against ground truth. [RMSE] and [Correlation] are
// secondary diagnostics.
package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-massmap/lensing/field"
)

// Errors returned by scoring functions.
var (
	ErrNilMap        = errors.New("score: nil input map")
	ErrShapeMismatch = errors.New("score: reference and candidate shape mismatch")
)

func checkPair(reference, candidate *field.Map) error {
	if reference == nil || candidate == nil {
		return ErrNilMap
	}
	if !reference.SameShape(candidate) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch,
			reference.Rows(), reference.Cols(), candidate.Rows(), candidate.Cols())
	}

	return nil
}

// powerSum returns the sum of squares of x.
// Uses SIMD-accelerated block multiplication when available.
func powerSum(x []float64) float64 {
	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	sum := 0.0
	for _, v := range sq {
		sum += v
	}

	return sum
}

// SNR returns the signal-to-noise ratio of candidate against reference in
// decibels: 10*log10(sum(reference^2) / sum((reference-candidate)^2)).
//
// A zero residual (perfect agreement) yields +Inf. A zero-power reference
// with nonzero residual yields -Inf. Higher is better.
func SNR(reference, candidate *field.Map) (float64, error) {
	if err := checkPair(reference, candidate); err != nil {
		return 0, err
	}

	ref := reference.Data()
	cand := candidate.Data()

	res := make([]float64, len(ref))
	for i := range res {
		res[i] = ref[i] - cand[i]
	}

	signal := powerSum(ref)
	noise := powerSum(res)

	if noise == 0 {
		return math.Inf(1), nil
	}
	if signal == 0 {
		return math.Inf(-1), nil
	}

	return 10 * math.Log10(signal/noise), nil
}

// RMSE returns the root-mean-square error between reference and candidate.
// Lower is better.
func RMSE(reference, candidate *field.Map) (float64, error) {
	if err := checkPair(reference, candidate); err != nil {
		return 0, err
	}

	ref := reference.Data()
	cand := candidate.Data()

	sum := 0.0
	for i := range ref {
		d := ref[i] - cand[i]
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(ref))), nil
}

// Correlation returns the Pearson correlation coefficient between the two
// maps, in [-1, 1]. Returns NaN when either map has zero variance.
func Correlation(reference, candidate *field.Map) (float64, error) {
	if err := checkPair(reference, candidate); err != nil {
		return 0, err
	}

	return stat.Correlation(reference.Data(), candidate.Data(), nil), nil
}
