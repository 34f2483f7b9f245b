// Package baseline finds the Gaussian smoothing scale that makes a classical
// mass-map reconstruction best match a known ground truth.
//
// Iterative regularized estimators are usually benchmarked against a
// classical linear inversion such as Kaiser-Squires. Raw linear inversions of
// noisy shear are dominated by small-scale noise, so a fair comparison
// smooths the classical estimate at its optimal scale rather than an
// arbitrary one. [Search] performs that tuning: it scans whole-pixel
// smoothing scales 1..maxScaleSteps, scores each smoothed candidate against
// the ground truth, and returns the scale, map, and score of the best
// candidate.
//
// The running maximum uses strict greater-than replacement starting from a
// trivial baseline of scale 0 and score 0, so the smallest scale achieving
// the maximum score wins ties, and a scan where no candidate beats score 0
// reports the unsmoothed estimate itself.
//
// # Usage
//
//	res, err := baseline.Search(rawEstimate, groundTruth)
//	// res.Scale, res.Score, res.Field
//
// The scoring metric defaults to [score.SNR] and can be replaced via
// [WithScorer]; long scans can be made cancelable via [WithContext].
package baseline
