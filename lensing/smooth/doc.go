// Package smooth provides isotropic Gaussian smoothing of 2D maps.
//
// The blur is separable and periodic: each axis is convolved circularly with
// a 1D Gaussian kernel, matching the Fourier-domain conventions of the
// mass-mapping transforms that produce the maps being smoothed.
//
// Two strategies are used, selected automatically by kernel footprint:
//
//   - Direct sliding-window convolution for small sigma, O(N*R) per axis
//   - FFT-based circular convolution for wide kernels, O(N log N) per axis
//
// For one-shot use call [Gaussian]. For repeated smoothing of equally sized
// maps (e.g. a scan over candidate scales) create a [Blurrer], which reuses
// FFT plans and scratch buffers across calls.
package smooth
