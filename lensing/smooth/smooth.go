package smooth

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-massmap/lensing/field"
)

// Errors returned by smoothing functions.
var (
	ErrNilMap        = errors.New("smooth: nil input map")
	ErrNegativeSigma = errors.New("smooth: sigma must be >= 0")
	ErrShapeMismatch = errors.New("smooth: input shape does not match blurrer")
)

// Kernels wider than this switch to the FFT path.
const directThreshold = 64

// Blurrer applies Gaussian blurs to maps of a fixed size, reusing FFT plans
// and scratch buffers across calls. A Blurrer is not safe for concurrent use.
type Blurrer struct {
	rows, cols int

	rowPlan *algofft.Plan[complex128]
	colPlan *algofft.Plan[complex128]

	line []complex128 // length max(rows, cols)
	spec []complex128 // kernel spectrum scratch, same length as line
	tmp  []float64    // intermediate map after the row pass
	col  []float64    // gathered column
	out  []float64    // convolved column
}

// NewBlurrer creates a blurrer for rows x cols maps.
func NewBlurrer(rows, cols int) (*Blurrer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("smooth: rows and cols must be > 0: %dx%d", rows, cols)
	}

	rowPlan, err := algofft.NewPlan64(cols)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create row plan: %w", err)
	}

	colPlan := rowPlan
	if rows != cols {
		colPlan, err = algofft.NewPlan64(rows)
		if err != nil {
			return nil, fmt.Errorf("smooth: failed to create column plan: %w", err)
		}
	}

	longest := max(rows, cols)

	return &Blurrer{
		rows:    rows,
		cols:    cols,
		rowPlan: rowPlan,
		colPlan: colPlan,
		line:    make([]complex128, longest),
		spec:    make([]complex128, longest),
		tmp:     make([]float64, rows*cols),
		col:     make([]float64, rows),
		out:     make([]float64, rows),
	}, nil
}

// Rows returns the expected map row count.
func (b *Blurrer) Rows() int { return b.rows }

// Cols returns the expected map column count.
func (b *Blurrer) Cols() int { return b.cols }

// Apply returns a new map equal to m blurred by an isotropic Gaussian of
// standard deviation sigma in pixels. sigma == 0 returns a copy. m is never
// mutated.
func (b *Blurrer) Apply(m *field.Map, sigma float64) (*field.Map, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	if m.Rows() != b.rows || m.Cols() != b.cols {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.Rows(), m.Cols(), b.rows, b.cols)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: %f", ErrNegativeSigma, sigma)
	}
	if sigma == 0 {
		return m.Clone(), nil
	}

	radius := kernelRadius(sigma)
	width := 2*radius + 1

	out := m.Clone()

	if width <= directThreshold && width <= b.rows && width <= b.cols {
		b.applyDirect(out, sigma, radius)
		return out, nil
	}

	if err := b.applyFFT(out, sigma); err != nil {
		return nil, err
	}

	return out, nil
}

// applyDirect runs the separable sliding-window convolution in place.
func (b *Blurrer) applyDirect(m *field.Map, sigma float64, radius int) {
	w := windowWeights(sigma, radius)
	data := m.Data()

	// Row pass into tmp.
	for r := 0; r < b.rows; r++ {
		in := data[r*b.cols : (r+1)*b.cols]
		out := b.tmp[r*b.cols : (r+1)*b.cols]
		convolveCircular(out, in, w, radius)
	}

	// Column pass back into the map.
	for c := 0; c < b.cols; c++ {
		for r := 0; r < b.rows; r++ {
			b.col[r] = b.tmp[r*b.cols+c]
		}

		convolveCircular(b.out, b.col, w, radius)

		for r := 0; r < b.rows; r++ {
			data[r*b.cols+c] = b.out[r]
		}
	}
}

// applyFFT runs the separable circular convolution in the Fourier domain.
func (b *Blurrer) applyFFT(m *field.Map, sigma float64) error {
	data := m.Data()

	// Row pass.
	if err := b.kernelSpectrum(b.rowPlan, b.cols, sigma); err != nil {
		return err
	}

	for r := 0; r < b.rows; r++ {
		in := data[r*b.cols : (r+1)*b.cols]
		if err := b.convolveSpectral(b.rowPlan, b.cols, in, b.tmp[r*b.cols:(r+1)*b.cols]); err != nil {
			return err
		}
	}

	// Column pass.
	if err := b.kernelSpectrum(b.colPlan, b.rows, sigma); err != nil {
		return err
	}

	for c := 0; c < b.cols; c++ {
		for r := 0; r < b.rows; r++ {
			b.col[r] = b.tmp[r*b.cols+c]
		}

		if err := b.convolveSpectral(b.colPlan, b.rows, b.col, b.out); err != nil {
			return err
		}

		for r := 0; r < b.rows; r++ {
			data[r*b.cols+c] = b.out[r]
		}
	}

	return nil
}

// kernelSpectrum fills b.spec[:n] with the FFT of the length-n circular
// Gaussian kernel for sigma.
func (b *Blurrer) kernelSpectrum(plan *algofft.Plan[complex128], n int, sigma float64) error {
	k := circularKernel(sigma, n)
	for i := 0; i < n; i++ {
		b.line[i] = complex(k[i], 0)
	}

	if err := plan.Forward(b.spec[:n], b.line[:n]); err != nil {
		return fmt.Errorf("smooth: kernel FFT failed: %w", err)
	}

	return nil
}

// convolveSpectral circularly convolves in with the kernel whose spectrum is
// in b.spec[:n], writing the real result to out.
func (b *Blurrer) convolveSpectral(plan *algofft.Plan[complex128], n int, in, out []float64) error {
	for i := 0; i < n; i++ {
		b.line[i] = complex(in[i], 0)
	}

	if err := plan.Forward(b.line[:n], b.line[:n]); err != nil {
		return fmt.Errorf("smooth: forward FFT failed: %w", err)
	}

	for i := 0; i < n; i++ {
		b.line[i] *= b.spec[i]
	}

	if err := plan.Inverse(b.line[:n], b.line[:n]); err != nil {
		return fmt.Errorf("smooth: inverse FFT failed: %w", err)
	}

	for i := 0; i < n; i++ {
		out[i] = real(b.line[i])
	}

	return nil
}

// convolveCircular computes out[i] = sum_d w[d+radius] * in[(i+d) mod n]
// for the symmetric window w of half-width radius.
func convolveCircular(out, in, w []float64, radius int) {
	n := len(in)
	for i := range out {
		sum := 0.0
		for d := -radius; d <= radius; d++ {
			j := i + d
			if j < 0 {
				j += n
			} else if j >= n {
				j -= n
			}
			sum += w[d+radius] * in[j]
		}
		out[i] = sum
	}
}

// kernelRadius returns the half-width covering +/- 4 sigma, at least 1.
func kernelRadius(sigma float64) int {
	r := int(math.Ceil(4 * sigma))
	if r < 1 {
		r = 1
	}

	return r
}

// windowWeights returns the normalized Gaussian window of half-width radius.
func windowWeights(sigma float64, radius int) []float64 {
	w := make([]float64, 2*radius+1)
	sum := 0.0

	for d := -radius; d <= radius; d++ {
		v := math.Exp(-float64(d*d) / (2 * sigma * sigma))
		w[d+radius] = v
		sum += v
	}

	for i := range w {
		w[i] /= sum
	}

	return w
}

// circularKernel returns the length-n periodic Gaussian kernel for sigma,
// folding tails that extend past n/2 back into the grid.
func circularKernel(sigma float64, n int) []float64 {
	radius := kernelRadius(sigma)
	k := make([]float64, n)
	sum := 0.0

	for d := -radius; d <= radius; d++ {
		v := math.Exp(-float64(d*d) / (2 * sigma * sigma))
		idx := ((d % n) + n) % n
		k[idx] += v
		sum += v
	}

	for i := range k {
		k[i] /= sum
	}

	return k
}

// Gaussian performs a one-shot isotropic Gaussian blur of m with standard
// deviation sigma in pixels.
func Gaussian(m *field.Map, sigma float64) (*field.Map, error) {
	if m == nil {
		return nil, ErrNilMap
	}

	b, err := NewBlurrer(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}

	return b.Apply(m, sigma)
}
