package kaisersquires

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-massmap/internal/fft2"
	"github.com/cwbudde/algo-massmap/lensing/field"
)

// Errors returned by Kaiser-Squires transforms.
var (
	ErrNilMap        = errors.New("kaisersquires: nil input map")
	ErrShapeMismatch = errors.New("kaisersquires: input shape does not match transform")
)

// Transform maps between convergence and shear on a fixed grid size.
// It precomputes the Fourier-domain kernel D(k) and reuses FFT plans, so
// repeated transforms at the same size avoid per-call setup. A Transform is
// not safe for concurrent use because it carries scratch buffers.
type Transform struct {
	rows, cols int

	plan   *fft2.Plan
	kernel []complex128 // D(k), zero at k = 0

	buf []complex128
}

// New creates a Kaiser-Squires transform for rows x cols grids.
func New(rows, cols int) (*Transform, error) {
	plan, err := fft2.NewPlan(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("kaisersquires: %w", err)
	}

	t := &Transform{
		rows:   rows,
		cols:   cols,
		plan:   plan,
		kernel: make([]complex128, rows*cols),
		buf:    make([]complex128, rows*cols),
	}
	t.fillKernel()

	return t, nil
}

// freq returns the signed FFT bin frequency for index i of n samples.
func freq(i, n int) float64 {
	if i <= n/2 {
		return float64(i)
	}

	return float64(i - n)
}

func (t *Transform) fillKernel() {
	for r := 0; r < t.rows; r++ {
		k2 := freq(r, t.rows)
		for c := 0; c < t.cols; c++ {
			k1 := freq(c, t.cols)

			kk := k1*k1 + k2*k2
			if kk == 0 {
				// Mass-sheet degeneracy: the mean is unconstrained.
				continue
			}

			t.kernel[r*t.cols+c] = complex((k1*k1-k2*k2)/kk, 2*k1*k2/kk)
		}
	}
}

// Rows returns the grid row count.
func (t *Transform) Rows() int { return t.rows }

// Cols returns the grid column count.
func (t *Transform) Cols() int { return t.cols }

// Forward maps a convergence map to its shear field.
func (t *Transform) Forward(kappa *field.Map) (*field.ShearMap, error) {
	if kappa == nil {
		return nil, ErrNilMap
	}
	if kappa.Rows() != t.rows || kappa.Cols() != t.cols {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, kappa.Rows(), kappa.Cols(), t.rows, t.cols)
	}

	data := kappa.Data()
	for i := range t.buf {
		t.buf[i] = complex(data[i], 0)
	}

	if err := t.plan.Forward(t.buf, t.buf); err != nil {
		return nil, fmt.Errorf("kaisersquires: forward FFT failed: %w", err)
	}

	for i := range t.buf {
		t.buf[i] *= t.kernel[i]
	}

	if err := t.plan.Inverse(t.buf, t.buf); err != nil {
		return nil, fmt.Errorf("kaisersquires: inverse FFT failed: %w", err)
	}

	gamma, err := field.NewShearMap(t.rows, t.cols)
	if err != nil {
		return nil, err
	}
	copy(gamma.Data(), t.buf)

	return gamma, nil
}

// Inverse maps a shear field to its E-mode convergence map.
func (t *Transform) Inverse(gamma *field.ShearMap) (*field.Map, error) {
	e, _, err := t.InverseEB(gamma)

	return e, err
}

// InverseEB maps a shear field to its E-mode and B-mode convergence maps.
// The B-mode of a pure lensing signal vanishes up to noise, so it serves as
// a residual-systematics diagnostic.
func (t *Transform) InverseEB(gamma *field.ShearMap) (e, b *field.Map, err error) {
	if gamma == nil {
		return nil, nil, ErrNilMap
	}
	if gamma.Rows() != t.rows || gamma.Cols() != t.cols {
		return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, gamma.Rows(), gamma.Cols(), t.rows, t.cols)
	}

	copy(t.buf, gamma.Data())

	if err := t.plan.Forward(t.buf, t.buf); err != nil {
		return nil, nil, fmt.Errorf("kaisersquires: forward FFT failed: %w", err)
	}

	// kappa(k) = conj(D(k)) * gamma(k); |D| = 1 makes this the exact inverse
	// away from k = 0.
	for i, d := range t.kernel {
		t.buf[i] *= complex(real(d), -imag(d))
	}

	if err := t.plan.Inverse(t.buf, t.buf); err != nil {
		return nil, nil, fmt.Errorf("kaisersquires: inverse FFT failed: %w", err)
	}

	e, err = field.NewMap(t.rows, t.cols)
	if err != nil {
		return nil, nil, err
	}
	b, err = field.NewMap(t.rows, t.cols)
	if err != nil {
		return nil, nil, err
	}

	eData, bData := e.Data(), b.Data()
	for i, v := range t.buf {
		eData[i] = real(v)
		bData[i] = imag(v)
	}

	return e, b, nil
}

// Forward performs a one-shot convergence-to-shear transform.
func Forward(kappa *field.Map) (*field.ShearMap, error) {
	if kappa == nil {
		return nil, ErrNilMap
	}

	t, err := New(kappa.Rows(), kappa.Cols())
	if err != nil {
		return nil, err
	}

	return t.Forward(kappa)
}

// Inverse performs a one-shot shear-to-convergence transform.
func Inverse(gamma *field.ShearMap) (*field.Map, error) {
	if gamma == nil {
		return nil, ErrNilMap
	}

	t, err := New(gamma.Rows(), gamma.Cols())
	if err != nil {
		return nil, err
	}

	return t.Inverse(gamma)
}
