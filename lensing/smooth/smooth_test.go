package smooth

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-massmap/lensing/field"
)

func randomMap(t *testing.T, rows, cols int, seed int64) *field.Map {
	t.Helper()

	m, err := field.NewMap(rows, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data() {
		m.Data()[i] = rng.NormFloat64()
	}

	return m
}

func TestSigmaZeroReturnsCopy(t *testing.T) {
	m := randomMap(t, 8, 8, 1)

	out, err := Gaussian(m, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range m.Data() {
		if out.Data()[i] != m.Data()[i] {
			t.Fatalf("copy mismatch at %d", i)
		}
	}

	// Must be an independent copy.
	out.Set(0, 0, 99)
	if m.At(0, 0) == 99 {
		t.Errorf("sigma=0 output shares backing storage with input")
	}
}

func TestNegativeSigma(t *testing.T) {
	m := randomMap(t, 4, 4, 1)

	if _, err := Gaussian(m, -1); !errors.Is(err, ErrNegativeSigma) {
		t.Errorf("expected ErrNegativeSigma, got %v", err)
	}
}

func TestNilMap(t *testing.T) {
	if _, err := Gaussian(nil, 1); !errors.Is(err, ErrNilMap) {
		t.Errorf("expected ErrNilMap, got %v", err)
	}
}

func TestBlurrerShapeMismatch(t *testing.T) {
	b, err := NewBlurrer(8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wrong := randomMap(t, 4, 4, 1)
	if _, err := b.Apply(wrong, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestConstantMapIsInvariant(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		sigma float64
	}{
		{"direct path", 32, 1.5},
		{"fft path", 32, 20}, // kernel wider than directThreshold
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := field.NewMap(tt.size, tt.size)
			m.Fill(2.5)

			out, err := Gaussian(m, tt.sigma)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for i, v := range out.Data() {
				if math.Abs(v-2.5) > 1e-9 {
					t.Fatalf("constant not preserved at %d: %v", i, v)
				}
			}
		})
	}
}

func TestMassIsPreserved(t *testing.T) {
	m := randomMap(t, 16, 16, 2)

	sumBefore := 0.0
	for _, v := range m.Data() {
		sumBefore += v
	}

	for _, sigma := range []float64{0.5, 1, 3} {
		out, err := Gaussian(m, sigma)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sumAfter := 0.0
		for _, v := range out.Data() {
			sumAfter += v
		}

		// Periodic convolution with a normalized kernel preserves the total.
		if math.Abs(sumAfter-sumBefore) > 1e-9 {
			t.Errorf("sigma %v: sum changed from %v to %v", sigma, sumBefore, sumAfter)
		}
	}
}

func TestBlurReducesVariance(t *testing.T) {
	m := randomMap(t, 32, 32, 3)

	out, err := Gaussian(m, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	varIn := variance(m.Data())
	varOut := variance(out.Data())

	if varOut >= varIn {
		t.Errorf("variance did not decrease: %v -> %v", varIn, varOut)
	}
}

func TestImpulseResponseIsSymmetric(t *testing.T) {
	const size = 17
	const center = size / 2

	m, _ := field.NewMap(size, size)
	m.Set(center, center, 1)

	out, err := Gaussian(m, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for d := 1; d <= 4; d++ {
		left := out.At(center, center-d)
		right := out.At(center, center+d)
		up := out.At(center-d, center)
		down := out.At(center+d, center)

		if math.Abs(left-right) > 1e-12 || math.Abs(up-down) > 1e-12 || math.Abs(left-up) > 1e-12 {
			t.Errorf("asymmetric response at offset %d: %v %v %v %v", d, left, right, up, down)
		}
	}

	if out.At(center, center) <= out.At(center, center-1) {
		t.Errorf("peak is not at the impulse position")
	}
}

func TestDirectMatchesFFT(t *testing.T) {
	m := randomMap(t, 24, 24, 4)

	b, err := NewBlurrer(24, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const sigma = 2.0
	radius := kernelRadius(sigma)

	direct := m.Clone()
	b.applyDirect(direct, sigma, radius)

	spectral := m.Clone()
	if err := b.applyFFT(spectral, sigma); err != nil {
		t.Fatalf("fft path failed: %v", err)
	}

	for i := range direct.Data() {
		if math.Abs(direct.Data()[i]-spectral.Data()[i]) > 1e-9 {
			t.Fatalf("paths disagree at %d: direct %v, fft %v",
				i, direct.Data()[i], spectral.Data()[i])
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	m := randomMap(t, 8, 8, 5)
	before := m.Clone()

	if _, err := Gaussian(m, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range m.Data() {
		if m.Data()[i] != before.Data()[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestCircularKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 5, 20} {
		k := circularKernel(sigma, 16)

		sum := 0.0
		for _, v := range k {
			sum += v
		}

		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("sigma %v: kernel sum = %v, expected 1", sigma, sum)
		}
	}
}

func variance(x []float64) float64 {
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	sum := 0.0
	for _, v := range x {
		d := v - mean
		sum += d * d
	}

	return sum / float64(len(x))
}
