package field

import (
	"errors"
	"math"
	"testing"
)

func TestNewMapErrors(t *testing.T) {
	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"zero rows", 0, 4},
		{"zero cols", 4, 0},
		{"negative", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMap(tt.rows, tt.cols)
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("expected ErrInvalidSize, got %v", err)
			}
		})
	}
}

func TestFromData(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}

	m, err := FromData(2, 3, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Rows() != 2 || m.Cols() != 3 {
		t.Fatalf("shape = %dx%d, expected 2x3", m.Rows(), m.Cols())
	}
	if m.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %v, expected 6", m.At(1, 2))
	}

	// FromData wraps without copying.
	data[0] = 42
	if m.At(0, 0) != 42 {
		t.Errorf("expected backing slice to be shared")
	}

	_, err = FromData(2, 3, data[:4])
	if !errors.Is(err, ErrDataLength) {
		t.Errorf("expected ErrDataLength, got %v", err)
	}
}

func TestCloneIndependence(t *testing.T) {
	m, _ := NewMap(3, 3)
	m.Set(1, 1, 7)

	c := m.Clone()
	c.Set(1, 1, 9)

	if m.At(1, 1) != 7 {
		t.Errorf("clone mutation leaked into original: %v", m.At(1, 1))
	}
	if c.At(1, 1) != 9 {
		t.Errorf("clone value = %v, expected 9", c.At(1, 1))
	}
}

func TestMapArithmetic(t *testing.T) {
	a, _ := FromData(2, 2, []float64{1, 2, 3, 4})
	b, _ := FromData(2, 2, []float64{4, 3, 2, 1})

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{-3, -1, 1, 3}
	for i, v := range diff.Data() {
		if v != want[i] {
			t.Errorf("diff[%d] = %v, expected %v", i, v, want[i])
		}
	}

	// Sub must not mutate its operands.
	if a.At(0, 0) != 1 || b.At(0, 0) != 4 {
		t.Errorf("Sub mutated an operand")
	}

	if err := a.AddInPlace(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range a.Data() {
		if v != 5 {
			t.Errorf("AddInPlace result = %v, expected 5", v)
		}
	}

	mask, _ := FromData(2, 2, []float64{1, 0, 1, 0})
	if err := a.MulInPlace(mask); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want = []float64{5, 0, 5, 0}
	for i, v := range a.Data() {
		if v != want[i] {
			t.Errorf("MulInPlace[%d] = %v, expected %v", i, v, want[i])
		}
	}
}

func TestMapShapeMismatch(t *testing.T) {
	a, _ := NewMap(2, 2)
	b, _ := NewMap(4, 4)

	if _, err := a.Sub(b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Sub: expected ErrShapeMismatch, got %v", err)
	}
	if err := a.AddInPlace(b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("AddInPlace: expected ErrShapeMismatch, got %v", err)
	}
	if err := a.MulInPlace(b); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("MulInPlace: expected ErrShapeMismatch, got %v", err)
	}
}

func TestMean(t *testing.T) {
	m, _ := FromData(2, 2, []float64{1, 2, 3, 4})
	if got := m.Mean(); got != 2.5 {
		t.Errorf("Mean = %v, expected 2.5", got)
	}
}

func TestShearComponents(t *testing.T) {
	g1, _ := FromData(2, 2, []float64{1, 0, -1, 2})
	g2, _ := FromData(2, 2, []float64{0, 1, 1, -2})

	s, err := ShearFromComponents(g1, g2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c1, c2 := s.Components()
	for i := range g1.Data() {
		if c1.Data()[i] != g1.Data()[i] || c2.Data()[i] != g2.Data()[i] {
			t.Fatalf("component round trip mismatch at %d", i)
		}
	}

	mag := s.Magnitude()
	pow := s.Power()
	for i := range g1.Data() {
		want := math.Hypot(g1.Data()[i], g2.Data()[i])
		if math.Abs(mag.Data()[i]-want) > 1e-12 {
			t.Errorf("Magnitude[%d] = %v, expected %v", i, mag.Data()[i], want)
		}
		if math.Abs(pow.Data()[i]-want*want) > 1e-12 {
			t.Errorf("Power[%d] = %v, expected %v", i, pow.Data()[i], want*want)
		}
	}
}

func TestShearFromComponentsMismatch(t *testing.T) {
	g1, _ := NewMap(2, 2)
	g2, _ := NewMap(4, 4)

	if _, err := ShearFromComponents(g1, g2); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := ShearFromComponents(nil, g2); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for nil, got %v", err)
	}
}

func TestShearCloneIndependence(t *testing.T) {
	s, _ := NewShearMap(2, 2)
	s.Set(0, 0, 1+2i)

	c := s.Clone()
	c.Set(0, 0, 3+4i)

	if s.At(0, 0) != 1+2i {
		t.Errorf("clone mutation leaked into original: %v", s.At(0, 0))
	}
}
