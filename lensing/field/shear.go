package field

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// ShearMap is a dense row-major grid of complex shear values.
// The real part is the gamma1 component and the imaginary part gamma2.
type ShearMap struct {
	rows, cols int
	data       []complex128
}

// NewShearMap returns a zero-initialized rows x cols shear map.
func NewShearMap(rows, cols int) (*ShearMap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	return &ShearMap{
		rows: rows,
		cols: cols,
		data: make([]complex128, rows*cols),
	}, nil
}

// ShearFromComponents builds a shear map from separate gamma1/gamma2 grids.
func ShearFromComponents(g1, g2 *Map) (*ShearMap, error) {
	if g1 == nil || g2 == nil || !g1.SameShape(g2) {
		return nil, fmt.Errorf("%w: gamma1 and gamma2 must share a shape", ErrShapeMismatch)
	}

	s, err := NewShearMap(g1.rows, g1.cols)
	if err != nil {
		return nil, err
	}

	for i := range s.data {
		s.data[i] = complex(g1.data[i], g2.data[i])
	}

	return s, nil
}

// Rows returns the number of rows.
func (s *ShearMap) Rows() int { return s.rows }

// Cols returns the number of columns.
func (s *ShearMap) Cols() int { return s.cols }

// At returns the complex shear at row r, column c.
func (s *ShearMap) At(r, c int) complex128 { return s.data[r*s.cols+c] }

// Set stores v at row r, column c.
func (s *ShearMap) Set(r, c int, v complex128) { s.data[r*s.cols+c] = v }

// Data returns the backing row-major slice. Mutating it mutates the map.
func (s *ShearMap) Data() []complex128 { return s.data }

// Clone returns a deep copy of the shear map.
func (s *ShearMap) Clone() *ShearMap {
	data := make([]complex128, len(s.data))
	copy(data, s.data)

	return &ShearMap{rows: s.rows, cols: s.cols, data: data}
}

// SameShape reports whether s and o have identical dimensions.
func (s *ShearMap) SameShape(o *ShearMap) bool {
	return o != nil && s.rows == o.rows && s.cols == o.cols
}

// Components splits the shear map into its gamma1 and gamma2 grids.
func (s *ShearMap) Components() (g1, g2 *Map) {
	g1 = &Map{rows: s.rows, cols: s.cols, data: make([]float64, len(s.data))}
	g2 = &Map{rows: s.rows, cols: s.cols, data: make([]float64, len(s.data))}

	for i, v := range s.data {
		g1.data[i] = real(v)
		g2.data[i] = imag(v)
	}

	return g1, g2
}

// Magnitude returns |gamma| = sqrt(gamma1^2 + gamma2^2) per cell.
//
// Uses SIMD-accelerated magnitude computation when available.
func (s *ShearMap) Magnitude() *Map {
	g1, g2 := s.Components()
	out := &Map{rows: s.rows, cols: s.cols, data: make([]float64, len(s.data))}

	vecmath.Magnitude(out.data, g1.data, g2.data)

	return out
}

// Power returns |gamma|^2 = gamma1^2 + gamma2^2 per cell.
//
// Uses SIMD-accelerated power computation when available.
func (s *ShearMap) Power() *Map {
	g1, g2 := s.Components()
	out := &Map{rows: s.rows, cols: s.cols, data: make([]float64, len(s.data))}

	vecmath.Power(out.data, g1.data, g2.data)

	return out
}
