// Package field provides dense 2D map containers for weak-lensing data.
//
// A [Map] holds a real-valued grid such as a convergence (mass) map, and a
// [ShearMap] holds a complex-valued grid where the real and imaginary parts
// are the two shear components gamma1 and gamma2. Both are stored row-major
// in flat slices so they can be handed to FFT plans and SIMD slice math
// without copying.
package field

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by field constructors and operations.
var (
	ErrInvalidSize   = errors.New("field: rows and cols must be > 0")
	ErrShapeMismatch = errors.New("field: shape mismatch")
	ErrDataLength    = errors.New("field: data length does not match shape")
)

// Map is a dense row-major grid of real values.
type Map struct {
	rows, cols int
	data       []float64
}

// NewMap returns a zero-initialized rows x cols map.
func NewMap(rows, cols int) (*Map, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	return &Map{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}, nil
}

// FromData wraps an existing row-major slice as a map without copying.
// len(data) must equal rows*cols.
func FromData(rows, cols int, data []float64) (*Map, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(data), rows*cols)
	}

	return &Map{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (m *Map) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Map) Cols() int { return m.cols }

// At returns the value at row r, column c.
func (m *Map) At(r, c int) float64 { return m.data[r*m.cols+c] }

// Set stores v at row r, column c.
func (m *Map) Set(r, c int, v float64) { m.data[r*m.cols+c] = v }

// Data returns the backing row-major slice. Mutating it mutates the map.
func (m *Map) Data() []float64 { return m.data }

// Row returns the backing slice for row r. Mutating it mutates the map.
func (m *Map) Row(r int) []float64 { return m.data[r*m.cols : (r+1)*m.cols] }

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Map{rows: m.rows, cols: m.cols, data: data}
}

// SameShape reports whether m and o have identical dimensions.
func (m *Map) SameShape(o *Map) bool {
	return o != nil && m.rows == o.rows && m.cols == o.cols
}

// Fill sets every cell to v.
func (m *Map) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Mean returns the arithmetic mean of all cells.
func (m *Map) Mean() float64 {
	sum := 0.0
	for _, v := range m.data {
		sum += v
	}

	return sum / float64(len(m.data))
}

// Sub returns m - o as a new map.
func (m *Map) Sub(o *Map) (*Map, error) {
	if !m.SameShape(o) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}

	out := m.Clone()
	for i := range out.data {
		out.data[i] -= o.data[i]
	}

	return out, nil
}

// AddInPlace adds o cell-wise into m.
func (m *Map) AddInPlace(o *Map) error {
	if !m.SameShape(o) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}

	for i := range m.data {
		m.data[i] += o.data[i]
	}

	return nil
}

// MulInPlace multiplies m cell-wise by o, e.g. to apply a taper or mask.
// Uses SIMD-accelerated block multiplication when available.
func (m *Map) MulInPlace(o *Map) error {
	if !m.SameShape(o) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}

	vecmath.MulBlockInPlace(m.data, o.data)

	return nil
}

// ScaleInPlace multiplies every cell by s.
func (m *Map) ScaleInPlace(s float64) {
	for i := range m.data {
		m.data[i] *= s
	}
}
