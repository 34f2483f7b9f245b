// Package fft2 wraps 1D FFT plans into a row-column 2D transform for
// row-major complex grids.
package fft2

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by 2D FFT plans.
var (
	ErrInvalidSize    = errors.New("fft2: rows and cols must be > 0")
	ErrLengthMismatch = errors.New("fft2: buffer length mismatch")
)

// Plan performs forward and inverse 2D FFTs on rows x cols complex grids
// using row-column decomposition. A plan is reusable but not safe for
// concurrent use because it carries scratch buffers.
type Plan struct {
	rows, cols int

	rowPlan *algofft.Plan[complex128]
	colPlan *algofft.Plan[complex128]

	// Scratch column buffer for the strided pass.
	col []complex128
}

// NewPlan creates a 2D FFT plan for rows x cols grids.
func NewPlan(rows, cols int) (*Plan, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	rowPlan, err := algofft.NewPlan64(cols)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create row plan: %w", err)
	}

	colPlan := rowPlan
	if rows != cols {
		colPlan, err = algofft.NewPlan64(rows)
		if err != nil {
			return nil, fmt.Errorf("fft2: failed to create column plan: %w", err)
		}
	}

	return &Plan{
		rows:    rows,
		cols:    cols,
		rowPlan: rowPlan,
		colPlan: colPlan,
		col:     make([]complex128, rows),
	}, nil
}

// Rows returns the grid row count.
func (p *Plan) Rows() int { return p.rows }

// Cols returns the grid column count.
func (p *Plan) Cols() int { return p.cols }

// Forward computes the 2D forward FFT of src into dst.
// dst and src must both have length rows*cols; they may alias.
func (p *Plan) Forward(dst, src []complex128) error {
	return p.transform(dst, src, p.rowPlan.Forward, p.colPlan.Forward)
}

// Inverse computes the 2D inverse FFT of src into dst.
// dst and src must both have length rows*cols; they may alias.
func (p *Plan) Inverse(dst, src []complex128) error {
	return p.transform(dst, src, p.rowPlan.Inverse, p.colPlan.Inverse)
}

func (p *Plan) transform(dst, src []complex128, row, col func(dst, src []complex128) error) error {
	n := p.rows * p.cols
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("%w: want %d, got dst %d src %d", ErrLengthMismatch, n, len(dst), len(src))
	}

	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	// Rows in place.
	for r := 0; r < p.rows; r++ {
		line := dst[r*p.cols : (r+1)*p.cols]
		if err := row(line, line); err != nil {
			return fmt.Errorf("fft2: row %d transform failed: %w", r, err)
		}
	}

	// Columns via gather/scatter through the scratch buffer.
	for c := 0; c < p.cols; c++ {
		for r := 0; r < p.rows; r++ {
			p.col[r] = dst[r*p.cols+c]
		}

		if err := col(p.col, p.col); err != nil {
			return fmt.Errorf("fft2: column %d transform failed: %w", c, err)
		}

		for r := 0; r < p.rows; r++ {
			dst[r*p.cols+c] = p.col[r]
		}
	}

	return nil
}
