package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-massmap/lensing/baseline"
	"github.com/cwbudde/algo-massmap/lensing/field"
)

// mapGrid adapts a field.Map to the plotter.GridXYZ interface.
type mapGrid struct {
	m *field.Map
}

func (g mapGrid) Dims() (c, r int)   { return g.m.Cols(), g.m.Rows() }
func (g mapGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g mapGrid) X(c int) float64    { return float64(c) }
func (g mapGrid) Y(r int) float64    { return float64(r) }

func renderPlots(dir string, truth, raw *field.Map, res baseline.Result, scales []int, scores []float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	maps := []struct {
		name  string
		title string
		m     *field.Map
	}{
		{"truth.png", "Ground-truth convergence", truth},
		{"raw.png", "Raw Kaiser-Squires estimate", raw},
		{"smoothed.png", fmt.Sprintf("Smoothed estimate (sigma=%d px)", res.Scale), res.Field},
	}

	for _, mp := range maps {
		if err := saveHeatMap(filepath.Join(dir, mp.name), mp.title, mp.m); err != nil {
			return err
		}
	}

	return saveScoreCurve(filepath.Join(dir, "snr_curve.png"), scales, scores, res.Scale)
}

func saveHeatMap(path, title string, m *field.Map) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x [px]"
	p.Y.Label.Text = "y [px]"

	hm := plotter.NewHeatMap(mapGrid{m: m}, palette.Heat(64, 1))
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}

func saveScoreCurve(path string, scales []int, scores []float64, bestScale int) error {
	pts := make(plotter.XYs, 0, len(scales))
	for i, s := range scales {
		pts = append(pts, plotter.XY{X: float64(s), Y: scores[i]})
	}

	p := plot.New()
	p.Title.Text = "SNR vs smoothing scale"
	p.X.Label.Text = "sigma [px]"
	p.Y.Label.Text = "SNR [dB]"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building score curve: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("best sigma=%d px", bestScale), line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}
