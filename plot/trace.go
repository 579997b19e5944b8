// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// nTraces is how many spectra the 1D view samples across the frame.
const nTraces = 5

// traceIndices picks n spectrum indices evenly spaced across nspec,
// always including the first and last spectrum.
func traceIndices(nspec, n int) []int {
	if nspec <= n {
		idx := make([]int, nspec)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i * (nspec - 1) / (n - 1)
	}
	return idx
}

// Traces renders the pull of a subsample of spectra into w as a PNG.
// Each sampled spectrum is drawn as glyphs only, no connecting line, at
// y = 100*pull + spectrum index, so gaps in the data stay visible.
func Traces(pull *mat.Dense, wave []float64, w io.Writer) error {
	p := plot.New()
	p.Title.Text = "pull traces"
	p.X.Label.Text = "wavelength [Å]"
	p.Y.Label.Text = "100 × pull + spectrum index"

	nspec, _ := pull.Dims()
	for k, i := range traceIndices(nspec, nTraces) {
		xys := make(plotter.XYs, 0, len(wave))
		for j := range wave {
			v := pull.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: wave[j], Y: 100*v + float64(i)})
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("trace for spectrum %d: %w", i, err)
		}
		s.GlyphStyle.Color = plotutil.Color(k)
		s.GlyphStyle.Shape = plotutil.Shape(k)
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("spectrum %d", i), s)
	}
	p.Legend.Top = true

	img := vgimg.New(8*vg.Inch, 5*vg.Inch)
	p.Draw(draw.New(img))
	return encodePNG(img, w)
}
