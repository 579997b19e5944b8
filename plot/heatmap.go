// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// pullGrid presents log10 of the pull magnitude as a heatmap grid:
// wavelength along x, spectrum index along y. NaN passes through so the
// heatmap can paint incomparable pixels with the invalid sentinel; a
// pull of exactly zero becomes -Inf and lands in the under-range
// sentinel.
type pullGrid struct {
	pull *mat.Dense
	wave []float64
}

func (g pullGrid) Dims() (c, r int) {
	r, c = g.pull.Dims()
	return c, r
}

func (g pullGrid) Z(c, r int) float64 {
	return logMag(math.Abs(g.pull.At(r, c)))
}

func (g pullGrid) X(c int) float64 { return g.wave[c] }
func (g pullGrid) Y(r int) float64 { return float64(r) }

// Heatmap renders |pull| for every pixel of the comparison into w as a
// PNG: five discrete logarithmic color bins from 1e-4 to 1 with
// sentinel colors for out-of-range and non-finite values, plus an
// extended colorbar.
func Heatmap(pull *mat.Dense, wave []float64, w io.Writer) error {
	p := plot.New()
	p.Title.Text = "|pull| per pixel"
	p.X.Label.Text = "wavelength [Å]"
	p.Y.Label.Text = "spectrum"

	hm := plotter.NewHeatMap(pullGrid{pull: pull, wave: wave}, binPalette)
	hm.Min = heatLogMin
	hm.Max = heatLogMax
	hm.Underflow = UnderColor
	hm.Overflow = OverColor
	hm.NaN = InvalidColor
	hm.Rasterized = true
	p.Add(hm)

	bar := plot.New()
	bar.HideY()
	bar.X.Label.Text = "|pull|"
	bar.X.Tick.Marker = DecadeTicks{}
	bar.Add(&plotter.ColorBar{ColorMap: newExtendedMap()})

	img := vgimg.New(8*vg.Inch, 5*vg.Inch)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, 1.2*vg.Inch, 0))
	bar.Draw(draw.Crop(dc, vg.Inch/2, -vg.Inch/2, 0, -3.8*vg.Inch))

	return encodePNG(img, w)
}
