// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"io"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PullHist renders a histogram of the finite pull values into w as a
// PNG. A well-matched pair of frames piles everything into the central
// bin; a statistically consistent pair shows a unit-width gaussian.
func PullHist(pull []float64, w io.Writer) error {
	h := hbook.NewH1D(200, -10, 10)
	for _, v := range pull {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		h.Fill(v, 1)
	}

	p := hplot.New()
	p.Title.Text = "pull distribution"
	p.X.Label.Text = "pull"
	p.Y.Label.Text = "pixels"
	p.Add(hplot.NewH1D(h), hplot.NewGrid())

	img := vgimg.New(6*vg.Inch, 4*vg.Inch)
	p.Draw(draw.New(img))
	return encodePNG(img, w)
}
