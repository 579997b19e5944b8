// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package plot renders the diagnostic views of a frame comparison: a
// binned heatmap of the per-pixel pull magnitude, offset pull traces for
// a subsample of spectra, and a histogram of the pull distribution.
package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// The heatmap bins |pull| logarithmically over [1e-4, 1]: five discrete
// Kindlmann colors, with sentinel colors for magnitudes below the floor,
// above the ceiling, and for non-finite values.
const (
	binFloor   = 1e-4
	binCeil    = 1.0
	heatLogMin = -4.0
	heatLogMax = 0.0
)

var (
	binPalette = moreland.Kindlmann().Palette(5)
	binColors  = binPalette.Colors()

	// Sentinels, deliberately outside the Kindlmann ramp.
	UnderColor   = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	OverColor    = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	InvalidColor = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
)

// PullColor returns the heatmap color for one pull magnitude. A
// magnitude of exactly 1e-4 lands in the lowest defined bin; values
// under the floor, over the ceiling, and non-finite values each get
// their own sentinel.
func PullColor(mag float64) color.Color {
	mag = math.Abs(mag)
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return InvalidColor
	}
	switch {
	case mag < binFloor:
		return UnderColor
	case mag > binCeil:
		return OverColor
	}
	i := int((logMag(mag) - heatLogMin) / (heatLogMax - heatLogMin) * float64(len(binColors)))
	if i < 0 {
		i = 0
	}
	if i >= len(binColors) {
		i = len(binColors) - 1
	}
	return binColors[i]
}

// logMag returns log10 of the magnitude, clamped so that magnitudes
// inside the binned range never leak out of it through rounding at the
// decade boundaries.
func logMag(mag float64) float64 {
	lg := math.Log10(mag)
	if mag >= binFloor && lg < heatLogMin {
		lg = heatLogMin
	}
	if mag <= binCeil && lg > heatLogMax {
		lg = heatLogMax
	}
	return lg
}

// extendedMap is the colorbar's color map: the five pull bins extended
// by one segment on each end for the out-of-range sentinels. The domain
// is log10 of the pull magnitude.
type extendedMap struct {
	min, max float64
	alpha    float64
}

func newExtendedMap() *extendedMap {
	return &extendedMap{min: heatLogMin - 1, max: heatLogMax + 1, alpha: 1}
}

func (m *extendedMap) At(v float64) (color.Color, error) {
	if v < m.min || v > m.max || math.IsNaN(v) {
		return nil, fmt.Errorf("plot: colorbar value %g out of range [%g, %g]", v, m.min, m.max)
	}
	switch {
	case v < heatLogMin:
		return UnderColor, nil
	case v > heatLogMax:
		return OverColor, nil
	}
	i := int((v - heatLogMin) / (heatLogMax - heatLogMin) * float64(len(binColors)))
	if i == len(binColors) {
		i = len(binColors) - 1
	}
	return binColors[i], nil
}

func (m *extendedMap) Min() float64       { return m.min }
func (m *extendedMap) SetMin(v float64)   { m.min = v }
func (m *extendedMap) Max() float64       { return m.max }
func (m *extendedMap) SetMax(v float64)   { m.max = v }
func (m *extendedMap) Alpha() float64     { return m.alpha }
func (m *extendedMap) SetAlpha(v float64) { m.alpha = v }

func (m *extendedMap) Palette(n int) palette.Palette {
	colors := make([]color.Color, 0, len(binColors)+2)
	colors = append(colors, UnderColor)
	colors = append(colors, binColors...)
	colors = append(colors, OverColor)
	return slicePalette(colors)
}

type slicePalette []color.Color

func (p slicePalette) Colors() []color.Color { return p }
