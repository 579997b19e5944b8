// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package frame holds extracted spectroscopic frames in memory: a
// wavelength grid, per-spectrum flux and inverse variance, and the
// band-diagonal resolution operator produced by the extraction pipeline.
package frame

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cube is a per-spectrum band matrix stored flat in row-major order,
// nspec x ndiag x nwave. The extraction writes the resolution operator
// this way: for each spectrum, 2*hsize+1 diagonals over all wavelengths.
type Cube struct {
	NSpec, NDiag, NWave int
	Data                []float64
}

// NewCube allocates a zeroed cube with the given dimensions.
func NewCube(nspec, ndiag, nwave int) *Cube {
	return &Cube{
		NSpec: nspec,
		NDiag: ndiag,
		NWave: nwave,
		Data:  make([]float64, nspec*ndiag*nwave),
	}
}

// At returns the element for spectrum i, diagonal d, wavelength j.
func (c *Cube) At(i, d, j int) float64 {
	return c.Data[(i*c.NDiag+d)*c.NWave+j]
}

// Set assigns the element for spectrum i, diagonal d, wavelength j.
func (c *Cube) Set(i, d, j int, v float64) {
	c.Data[(i*c.NDiag+d)*c.NWave+j] = v
}

func (c *Cube) sameShape(o *Cube) bool {
	return c.NSpec == o.NSpec && c.NDiag == o.NDiag && c.NWave == o.NWave
}

// Frame is one extracted frame. Flux and Ivar are nspec x nwave.
// Ivar of zero marks a pixel with no information, not zero uncertainty.
type Frame struct {
	Wave       []float64
	Flux       *mat.Dense
	Ivar       *mat.Dense
	Resolution *Cube
}

// NSpec returns the number of spectra in the frame.
func (f *Frame) NSpec() int {
	r, _ := f.Flux.Dims()
	return r
}

// NWave returns the number of wavelength samples in the frame.
func (f *Frame) NWave() int { return len(f.Wave) }

// Validate checks internal shape consistency after a load.
func (f *Frame) Validate() error {
	nr, nc := f.Flux.Dims()
	if nc != len(f.Wave) {
		return fmt.Errorf("flux has %d wavelength columns, wave has %d samples", nc, len(f.Wave))
	}
	ir, ic := f.Ivar.Dims()
	if ir != nr || ic != nc {
		return fmt.Errorf("ivar shape %dx%d does not match flux shape %dx%d", ir, ic, nr, nc)
	}
	if f.Resolution != nil {
		if f.Resolution.NSpec != nr || f.Resolution.NWave != nc {
			return fmt.Errorf("resolution shape %dx%dx%d does not match flux shape %dx%d",
				f.Resolution.NSpec, f.Resolution.NDiag, f.Resolution.NWave, nr, nc)
		}
		if len(f.Resolution.Data) != f.Resolution.NSpec*f.Resolution.NDiag*f.Resolution.NWave {
			return fmt.Errorf("resolution data length %d does not match shape %dx%dx%d",
				len(f.Resolution.Data), f.Resolution.NSpec, f.Resolution.NDiag, f.Resolution.NWave)
		}
	}
	return nil
}

// CheckShapes verifies that two frames can be compared element by element.
// A mismatch is a caller contract violation and aborts the comparison.
func (f *Frame) CheckShapes(o *Frame) error {
	if len(f.Wave) != len(o.Wave) {
		return fmt.Errorf("wave lengths differ: %d vs %d", len(f.Wave), len(o.Wave))
	}
	fr, fc := f.Flux.Dims()
	or, oc := o.Flux.Dims()
	if fr != or || fc != oc {
		return fmt.Errorf("flux shapes differ: %dx%d vs %dx%d", fr, fc, or, oc)
	}
	fr, fc = f.Ivar.Dims()
	or, oc = o.Ivar.Dims()
	if fr != or || fc != oc {
		return fmt.Errorf("ivar shapes differ: %dx%d vs %dx%d", fr, fc, or, oc)
	}
	switch {
	case f.Resolution == nil && o.Resolution == nil:
	case f.Resolution == nil || o.Resolution == nil:
		return fmt.Errorf("resolution present in only one frame")
	case !f.Resolution.sameShape(o.Resolution):
		return fmt.Errorf("resolution shapes differ: %dx%dx%d vs %dx%dx%d",
			f.Resolution.NSpec, f.Resolution.NDiag, f.Resolution.NWave,
			o.Resolution.NSpec, o.Resolution.NDiag, o.Resolution.NWave)
	}
	return nil
}
