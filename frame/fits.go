// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"io"
	"strings"

	"github.com/siravan/fits"
	"gonum.org/v1/gonum/mat"
)

// HDU names written by the extraction pipeline.
const (
	hduFlux       = "FLUX"
	hduIvar       = "IVAR"
	hduWavelength = "WAVELENGTH"
	hduResolution = "RESOLUTION"
)

// Read loads a frame from FITS. HDUs are located by EXTNAME; an unnamed
// primary image is taken to be FLUX, matching what the pipeline writes.
func Read(r io.Reader) (*Frame, error) {
	units, err := fits.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fits open: %w", err)
	}

	byName := make(map[string]*fits.Unit)
	for i, u := range units {
		if !u.HasImage() {
			continue
		}
		name, ok := u.Keys["EXTNAME"].(string)
		if !ok && i == 0 {
			name = hduFlux
		}
		byName[strings.TrimSpace(name)] = u
	}

	f := &Frame{}
	if f.Wave, err = image1d(byName, hduWavelength); err != nil {
		return nil, err
	}
	if f.Flux, err = image2d(byName, hduFlux); err != nil {
		return nil, err
	}
	if f.Ivar, err = image2d(byName, hduIvar); err != nil {
		return nil, err
	}
	if u, ok := byName[hduResolution]; ok {
		if f.Resolution, err = image3d(u); err != nil {
			return nil, err
		}
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("frame shapes: %w", err)
	}
	return f, nil
}

func lookup(units map[string]*fits.Unit, name string) (*fits.Unit, error) {
	u, ok := units[name]
	if !ok {
		return nil, fmt.Errorf("missing %s HDU", name)
	}
	return u, nil
}

func image1d(units map[string]*fits.Unit, name string) ([]float64, error) {
	u, err := lookup(units, name)
	if err != nil {
		return nil, err
	}
	if len(u.Naxis) != 1 {
		return nil, fmt.Errorf("%s: want 1D image, got %d axes", name, len(u.Naxis))
	}
	out := make([]float64, u.Naxis[0])
	for i := range out {
		out[i] = u.FloatAt(i)
	}
	return out, nil
}

func image2d(units map[string]*fits.Unit, name string) (*mat.Dense, error) {
	u, err := lookup(units, name)
	if err != nil {
		return nil, err
	}
	if len(u.Naxis) != 2 {
		return nil, fmt.Errorf("%s: want 2D image, got %d axes", name, len(u.Naxis))
	}
	// NAXIS1 is the fast axis (wavelength), NAXIS2 counts spectra.
	nwave, nspec := u.Naxis[0], u.Naxis[1]
	m := mat.NewDense(nspec, nwave, nil)
	for i := 0; i < nspec; i++ {
		for j := 0; j < nwave; j++ {
			m.Set(i, j, u.FloatAt(j, i))
		}
	}
	return m, nil
}

func image3d(u *fits.Unit) (*Cube, error) {
	if len(u.Naxis) != 3 {
		return nil, fmt.Errorf("%s: want 3D image, got %d axes", hduResolution, len(u.Naxis))
	}
	nwave, ndiag, nspec := u.Naxis[0], u.Naxis[1], u.Naxis[2]
	c := NewCube(nspec, ndiag, nwave)
	for i := 0; i < nspec; i++ {
		for d := 0; d < ndiag; d++ {
			for j := 0; j < nwave; j++ {
				c.Set(i, d, j, u.FloatAt(j, d, i))
			}
		}
	}
	return c, nil
}
