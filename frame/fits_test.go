// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fitsBlock = 2880

// fitsWriter assembles a minimal standard-conforming FITS file: 80-byte
// header cards in 2880-byte blocks, big-endian float64 image data.
type fitsWriter struct {
	buf bytes.Buffer
}

func (w *fitsWriter) pad() {
	for w.buf.Len()%fitsBlock != 0 {
		w.buf.WriteByte(' ')
	}
}

func (w *fitsWriter) card(s string) {
	if len(s) > 80 {
		panic("card too long")
	}
	w.buf.WriteString(s)
	for i := len(s); i < 80; i++ {
		w.buf.WriteByte(' ')
	}
}

func (w *fitsWriter) intCard(key string, v int) {
	w.card(fmt.Sprintf("%-8s= %20d", key, v))
}

func (w *fitsWriter) strCard(key, v string) {
	// The trailing comment matters: it closes the quoted value.
	w.card(fmt.Sprintf("%-8s= '%-8s'           / value", key, v))
}

func (w *fitsWriter) primary() {
	w.card("SIMPLE  =                    T / conforms to FITS standard")
	w.intCard("BITPIX", 8)
	w.intCard("NAXIS", 0)
	w.card("END")
	w.pad()
}

func (w *fitsWriter) image(name string, naxis []int, data []float64) {
	w.strCard("XTENSION", "IMAGE")
	w.intCard("BITPIX", -64)
	w.intCard("NAXIS", len(naxis))
	for i, n := range naxis {
		w.intCard(fmt.Sprintf("NAXIS%d", i+1), n)
	}
	w.intCard("PCOUNT", 0)
	w.intCard("GCOUNT", 1)
	w.strCard("EXTNAME", name)
	w.card("END")
	w.pad()

	for _, v := range data {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		w.buf.Write(b[:])
	}
	for w.buf.Len()%fitsBlock != 0 {
		w.buf.WriteByte(0)
	}
}

func testFITS(nspec, nwave, ndiag int) []byte {
	wave := make([]float64, nwave)
	flux := make([]float64, nspec*nwave)
	ivar := make([]float64, nspec*nwave)
	res := make([]float64, nspec*ndiag*nwave)
	for j := 0; j < nwave; j++ {
		wave[j] = 6000 + 0.8*float64(j)
	}
	for i := 0; i < nspec; i++ {
		for j := 0; j < nwave; j++ {
			flux[i*nwave+j] = float64(100*i + j)
			ivar[i*nwave+j] = 0.25
		}
		for d := 0; d < ndiag; d++ {
			for j := 0; j < nwave; j++ {
				res[(i*ndiag+d)*nwave+j] = float64(d)
			}
		}
	}

	w := &fitsWriter{}
	w.primary()
	w.image("FLUX", []int{nwave, nspec}, flux)
	w.image("IVAR", []int{nwave, nspec}, ivar)
	w.image("WAVELENGTH", []int{nwave}, wave)
	w.image("RESOLUTION", []int{nwave, ndiag, nspec}, res)
	return w.buf.Bytes()
}

func TestReadFITS(t *testing.T) {
	const nspec, nwave, ndiag = 3, 11, 5

	f, err := Read(bytes.NewReader(testFITS(nspec, nwave, ndiag)))
	require.NoError(t, err)

	assert.Equal(t, nspec, f.NSpec())
	assert.Equal(t, nwave, f.NWave())
	assert.InDelta(t, 6000.0, f.Wave[0], 1e-12)
	assert.InDelta(t, 6000+0.8*float64(nwave-1), f.Wave[nwave-1], 1e-12)

	// Flux was written as 100*spectrum + wavelength index.
	assert.Equal(t, 0.0, f.Flux.At(0, 0))
	assert.Equal(t, 210.0, f.Flux.At(2, 10))
	assert.Equal(t, 0.25, f.Ivar.At(1, 5))

	require.NotNil(t, f.Resolution)
	assert.Equal(t, nspec, f.Resolution.NSpec)
	assert.Equal(t, ndiag, f.Resolution.NDiag)
	assert.Equal(t, nwave, f.Resolution.NWave)
	assert.Equal(t, 4.0, f.Resolution.At(2, 4, 10))
}

func TestReadFITSMissingHDU(t *testing.T) {
	w := &fitsWriter{}
	w.primary()
	w.image("FLUX", []int{4, 2}, make([]float64, 8))

	_, err := Read(bytes.NewReader(w.buf.Bytes()))
	assert.Error(t, err)
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.fits")
	require.NoError(t, os.WriteFile(path, testFITS(2, 8, 3), 0o644))

	f, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.NSpec())
	assert.Equal(t, 8, f.NWave())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.fits"), nil)
	assert.Error(t, err)
}
