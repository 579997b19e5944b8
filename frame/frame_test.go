// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func makeFrame(nspec, nwave, ndiag int) *Frame {
	f := &Frame{
		Wave: make([]float64, nwave),
		Flux: mat.NewDense(nspec, nwave, nil),
		Ivar: mat.NewDense(nspec, nwave, nil),
	}
	if ndiag > 0 {
		f.Resolution = NewCube(nspec, ndiag, nwave)
	}
	for j := range f.Wave {
		f.Wave[j] = 5500 + float64(j)
	}
	return f
}

func TestCubeIndexing(t *testing.T) {
	c := NewCube(3, 5, 7)
	require.Len(t, c.Data, 3*5*7)

	c.Set(2, 4, 6, 1.25)
	assert.Equal(t, 1.25, c.At(2, 4, 6))
	assert.Equal(t, 1.25, c.Data[len(c.Data)-1])

	c.Set(0, 0, 0, -1)
	assert.Equal(t, -1.0, c.Data[0])
}

func TestValidate(t *testing.T) {
	f := makeFrame(4, 10, 3)
	assert.NoError(t, f.Validate())

	f.Wave = f.Wave[:9]
	assert.Error(t, f.Validate())

	f = makeFrame(4, 10, 3)
	f.Ivar = mat.NewDense(3, 10, nil)
	assert.Error(t, f.Validate())

	f = makeFrame(4, 10, 3)
	f.Resolution = NewCube(5, 3, 10)
	assert.Error(t, f.Validate())
}

func TestCheckShapes(t *testing.T) {
	a := makeFrame(4, 10, 3)

	assert.NoError(t, a.CheckShapes(makeFrame(4, 10, 3)))
	assert.Error(t, a.CheckShapes(makeFrame(4, 9, 3)))
	assert.Error(t, a.CheckShapes(makeFrame(5, 10, 3)))
	assert.Error(t, a.CheckShapes(makeFrame(4, 10, 5)))
	assert.Error(t, a.CheckShapes(makeFrame(4, 10, 0)))

	// Frames without resolution are comparable to each other.
	assert.NoError(t, makeFrame(4, 10, 0).CheckShapes(makeFrame(4, 10, 0)))
}

func TestNSpecNWave(t *testing.T) {
	f := makeFrame(6, 12, 3)
	assert.Equal(t, 6, f.NSpec())
	assert.Equal(t, 12, f.NWave())
}

func TestSplitGcsPath(t *testing.T) {
	bucket, object, err := splitGcsPath("gs://spectro-redux/exposures/frame-r0.fits")
	require.NoError(t, err)
	assert.Equal(t, "spectro-redux", bucket)
	assert.Equal(t, "exposures/frame-r0.fits", object)

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := splitGcsPath(bad)
		assert.Error(t, err, "path %q", bad)
	}
}
