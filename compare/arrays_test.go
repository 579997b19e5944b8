// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package compare

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArraysSelfComparison(t *testing.T) {
	x := []float64{1.5, -2.25, 1e-12, 3e8, 7}

	for _, tol := range []Tolerance{
		DefaultTolerance,
		{Rtol: 1e-5, Atol: 1e-8},
		{Rtol: 0.5, Atol: 100},
	} {
		c := Arrays(x, x, tol)
		assert.True(t, c.HasActive)
		assert.Equal(t, len(x), c.NActive)
		assert.False(t, c.FootprintMismatch)
		assert.Equal(t, 0.0, c.MaxAbsDiff)
		assert.Equal(t, 0.0, c.MaxRelDiff)
		assert.Equal(t, 0, c.AbsMismatch.Count)
		assert.Equal(t, 0, c.RelMismatch.Count)
	}
}

func TestArraysFootprintMismatch(t *testing.T) {
	x := []float64{1, 0, 3, 4}
	y := []float64{1, 2, 0, 4}

	c := Arrays(x, y, DefaultTolerance)
	assert.True(t, c.FootprintMismatch)
	assert.Equal(t, 3, c.NonzeroX)
	assert.Equal(t, 3, c.NonzeroY)
	// Only positions nonzero in both take part in the numeric comparison.
	assert.Equal(t, 2, c.NActive)
	assert.Equal(t, 0.0, c.MaxAbsDiff)
}

func TestArraysRelativeTolerance(t *testing.T) {
	x := []float64{1.0, 1.0}
	y := []float64{1.0, 1.1}

	c := Arrays(x, y, Tolerance{Rtol: 0.05})
	require.True(t, c.HasActive)
	assert.Equal(t, 1, c.RelMismatch.Count)
	assert.InDelta(t, 0.5, c.RelMismatch.Fraction, 1e-15)
	assert.InDelta(t, 0.0909, c.MaxRelDiff, 1e-4)
	require.Len(t, c.RelMismatch.X, 1)
	assert.Equal(t, 1.0, c.RelMismatch.X[0])
	assert.Equal(t, 1.1, c.RelMismatch.Y[0])
}

func TestArraysAbsoluteTolerance(t *testing.T) {
	x := []float64{10, 20, 30}
	y := []float64{10.5, 20, 30.001}

	c := Arrays(x, y, Tolerance{Atol: 0.01})
	assert.Equal(t, 1, c.AbsMismatch.Count)
	assert.InDelta(t, 1.0/3.0, c.AbsMismatch.Fraction, 1e-15)
	assert.InDelta(t, 0.5, c.MaxAbsDiff, 1e-12)
}

func TestArraysEmptyActiveSubset(t *testing.T) {
	x := []float64{0, 0, 1}
	y := []float64{1, 2, 0}

	c := Arrays(x, y, DefaultTolerance)
	assert.False(t, c.HasActive)
	assert.Equal(t, 0, c.NActive)
	assert.True(t, math.IsNaN(c.MaxAbsDiff))
	assert.True(t, math.IsNaN(c.MaxRelDiff))
	assert.True(t, c.FootprintMismatch)
}

func TestArraysSampleValuesCapped(t *testing.T) {
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 1
		y[i] = 2
	}

	c := Arrays(x, y, Tolerance{Rtol: 1e-3, Atol: 1e-3})
	assert.Equal(t, n, c.RelMismatch.Count)
	assert.Len(t, c.RelMismatch.X, maxSampleValues)
	assert.Equal(t, n, c.AbsMismatch.Count)
	assert.Len(t, c.AbsMismatch.Y, maxSampleValues)
}

func TestArrayComparisonJSON(t *testing.T) {
	// No active elements: the NaN extremes must come out as null, not
	// break encoding.
	c := Arrays([]float64{0, 0, 0}, []float64{1, 2, 3}, DefaultTolerance)
	require.False(t, c.HasActive)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"max_abs_diff":null`)
	assert.Contains(t, string(b), `"max_rel_diff":null`)
	assert.Contains(t, string(b), `"n_active":0`)

	c = Arrays([]float64{1, 2}, []float64{1, 2}, DefaultTolerance)
	b, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"max_abs_diff":0`)
	assert.Contains(t, string(b), `"max_rel_diff":0`)
}

func TestArraysLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		Arrays([]float64{1}, []float64{1, 2}, DefaultTolerance)
	})
}
