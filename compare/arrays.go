// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package compare measures the agreement between two extracted frames:
// elementwise closeness fractions, detailed mismatch reports under
// absolute and relative tolerances, and pull distributions normalized by
// the combined uncertainty. Nothing in this package treats disagreement
// as an error; results are reported, not raised.
package compare

import (
	"encoding/json"
	"math"
)

// Tolerance is an absolute/relative tolerance pair. Either side may be
// zero to disable that check.
type Tolerance struct {
	Rtol float64 `json:"rtol"`
	Atol float64 `json:"atol"`
}

// DefaultTolerance matches the strict reference comparison defaults.
var DefaultTolerance = Tolerance{Rtol: 1e-8, Atol: 0}

// maxSampleValues caps how many mismatching element pairs are kept for
// diagnostic printing.
const maxSampleValues = 10

// MismatchSet describes the elements that exceeded one tolerance.
// X and Y hold up to maxSampleValues of the offending value pairs.
type MismatchSet struct {
	Count    int       `json:"count"`
	Fraction float64   `json:"fraction"`
	X        []float64 `json:"x,omitempty"`
	Y        []float64 `json:"y,omitempty"`
}

func (m *MismatchSet) add(nActive int, x, y float64) {
	m.Count++
	m.Fraction = float64(m.Count) / float64(nActive)
	if len(m.X) < maxSampleValues {
		m.X = append(m.X, x)
		m.Y = append(m.Y, y)
	}
}

// ArrayComparison is the report produced by Arrays. Elements where either
// input is exactly zero are excluded from the numeric comparison: zero
// encodes missing data in these arrays, not a measured value. When no
// active elements remain, HasActive is false and the extremes are NaN.
type ArrayComparison struct {
	Tol Tolerance `json:"tol"`

	// Nonzero footprints of the two inputs.
	NonzeroX          int  `json:"nonzero_x"`
	NonzeroY          int  `json:"nonzero_y"`
	FootprintMismatch bool `json:"footprint_mismatch"`

	// Elements nonzero in both inputs.
	NActive   int  `json:"n_active"`
	HasActive bool `json:"has_active"`

	MaxAbsDiff  float64     `json:"max_abs_diff"`
	MaxRelDiff  float64     `json:"max_rel_diff"`
	AbsMismatch MismatchSet `json:"abs_mismatch"`
	RelMismatch MismatchSet `json:"rel_mismatch"`
}

// MarshalJSON emits null for the difference extremes when no active
// elements exist; their NaN sentinels have no JSON encoding.
func (c ArrayComparison) MarshalJSON() ([]byte, error) {
	type alias ArrayComparison
	aux := struct {
		alias
		MaxAbsDiff *float64 `json:"max_abs_diff"`
		MaxRelDiff *float64 `json:"max_rel_diff"`
	}{alias: alias(c)}
	if c.HasActive {
		aux.MaxAbsDiff = &c.MaxAbsDiff
		aux.MaxRelDiff = &c.MaxRelDiff
	}
	return json.Marshal(aux)
}

// Arrays compares two same-length arrays under tol. It measures, never
// judges: mismatches of any size produce report content, not failures.
// Panics only if the lengths differ, which is a caller bug.
func Arrays(x, y []float64, tol Tolerance) ArrayComparison {
	if len(x) != len(y) {
		panic("compare: array lengths differ")
	}

	c := ArrayComparison{
		Tol:        tol,
		MaxAbsDiff: math.NaN(),
		MaxRelDiff: math.NaN(),
	}

	for i := range x {
		if x[i] != 0 {
			c.NonzeroX++
		}
		if y[i] != 0 {
			c.NonzeroY++
		}
		if x[i] != 0 && y[i] != 0 {
			c.NActive++
		}
		if (x[i] != 0) != (y[i] != 0) {
			c.FootprintMismatch = true
		}
	}
	if c.NActive == 0 {
		return c
	}
	c.HasActive = true

	c.MaxAbsDiff = 0
	c.MaxRelDiff = 0
	for i := range x {
		if x[i] == 0 || y[i] == 0 {
			continue
		}
		absDiff := math.Abs(x[i] - y[i])
		if absDiff > c.MaxAbsDiff {
			c.MaxAbsDiff = absDiff
		}
		if tol.Atol > 0 && absDiff > tol.Atol {
			c.AbsMismatch.add(c.NActive, x[i], y[i])
		}

		// Symmetric: the difference against the larger magnitude.
		rel := absDiff / math.Max(math.Abs(x[i]), math.Abs(y[i]))
		if rel > c.MaxRelDiff {
			c.MaxRelDiff = rel
		}
		if tol.Rtol > 0 && rel > tol.Rtol {
			c.RelMismatch.add(c.NActive, x[i], y[i])
		}
	}

	return c
}
