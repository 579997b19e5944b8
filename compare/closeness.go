// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package compare

import "math"

// Machine epsilons for the two float widths the pipeline runs at.
const (
	EpsSingle = 1.1920928955078125e-07
	EpsDouble = 2.220446049250313e-16
)

// The three closeness criteria reported for every frame field: the
// loose default, then tolerance tightened to single and double machine
// epsilon.
var (
	CloseDefault = Tolerance{Rtol: 1e-5, Atol: 1e-8}
	CloseSingle  = Tolerance{Rtol: EpsSingle}
	CloseDouble  = Tolerance{Rtol: EpsDouble}
)

// Close reports whether x agrees with y within tol, treating y as the
// reference: |x-y| <= atol + rtol*|y|. NaN on either side never agrees.
func Close(x, y float64, tol Tolerance) bool {
	return math.Abs(x-y) <= tol.Atol+tol.Rtol*math.Abs(y)
}

// FracClose returns the fraction of elements where x agrees with y
// within tol. Empty input counts as full agreement.
func FracClose(x, y []float64, tol Tolerance) float64 {
	if len(x) != len(y) {
		panic("compare: array lengths differ")
	}
	if len(x) == 0 {
		return 1
	}
	n := 0
	for i := range x {
		if Close(x[i], y[i], tol) {
			n++
		}
	}
	return float64(n) / float64(len(x))
}

// Closeness holds the three per-criterion agreement fractions for one
// frame field.
type Closeness struct {
	Default float64 `json:"isclose"`
	Single  float64 `json:"isclose_single"`
	Double  float64 `json:"isclose_double"`
}

// Agreement runs the three closeness criteria over one field.
func Agreement(x, y []float64) Closeness {
	return Closeness{
		Default: FracClose(x, y, CloseDefault),
		Single:  FracClose(x, y, CloseSingle),
		Double:  FracClose(x, y, CloseDouble),
	}
}
