// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package compare

import (
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
)

// pullHistRange bounds the pull histogram. Pulls beyond ±10 sigma carry
// no extra statistical meaning for the summary.
const (
	pullHistBins = 200
	pullHistMin  = -10.0
	pullHistMax  = 10.0
)

// invVar returns 1/ivar, or NaN where ivar is zero. Zero inverse
// variance means no measurement, so no finite variance exists.
func invVar(ivar float64) float64 {
	if ivar == 0 {
		return math.NaN()
	}
	return 1 / ivar
}

// Pull computes (a-b)/sqrt(var_a+var_b) elementwise with var = 1/ivar.
// Elements with zero ivar on either side come out NaN; downstream
// statistics treat those as incomparable rather than erroneous.
func Pull(fluxA, fluxB, ivarA, ivarB []float64) []float64 {
	if len(fluxA) != len(fluxB) || len(fluxA) != len(ivarA) || len(fluxA) != len(ivarB) {
		panic("compare: array lengths differ")
	}
	pull := make([]float64, len(fluxA))
	for i := range pull {
		pull[i] = (fluxA[i] - fluxB[i]) / math.Sqrt(invVar(ivarA[i])+invVar(ivarB[i]))
	}
	return pull
}

// SigmaPull computes the pull of the two standard deviation estimates:
// (sqrt(var_a)-sqrt(var_b))/sqrt(var_a+var_b), with the same zero-ivar
// convention as Pull.
func SigmaPull(ivarA, ivarB []float64) []float64 {
	if len(ivarA) != len(ivarB) {
		panic("compare: array lengths differ")
	}
	pull := make([]float64, len(ivarA))
	for i := range pull {
		va := invVar(ivarA[i])
		vb := invVar(ivarB[i])
		pull[i] = (math.Sqrt(va) - math.Sqrt(vb)) / math.Sqrt(va+vb)
	}
	return pull
}

// FracBelow returns the fraction of elements with |pull| < t, over the
// whole array. Non-finite elements fail the check, matching the
// reference pipeline's accounting.
func FracBelow(pull []float64, t float64) float64 {
	if len(pull) == 0 {
		return 0
	}
	n := 0
	for _, p := range pull {
		if math.Abs(p) < t {
			n++
		}
	}
	return float64(n) / float64(len(pull))
}

// DefaultThresholds is the standard sweep, six decades from 1e-5 to 1.
func DefaultThresholds() []float64 {
	return Logspace(1e-5, 1, 6)
}

// Logspace returns n logarithmically spaced values from lo to hi
// inclusive.
func Logspace(lo, hi float64, n int) []float64 {
	return floats.LogSpan(make([]float64, n), lo, hi)
}

// SweepPoint is one row of a threshold sweep.
type SweepPoint struct {
	Threshold float64 `json:"threshold"`
	Fraction  float64 `json:"fraction"`
}

// SweepReport characterizes a pull array: the fraction under each
// threshold plus summary moments of the finite values.
type SweepReport struct {
	Points  []SweepPoint `json:"points"`
	N       int          `json:"n"`
	NFinite int          `json:"n_finite"`
	Mean    float64      `json:"mean"`
	Std     float64      `json:"std"`
}

// Sweep evaluates pull against each threshold and accumulates summary
// statistics of the finite entries.
func Sweep(pull []float64, thresholds []float64) SweepReport {
	r := SweepReport{N: len(pull)}

	h := hbook.NewH1D(pullHistBins, pullHistMin, pullHistMax)
	for _, p := range pull {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		r.NFinite++
		h.Fill(p, 1)
	}
	if r.NFinite > 0 {
		r.Mean = h.XMean()
		r.Std = h.XStdDev()
	}

	for _, t := range thresholds {
		r.Points = append(r.Points, SweepPoint{Threshold: t, Fraction: FracBelow(pull, t)})
	}
	return r
}
