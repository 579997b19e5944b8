// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/specdiag/framediff/frame"
)

// Options tunes a frame comparison. Zero values select the defaults.
type Options struct {
	// Thresholds for the pull sweeps. Default: six decades, 1e-5 to 1.
	Thresholds []float64
	// FluxDetailTol drives the detailed flux mismatch report.
	// Default: rtol 1e-5.
	FluxDetailTol Tolerance
}

func (o *Options) fill() {
	if o.Thresholds == nil {
		o.Thresholds = DefaultThresholds()
	}
	if o.FluxDetailTol == (Tolerance{}) {
		o.FluxDetailTol = Tolerance{Rtol: 1e-5}
	}
}

// WaveCheck reports wavelength grid agreement. A mismatch here is a
// warning in the report, never fatal.
type WaveCheck struct {
	Close      bool    `json:"close"`
	MaxAbsDiff float64 `json:"max_abs_diff"`
}

// Report is the full result of comparing two frames.
type Report struct {
	RunID  string `json:"run_id"`
	FrameA string `json:"frame_a,omitempty"`
	FrameB string `json:"frame_b,omitempty"`
	NSpec  int    `json:"nspec"`
	NWave  int    `json:"nwave"`

	Wave       WaveCheck       `json:"wave"`
	Flux       Closeness       `json:"flux"`
	FluxDetail ArrayComparison `json:"flux_detail"`
	FluxPull   SweepReport     `json:"flux_pull"`
	Ivar       Closeness       `json:"ivar"`
	SigmaPull  SweepReport     `json:"sigma_pull"`
	Resolution *Closeness      `json:"resolution,omitempty"`

	// PullMap holds the per-pixel flux pull for plotting. Not part of
	// the serialized report.
	PullMap *mat.Dense `json:"-"`
}

// Frames compares two extracted frames field by field. The only error
// is the upfront shape precondition; any amount of numerical
// disagreement comes back inside the report.
func Frames(a, b *frame.Frame, opts Options) (*Report, error) {
	if err := a.CheckShapes(b); err != nil {
		return nil, err
	}
	opts.fill()

	r := &Report{
		RunID: uuid.New().String(),
		NSpec: a.NSpec(),
		NWave: a.NWave(),
	}

	r.Wave.MaxAbsDiff = 0
	r.Wave.Close = true
	for i := range a.Wave {
		d := a.Wave[i] - b.Wave[i]
		if d < 0 {
			d = -d
		}
		if d > r.Wave.MaxAbsDiff {
			r.Wave.MaxAbsDiff = d
		}
		if !Close(a.Wave[i], b.Wave[i], CloseDefault) {
			r.Wave.Close = false
		}
	}

	fluxA := a.Flux.RawMatrix().Data
	fluxB := b.Flux.RawMatrix().Data
	ivarA := a.Ivar.RawMatrix().Data
	ivarB := b.Ivar.RawMatrix().Data

	r.Flux = Agreement(fluxA, fluxB)
	r.FluxDetail = Arrays(fluxA, fluxB, opts.FluxDetailTol)

	pull := Pull(fluxA, fluxB, ivarA, ivarB)
	r.FluxPull = Sweep(pull, opts.Thresholds)
	r.PullMap = mat.NewDense(r.NSpec, r.NWave, pull)

	r.Ivar = Agreement(ivarA, ivarB)
	r.SigmaPull = Sweep(SigmaPull(ivarA, ivarB), opts.Thresholds)

	if a.Resolution != nil {
		res := Agreement(a.Resolution.Data, b.Resolution.Data)
		r.Resolution = &res
	}

	return r, nil
}

// Stats flattens the report into named scalars for automated checks.
func (r *Report) Stats() map[string]float64 {
	s := map[string]float64{
		"wave.max_abs_diff":   r.Wave.MaxAbsDiff,
		"flux.isclose":        r.Flux.Default,
		"flux.isclose_single": r.Flux.Single,
		"flux.isclose_double": r.Flux.Double,
		"flux.max_abs_diff":   r.FluxDetail.MaxAbsDiff,
		"flux.max_rel_diff":   r.FluxDetail.MaxRelDiff,
		"flux_pull.mean":      r.FluxPull.Mean,
		"flux_pull.std":       r.FluxPull.Std,
		"ivar.isclose":        r.Ivar.Default,
		"ivar.isclose_single": r.Ivar.Single,
		"ivar.isclose_double": r.Ivar.Double,
		"sigma_pull.mean":     r.SigmaPull.Mean,
		"sigma_pull.std":      r.SigmaPull.Std,
	}
	for _, p := range r.FluxPull.Points {
		s[fmt.Sprintf("flux_pull.frac_below_%.0e", p.Threshold)] = p.Fraction
	}
	for _, p := range r.SigmaPull.Points {
		s[fmt.Sprintf("sigma_pull.frac_below_%.0e", p.Threshold)] = p.Fraction
	}
	if r.Resolution != nil {
		s["resolution.isclose"] = r.Resolution.Default
		s["resolution.isclose_single"] = r.Resolution.Single
		s["resolution.isclose_double"] = r.Resolution.Double
	}
	return s
}

// WriteText renders the human-readable report.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "comparing %d spectra x %d wavelengths (run %s)\n", r.NSpec, r.NWave, r.RunID)

	if r.Wave.Close {
		fmt.Fprintf(w, "wave: grids agree (max abs diff %.3g)\n", r.Wave.MaxAbsDiff)
	} else {
		fmt.Fprintf(w, "wave: WARNING grids differ (max abs diff %.3g)\n", r.Wave.MaxAbsDiff)
	}

	writeCloseness(w, "flux", r.Flux)
	writeComparison(w, "flux", r.FluxDetail)
	writeSweep(w, "flux pull", r.FluxPull)
	writeCloseness(w, "ivar", r.Ivar)
	writeSweep(w, "sigma pull", r.SigmaPull)
	if r.Resolution != nil {
		writeCloseness(w, "resolution", *r.Resolution)
	}
}

func writeCloseness(w io.Writer, name string, c Closeness) {
	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "  isclose         %8.4f%%\n", 100*c.Default)
	fmt.Fprintf(w, "  isclose_single  %8.4f%%\n", 100*c.Single)
	fmt.Fprintf(w, "  isclose_double  %8.4f%%\n", 100*c.Double)
}

func writeComparison(w io.Writer, name string, c ArrayComparison) {
	if c.FootprintMismatch {
		fmt.Fprintf(w, "%s: WARNING nonzero footprints differ: %d vs %d nonzero\n",
			name, c.NonzeroX, c.NonzeroY)
	}
	if !c.HasActive {
		fmt.Fprintf(w, "%s: no elements nonzero in both arrays, nothing to compare\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %d active elements, max abs diff %.6g, max rel diff %.6g\n",
		name, c.NActive, c.MaxAbsDiff, c.MaxRelDiff)
	writeMismatch(w, name, "atol", c.Tol.Atol, c.AbsMismatch)
	writeMismatch(w, name, "rtol", c.Tol.Rtol, c.RelMismatch)
}

func writeMismatch(w io.Writer, name, kind string, tol float64, m MismatchSet) {
	if tol <= 0 || m.Count == 0 {
		return
	}
	fmt.Fprintf(w, "%s: %d elements (%.4f%%) exceed %s %.3g\n",
		name, m.Count, 100*m.Fraction, kind, tol)
	for i := range m.X {
		fmt.Fprintf(w, "    x=%.9g y=%.9g\n", m.X[i], m.Y[i])
	}
	if m.Count > len(m.X) {
		fmt.Fprintf(w, "    ... %d more\n", m.Count-len(m.X))
	}
}

func writeSweep(w io.Writer, name string, s SweepReport) {
	fmt.Fprintf(w, "%s: %d finite of %d, mean %.4g, std %.4g\n", name, s.NFinite, s.N, s.Mean, s.Std)
	fmt.Fprintf(w, "  threshold   frac(|pull| < threshold)\n")
	for _, p := range s.Points {
		fmt.Fprintf(w, "  %9.0e   %.6f\n", p.Threshold, p.Fraction)
	}
}
