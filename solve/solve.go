// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package solve finds the non-negative global scale on a loading template so
that the per-bin firing-rate ceiling and the Fisher-Information SNR target
are met according to a priority policy.

The effective loading matrix is C = s*C0 for a single scale s, which
preserves the coherence and sparsity structure of the template, with the
per-neuron bias re-solved in closed form at every s so that each neuron's
mean rate equals the target.  Two quantities are monotone increasing in s:
the maximum instantaneous rate, and the SNR (larger loadings mean more
information per spike).  Both roots are found with the shared bisection
utility; the priority policy resolves the conflict when they disagree, and
the shortfall or excess is always reported, never silently dropped.
*/
package solve

import (
	"fmt"
	"log"
	"math"

	"github.com/emer/etable/v2/minmax"
	"gonum.org/v1/gonum/mat"

	"github.com/emer/neurofisher/fisher"
	"github.com/emer/neurofisher/rates"
)

// Priority resolves the conflict between the rate ceiling and the SNR target
// when both cannot be satisfied at once.
type Priority int32

const (
	// Mean prioritizes the target mean rate and SNR: the scale is chosen to
	// hit the SNR target exactly, and the max-rate ceiling may be exceeded
	// (the excess is reported).
	Mean Priority = iota

	// Max prioritizes the rate ceiling: the realized max rate never exceeds
	// it, even if the SNR target is then unreachable (the shortfall is
	// reported).
	Max
)

func (p Priority) String() string {
	if p == Max {
		return "max"
	}
	return "mean"
}

// UnsatisfiableError is returned when the SNR root cannot be bracketed
// within the expansion budget.  It carries the best achieved value rather
// than silently substituting it.
type UnsatisfiableError struct {
	TargetSNR   float64
	AchievedSNR float64
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("solve: target SNR %.4g dB cannot be bracketed: best achieved %.4g dB", e.TargetSNR, e.AchievedSNR)
}

// snrTol is the dB slack below which an SNR difference counts as met.
const snrTol = 0.01

// Report carries the realized constraint values for a solve.  Violated
// constraints always show up here alongside the best-effort answer the
// priority policy produced.
type Report struct {
	SNR          float64    `desc:"achieved SNR in dB at the chosen scale"`
	SNRTarget    float64    `desc:"requested SNR in dB"`
	SNRShortfall float64    `desc:"SNRTarget - SNR when the rate ceiling was binding under Max priority, else 0"`
	MaxRate      float64    `desc:"realized maximum instantaneous rate per bin"`
	RateCeiling  float64    `desc:"requested maximum rate per bin"`
	RateExcess   float64    `desc:"MaxRate - RateCeiling when hitting the SNR target forced the ceiling to be exceeded under Mean priority, else 0"`
	RateRange    minmax.F64 `desc:"range of the final instantaneous rates"`
	Scale        float64    `desc:"chosen global scale on the loading template"`
	CapIters     int        `desc:"bisection iterations for the rate-ceiling root"`
	SNRIters     int        `desc:"bisection iterations for the SNR root"`
}

// Solution is the final observation model produced by a solve.  C and Bias
// are immutable from here on: sampling consumes them as-is.
type Solution struct {
	Scale    float64    `desc:"global scale applied to the loading template"`
	C        *mat.Dense `desc:"final n x d loading matrix, Scale * template"`
	Bias     []float64  `desc:"per-neuron bias matching the target mean rate"`
	LogRates *mat.Dense `desc:"final T x n log-rate trajectory"`
	Report   Report     `desc:"realized constraint values"`
}

// Rates returns the firing-rate trajectory exp(LogRates).
func (sl *Solution) Rates() *mat.Dense {
	return rates.Exp(sl.LogRates)
}

// Solver holds the constraints and search controls for the scale search.
type Solver struct {
	RateTgt   float64  `def:"0.01" desc:"target mean firing rate per bin for every neuron"`
	RateMax   float64  `def:"1" desc:"ceiling on the instantaneous rate per bin"`
	SNRTgt    float64  `def:"10" desc:"target SNR in dB"`
	Priority  Priority `desc:"which constraint wins when both cannot hold"`
	SInit     float64  `def:"1" desc:"initial scale for bracketing"`
	XTol      float64  `def:"1e-6" desc:"relative bracket width at which bisection stops"`
	MaxIter   int      `def:"80" desc:"bisection iteration budget"`
	MaxExpand int      `def:"60" desc:"bracket expansion budget"`
}

func (sv *Solver) Defaults() {
	sv.RateTgt = 0.01
	sv.RateMax = 1
	sv.SNRTgt = 10
	sv.Priority = Mean
	sv.SInit = 1
	sv.XTol = 1.0e-6
	sv.MaxIter = 80
	sv.MaxExpand = 60
}

func scaled(c0 *mat.Dense, s float64) *mat.Dense {
	var cs mat.Dense
	cs.Scale(s, c0)
	return &cs
}

// MaxRateAt returns the maximum instantaneous rate at scale s, with the bias
// re-solved for the target mean rate.  Monotone increasing in s.
func (sv *Solver) MaxRateAt(x, c0 *mat.Dense, s float64) float64 {
	cs := scaled(c0, s)
	b := rates.BiasForMeanRate(x, cs, sv.RateTgt)
	return rates.MaxRate(rates.LogEval(x, cs, b))
}

// SNRAt returns the achieved SNR in dB at scale s, with the bias re-solved
// for the target mean rate.  Monotone increasing in s; -Inf if the
// information matrix is singular.
func (sv *Solver) SNRAt(x, c0 *mat.Dense, s float64) float64 {
	cs := scaled(c0, s)
	b := rates.BiasForMeanRate(x, cs, sv.RateTgt)
	lam := rates.Eval(x, cs, b)
	snr, err := fisher.SNR(fisher.TimeAvg(cs, lam))
	if err != nil {
		return math.Inf(-1)
	}
	return snr
}

// Solve runs the scale search on a normalized T x d trajectory and an n x d
// loading template (direction only; magnitude is what Solve determines).
func (sv *Solver) Solve(x, c0 *mat.Dense) (*Solution, error) {
	_, d := x.Dims()
	n, cd := c0.Dims()
	if cd != d {
		return nil, fmt.Errorf("solve: loading template is %dx%d but trajectory has %d dims", n, cd, d)
	}
	// singularity is scale-invariant, so check once up front
	if math.IsInf(sv.SNRAt(x, c0, sv.SInit), -1) {
		return nil, fmt.Errorf("solve: information matrix is singular: loading template is rank-deficient")
	}

	fCap := func(s float64) float64 { return sv.MaxRateAt(x, c0, s) - sv.RateMax }
	fSNR := func(s float64) float64 { return sv.SNRAt(x, c0, s) - sv.SNRTgt }

	// rate-ceiling root: below any bracketable ceiling the cap is inactive
	sCap := math.Inf(1)
	capIters := 0
	if lo, _, ok := BracketDown(fCap, sv.SInit, sv.MaxExpand); ok {
		if hi, _, ok := BracketUp(fCap, 2*lo, sv.MaxExpand); ok {
			var err error
			sCap, capIters, err = Bisect("rate-ceiling", fCap, lo, hi, sv.XTol, sv.MaxIter)
			if err != nil {
				return nil, err
			}
		}
	}

	// SNR root
	lo, flo, ok := BracketDown(fSNR, sv.SInit, sv.MaxExpand)
	if !ok {
		return nil, &UnsatisfiableError{TargetSNR: sv.SNRTgt, AchievedSNR: flo + sv.SNRTgt}
	}
	hi, fhi, ok := BracketUp(fSNR, 2*lo, sv.MaxExpand)
	if !ok {
		return nil, &UnsatisfiableError{TargetSNR: sv.SNRTgt, AchievedSNR: fhi + sv.SNRTgt}
	}
	sSNR, snrIters, err := Bisect("snr", fSNR, lo, hi, sv.XTol, sv.MaxIter)
	if err != nil {
		return nil, err
	}

	s := sSNR
	if sv.Priority == Max && sCap < s {
		s = sCap
	}

	cs := scaled(c0, s)
	b := rates.BiasForMeanRate(x, cs, sv.RateTgt)
	lr := rates.LogEval(x, cs, b)
	lam := rates.Exp(lr)
	snr, err := fisher.SNR(fisher.TimeAvg(cs, lam))
	if err != nil {
		return nil, err
	}

	rp := Report{
		SNR:         snr,
		SNRTarget:   sv.SNRTgt,
		MaxRate:     rates.MaxRate(lr),
		RateCeiling: sv.RateMax,
		Scale:       s,
		CapIters:    capIters,
		SNRIters:    snrIters,
	}
	rp.RateRange.Set(math.Exp(mat.Min(lr)), rp.MaxRate)
	if sv.Priority == Max && snr < sv.SNRTgt-snrTol {
		rp.SNRShortfall = sv.SNRTgt - snr
		log.Printf("solve: rate ceiling %g binding: achieved SNR %.4g dB, %.4g dB short of target", sv.RateMax, snr, rp.SNRShortfall)
	}
	if sv.Priority == Mean && rp.MaxRate > sv.RateMax {
		rp.RateExcess = rp.MaxRate - sv.RateMax
		log.Printf("solve: max rate %.4g exceeds ceiling %.4g to reach SNR target %.4g dB", rp.MaxRate, sv.RateMax, sv.SNRTgt)
	}
	return &Solution{Scale: s, C: cs, Bias: b, LogRates: lr, Report: rp}, nil
}
