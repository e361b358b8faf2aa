// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurofisher

import (
	"github.com/emer/etable/v2/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/emer/neurofisher/fisher"
	"github.com/emer/neurofisher/loading"
	"github.com/emer/neurofisher/solve"
	"github.com/emer/neurofisher/traj"
)

// Params are the top-level controls for observation generation.
type Params struct {
	NNeurons int            `def:"100" desc:"number of neurons n"`
	RateTgt  float64        `def:"0.01" desc:"target mean firing rate per bin for every neuron"`
	RateMax  float64        `def:"1" desc:"maximum instantaneous firing rate per bin"`
	Priority solve.Priority `desc:"which constraint wins when the rate ceiling and SNR target conflict"`
	Loading  loading.Params `view:"inline" desc:"coherence and sparsity of the synthesized loading matrix -- ignored when a template is supplied"`
	SNRTgt   float64        `def:"10" desc:"target SNR in dB"`
	Seed     uint64         `def:"1" desc:"random stream seed: identical inputs and seed reproduce identical observations"`
}

func (pr *Params) Defaults() {
	pr.NNeurons = 100
	pr.RateTgt = 0.01
	pr.RateMax = 1
	pr.Priority = solve.Mean
	pr.Loading.Defaults()
	pr.SNRTgt = 10
	pr.Seed = 1
}

// Validate returns a ParamError for any out-of-range parameter.
func (pr *Params) Validate() error {
	if pr.NNeurons < 1 {
		return paramf("NNeurons = %d must be positive", pr.NNeurons)
	}
	if pr.RateTgt <= 0 {
		return paramf("RateTgt = %g must be positive", pr.RateTgt)
	}
	if pr.RateMax <= pr.RateTgt {
		return paramf("RateMax = %g must exceed RateTgt = %g", pr.RateMax, pr.RateTgt)
	}
	if err := pr.Loading.Validate(); err != nil {
		return &ParamError{Msg: err.Error()}
	}
	return nil
}

// Result is everything a generation run produces.  All fields are written
// once; violated constraints appear in Report alongside the best-effort
// answer the priority policy produced.
type Result struct {
	Spikes    *etensor.Int64   `desc:"T x n spike counts"`
	C         *mat.Dense       `desc:"final n x d loading matrix"`
	Bias      []float64        `desc:"per-neuron bias in log-rate space"`
	Rates     *etensor.Float64 `desc:"T x n firing rates per bin"`
	SNR       float64          `desc:"achieved SNR in dB"`
	SNRPerDim []float64        `desc:"achieved SNR in dB per latent dimension"`
	Report    solve.Report     `desc:"realized constraint values from the scale search"`
}

// Generate synthesizes Poisson observations from the T x d latent trajectory
// x.  c0, if non-nil, is used as the loading direction template (its
// magnitude is re-solved); otherwise a template is synthesized from
// pr.Loading.  A nil pr uses Defaults.  The trajectory is normalized to the
// zero-mean, unit-variance contract first; a trajectory violating it is
// renormalized with a logged warning, never silently assumed.
func Generate(x *etensor.Float64, c0 *mat.Dense, pr *Params) (*Result, error) {
	if pr == nil {
		pr = &Params{}
		pr.Defaults()
	}
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	xn, err := traj.Normalize(x)
	if err != nil {
		return nil, err
	}
	nt := xn.Dim(0)
	d := xn.Dim(1)
	xd := mat.NewDense(nt, d, xn.Values)

	rnd := rand.New(rand.NewSource(pr.Seed))
	if c0 == nil {
		c0, err = pr.Loading.Synthesize(pr.NNeurons, d, rnd)
		if err != nil {
			return nil, err
		}
	} else {
		cn, cd := c0.Dims()
		if cn != pr.NNeurons || cd != d {
			return nil, traj.Shapef("loading template is %dx%d, want %dx%d", cn, cd, pr.NNeurons, d)
		}
	}

	sv := solve.Solver{}
	sv.Defaults()
	sv.RateTgt = pr.RateTgt
	sv.RateMax = pr.RateMax
	sv.SNRTgt = pr.SNRTgt
	sv.Priority = pr.Priority
	sol, err := sv.Solve(xd, c0)
	if err != nil {
		return nil, err
	}

	lam := sol.Rates()
	spikes, err := SampleSpikes(lam, rnd)
	if err != nil {
		return nil, err
	}
	perDim, err := fisher.SNRPerDim(fisher.TimeAvg(sol.C, lam))
	if err != nil {
		return nil, err
	}

	return &Result{
		Spikes:    spikes,
		C:         sol.C,
		Bias:      sol.Bias,
		Rates:     tensorFromDense(lam),
		SNR:       sol.Report.SNR,
		SNRPerDim: perDim,
		Report:    sol.Report,
	}, nil
}

func tensorFromDense(m *mat.Dense) *etensor.Float64 {
	nt, n := m.Dims()
	tsr := etensor.NewFloat64([]int{nt, n}, nil, []string{"Time", "Neuron"})
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			tsr.Values[t*n+i] = m.At(t, i)
		}
	}
	return tsr
}
