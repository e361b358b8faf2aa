// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rates evaluates the log-linear Poisson rate model

	lambda(t)_i = exp(C_i . x(t) + b_i)

and solves, in closed form, the per-neuron bias that matches a target mean
firing rate over the trajectory.  Everything here is a pure function: the
scale search calls these repeatedly inside its root-searches, so evaluation
works in log space with a clamped exponent to stay finite for scale
candidates far from the final value.
*/
package rates

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxExp bounds the magnitude of log-rates passed to exp, keeping rates
// strictly positive and finite for any scale candidate.
const MaxExp = 700.0

// LogEval returns the T x n log-rate matrix log lambda(t)_i = C_i.x(t) + b_i,
// clamped to +/- MaxExp.  x is T x d, c is n x d, b has length n.
func LogEval(x, c *mat.Dense, b []float64) *mat.Dense {
	nt, _ := x.Dims()
	n, _ := c.Dims()
	lr := mat.NewDense(nt, n, nil)
	lr.Mul(x, c.T())
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			v := lr.At(t, i) + b[i]
			if v > MaxExp {
				v = MaxExp
			} else if v < -MaxExp {
				v = -MaxExp
			}
			lr.Set(t, i, v)
		}
	}
	return lr
}

// Exp exponentiates a log-rate matrix elementwise.
func Exp(logRates *mat.Dense) *mat.Dense {
	nt, n := logRates.Dims()
	lam := mat.NewDense(nt, n, nil)
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			lam.Set(t, i, math.Exp(logRates.At(t, i)))
		}
	}
	return lam
}

// Eval returns the T x n firing-rate matrix lambda = exp(x C^T + b).
func Eval(x, c *mat.Dense, b []float64) *mat.Dense {
	return Exp(LogEval(x, c, b))
}

// BiasForMeanRate solves the per-neuron bias that makes each neuron's
// empirical mean rate over the trajectory equal rTgt:
//
//	b_i = ln(rTgt) + ln(T) - logsumexp_t(C_i . x(t))
//
// The log-sum-exp keeps the solve exact even when the linear drive spans
// hundreds of log units.
func BiasForMeanRate(x, c *mat.Dense, rTgt float64) []float64 {
	nt, _ := x.Dims()
	n, _ := c.Dims()
	u := mat.NewDense(nt, n, nil)
	u.Mul(x, c.T())
	b := make([]float64, n)
	col := make([]float64, nt)
	lt := math.Log(rTgt) + math.Log(float64(nt))
	for i := 0; i < n; i++ {
		mat.Col(col, i, u)
		b[i] = lt - floats.LogSumExp(col)
	}
	return b
}

// MaxRate returns the maximum instantaneous rate over all timepoints and
// neurons of a log-rate matrix.
func MaxRate(logRates *mat.Dense) float64 {
	return math.Exp(mat.Max(logRates))
}

// MeanRates returns the per-neuron mean rate (column means) of a rate matrix.
func MeanRates(lam *mat.Dense) []float64 {
	nt, n := lam.Dims()
	mr := make([]float64, n)
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			mr[i] += lam.At(t, i)
		}
	}
	for i := range mr {
		mr[i] /= float64(nt)
	}
	return mr
}
