// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fisher computes the Fisher Information of the latent state under the
log-linear Poisson observation model, and reduces it to a decibel-scale SNR
against the unit-variance normalization of the trajectory.

For a loading matrix C and instantaneous rates lambda(t), the per-timepoint
information is I(t) = C^T diag(lambda(t)) C, a d x d positive-semidefinite
matrix.  Aggregation averages I(t) over the observation window; the
Cramer-Rao bound I^-1 then gives the per-dimension and scalar SNR figures.
The per-timepoint matrices are exposed for downstream Cramer-Rao bound
estimation.
*/
package fisher

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Instantaneous returns the d x d information matrix C^T diag(lam) C for one
// timepoint, where c is n x d and lam holds the n instantaneous rates.
func Instantaneous(c *mat.Dense, lam []float64) *mat.SymDense {
	n, d := c.Dims()
	info := mat.NewSymDense(d, nil)
	for i := 0; i < n; i++ {
		li := lam[i]
		if li == 0 {
			continue
		}
		for j := 0; j < d; j++ {
			cij := c.At(i, j)
			if cij == 0 {
				continue
			}
			for k := j; k < d; k++ {
				info.SetSym(j, k, info.At(j, k)+li*cij*c.At(i, k))
			}
		}
	}
	return info
}

// AllTimes returns the per-timepoint information matrices for a T x n rate
// matrix.
func AllTimes(c, lam *mat.Dense) []*mat.SymDense {
	nt, n := lam.Dims()
	row := make([]float64, n)
	out := make([]*mat.SymDense, nt)
	for t := 0; t < nt; t++ {
		mat.Row(row, t, lam)
		out[t] = Instantaneous(c, row)
	}
	return out
}

// TimeAvg returns the time-averaged information matrix.  Since the sum over
// timepoints factors through the rate diagonal, this is just Instantaneous at
// the per-neuron mean rates.
func TimeAvg(c, lam *mat.Dense) *mat.SymDense {
	nt, n := lam.Dims()
	mean := make([]float64, n)
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			mean[i] += lam.At(t, i)
		}
	}
	for i := range mean {
		mean[i] /= float64(nt)
	}
	return Instantaneous(c, mean)
}

// CRB returns the Cramer-Rao bound matrix, the inverse of the information
// matrix.  A singular information matrix (rank-deficient loading) is an
// error; an ill-conditioned but invertible one is accepted.
func CRB(info *mat.SymDense) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(info); err != nil {
		if c, ok := err.(mat.Condition); !ok || math.IsInf(float64(c), 1) {
			return nil, fmt.Errorf("fisher: information matrix is singular: %w", err)
		}
	}
	return &inv, nil
}

// SNR returns the scalar SNR in dB implied by an aggregated information
// matrix: 10*log10(d / trace(I^-1)), the ratio of the unit per-dimension
// signal variance to the mean Cramer-Rao variance bound.
func SNR(info *mat.SymDense) (float64, error) {
	inv, err := CRB(info)
	if err != nil {
		return 0, err
	}
	d, _ := inv.Dims()
	tr := mat.Trace(inv)
	if tr <= 0 || math.IsInf(tr, 0) || math.IsNaN(tr) {
		return 0, fmt.Errorf("fisher: Cramer-Rao trace %g is not positive finite", tr)
	}
	return 10 * math.Log10(float64(d)/tr), nil
}

// SNRPerDim returns the per-latent-dimension SNR in dB:
// 10*log10(1 / [I^-1]_kk) against the unit signal variance of dimension k.
func SNRPerDim(info *mat.SymDense) ([]float64, error) {
	inv, err := CRB(info)
	if err != nil {
		return nil, err
	}
	d, _ := inv.Dims()
	snr := make([]float64, d)
	for k := 0; k < d; k++ {
		v := inv.At(k, k)
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("fisher: Cramer-Rao variance %g for dim %d is not positive finite", v, k)
		}
		snr[k] = 10 * math.Log10(1/v)
	}
	return snr, nil
}

// SuggestedSNR returns the closed-form SNR (dB) reachable at the rate
// ceiling for a population of n neurons in d latent dimensions with target
// mean rate rTgt and max rate rMax per bin:
//
//	10*log10(rTgt*n/d * 2*ln(rMax/rTgt))
//
// It assumes unit-norm loading rows and a unit-variance trajectory, and is
// the reference against which the aggregation rule above is pinned.
func SuggestedSNR(rTgt, rMax float64, n, d int) float64 {
	return 10 * math.Log10(rTgt*float64(n)/float64(d)*2*math.Log(rMax/rTgt))
}
