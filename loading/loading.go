// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package loading synthesizes random loading matrices with controllable
cross-neuron coherence and sparsity.  Each neuron's loading row maps the
latent state to that neuron's log-rate contribution; coherence sets how
aligned the rows are with a single shared direction, and sparsity sets the
fraction of entries that are exactly zero.

The synthesized matrix is a direction template only: its overall magnitude is
fixed downstream by the scale search in the solve package, which preserves
the coherence and sparsity structure by applying a single global scale.
*/
package loading

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Params specify the structure of a synthesized loading matrix.
type Params struct {
	Coh    float64 `def:"0.5" min:"0" max:"1" desc:"target coherence: how aligned the neuron loading rows are with a shared direction -- 1 makes all rows parallel, 0 makes them independent"`
	Sparse float64 `def:"0.1" min:"0" max:"1" desc:"fraction of loading entries that are exactly zero"`
}

func (lp *Params) Defaults() {
	lp.Coh = 0.5
	lp.Sparse = 0.1
}

// Validate returns an error if either parameter is outside [0,1].
func (lp *Params) Validate() error {
	if lp.Coh < 0 || lp.Coh > 1 {
		return fmt.Errorf("loading: Coh = %g out of range [0,1]", lp.Coh)
	}
	if lp.Sparse < 0 || lp.Sparse > 1 {
		return fmt.Errorf("loading: Sparse = %g out of range [0,1]", lp.Sparse)
	}
	return nil
}

// Synthesize generates an n x d loading matrix from the given random stream.
// Each row is a convex combination of one shared unit direction (weight Coh)
// and its own independent unit direction (weight 1-Coh).  Exactly
// round(Sparse*n*d) entries, chosen by a random permutation, are then zeroed,
// and each row is rescaled to unit norm (rows zeroed entirely are left zero).
func (lp *Params) Synthesize(n, d int, rnd *rand.Rand) (*mat.Dense, error) {
	if err := lp.Validate(); err != nil {
		return nil, err
	}
	if n < 1 || d < 1 {
		return nil, fmt.Errorf("loading: n = %d, d = %d: both must be positive", n, d)
	}
	u := randUnit(d, rnd)
	cm := mat.NewDense(n, d, nil)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		v := randUnit(d, rnd)
		for j := range row {
			row[j] = lp.Coh*u[j] + (1-lp.Coh)*v[j]
		}
		cm.SetRow(i, row)
	}
	nz := int(math.Round(lp.Sparse * float64(n*d)))
	for _, k := range rnd.Perm(n * d)[:nz] {
		cm.Set(k/d, k%d, 0)
	}
	normRows(cm)
	return cm, nil
}

// randUnit draws a uniformly-random unit direction in d dimensions.
func randUnit(d int, rnd *rand.Rand) []float64 {
	v := make([]float64, d)
	for {
		for j := range v {
			v[j] = rnd.NormFloat64()
		}
		if nrm := floats.Norm(v, 2); nrm > 0 {
			floats.Scale(1/nrm, v)
			return v
		}
	}
}

// normRows rescales each row to unit norm, leaving all-zero rows at zero.
func normRows(cm *mat.Dense) {
	n, _ := cm.Dims()
	for i := 0; i < n; i++ {
		row := cm.RawRowView(i)
		if nrm := floats.Norm(row, 2); nrm > 0 {
			floats.Scale(1/nrm, row)
		}
	}
}

// Coherence returns the average pairwise cosine similarity among the nonzero
// rows of the loading matrix.
func Coherence(cm *mat.Dense) float64 {
	n, _ := cm.Dims()
	sum := 0.0
	cnt := 0
	for i := 0; i < n; i++ {
		ri := cm.RawRowView(i)
		ni := floats.Norm(ri, 2)
		if ni == 0 {
			continue
		}
		for j := i + 1; j < n; j++ {
			rj := cm.RawRowView(j)
			nj := floats.Norm(rj, 2)
			if nj == 0 {
				continue
			}
			sum += floats.Dot(ri, rj) / (ni * nj)
			cnt++
		}
	}
	if cnt == 0 {
		return 0
	}
	return sum / float64(cnt)
}

// Sparsity returns the fraction of exactly-zero entries in the matrix.
func Sparsity(cm *mat.Dense) float64 {
	n, d := cm.Dims()
	nz := 0
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if cm.At(i, j) == 0 {
				nz++
			}
		}
	}
	return float64(nz) / float64(n*d)
}
