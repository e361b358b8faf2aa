// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurofisher

import (
	"math"

	"github.com/emer/etable/v2/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleSpikes draws one independent Poisson count per (timepoint, neuron)
// cell of the T x n rate matrix, from the given random stream.  Every rate
// must be strictly positive and finite; anything else is a RateError.
func SampleSpikes(lam *mat.Dense, rnd *rand.Rand) (*etensor.Int64, error) {
	nt, n := lam.Dims()
	y := etensor.NewInt64([]int{nt, n}, nil, []string{"Time", "Neuron"})
	pois := distuv.Poisson{Src: rnd}
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			l := lam.At(t, i)
			if l <= 0 || math.IsInf(l, 0) || math.IsNaN(l) {
				return nil, &RateError{T: t, Neuron: i, Rate: l}
			}
			pois.Lambda = l
			y.Values[t*n+i] = int64(pois.Rand())
		}
	}
	return y, nil
}
