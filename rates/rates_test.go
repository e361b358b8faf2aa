// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const difTol = 1.0e-12

func TestEvalHand(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, -1})
	c := mat.NewDense(2, 1, []float64{0.5, 2})
	b := []float64{math.Log(0.1), 0}
	lam := Eval(x, c, b)
	want := [][]float64{
		{0.1 * math.Exp(0.5), math.Exp(2)},
		{0.1 * math.Exp(-0.5), math.Exp(-2)},
	}
	for t0 := 0; t0 < 2; t0++ {
		for i := 0; i < 2; i++ {
			if dif := math.Abs(lam.At(t0, i) - want[t0][i]); dif > difTol {
				t.Errorf("lam[%d][%d] = %g, want %g", t0, i, lam.At(t0, i), want[t0][i])
			}
		}
	}
}

func TestBiasForMeanRate(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	nt, nd, n := 100, 2, 5
	x := mat.NewDense(nt, nd, nil)
	for t0 := 0; t0 < nt; t0++ {
		for j := 0; j < nd; j++ {
			x.Set(t0, j, rnd.NormFloat64())
		}
	}
	c := mat.NewDense(n, nd, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < nd; j++ {
			c.Set(i, j, rnd.NormFloat64())
		}
	}
	rTgt := 0.07
	b := BiasForMeanRate(x, c, rTgt)
	mr := MeanRates(Eval(x, c, b))
	for i, m := range mr {
		if math.Abs(m-rTgt) > 1.0e-12 {
			t.Errorf("neuron %d: mean rate %g, want %g", i, m, rTgt)
		}
	}
}

func TestClamp(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{5, -5})
	c := mat.NewDense(1, 1, []float64{1.0e6}) // far-from-final scale candidate
	b := []float64{0}
	lr := LogEval(x, c, b)
	if lr.At(0, 0) != MaxExp || lr.At(1, 0) != -MaxExp {
		t.Errorf("log-rates not clamped: %g, %g", lr.At(0, 0), lr.At(1, 0))
	}
	lam := Exp(lr)
	for t0 := 0; t0 < 2; t0++ {
		v := lam.At(t0, 0)
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("rate %g not positive finite", v)
		}
	}
	if mx := MaxRate(lr); math.IsInf(mx, 0) {
		t.Errorf("max rate overflowed")
	}
}
