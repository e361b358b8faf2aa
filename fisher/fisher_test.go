// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fisher

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const difTol = 1.0e-9

func TestInstantaneousHand(t *testing.T) {
	c := mat.NewDense(2, 2, []float64{
		1, 0,
		1, 1,
	})
	lam := []float64{2, 3}
	info := Instantaneous(c, lam)
	// 2*[1 0; 0 0] + 3*[1 1; 1 1] = [5 3; 3 3]
	want := [][]float64{{5, 3}, {3, 3}}
	for j := 0; j < 2; j++ {
		for k := 0; k < 2; k++ {
			if dif := math.Abs(info.At(j, k) - want[j][k]); dif > difTol {
				t.Errorf("info[%d][%d] = %g, want %g", j, k, info.At(j, k), want[j][k])
			}
		}
	}
}

func TestAllTimesTimeAvg(t *testing.T) {
	c := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	lam := mat.NewDense(2, 3, []float64{
		0.1, 0.2, 0.3,
		0.3, 0.4, 0.1,
	})
	all := AllTimes(c, lam)
	if len(all) != 2 {
		t.Fatalf("AllTimes returned %d matrices, want 2", len(all))
	}
	avg := TimeAvg(c, lam)
	for j := 0; j < 2; j++ {
		for k := 0; k < 2; k++ {
			m := 0.5 * (all[0].At(j, k) + all[1].At(j, k))
			if dif := math.Abs(avg.At(j, k) - m); dif > difTol {
				t.Errorf("TimeAvg[%d][%d] = %g, want mean of AllTimes %g", j, k, avg.At(j, k), m)
			}
		}
	}
}

func TestSNRIsotropic(t *testing.T) {
	// 10 repetitions of each scaled basis vector: info = reps*rate*s^2*I
	d, reps := 2, 10
	s, rate := 1.5, 0.2
	n := d * reps
	c := mat.NewDense(n, d, nil)
	lam := make([]float64, n)
	for i := 0; i < n; i++ {
		c.Set(i, i%d, s)
		lam[i] = rate
	}
	info := Instantaneous(c, lam)
	snr, err := SNR(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 10 * math.Log10(float64(reps)*rate*s*s)
	if math.Abs(snr-want) > difTol {
		t.Errorf("isotropic SNR %g, want %g", snr, want)
	}
	per, err := SNRPerDim(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k, v := range per {
		if math.Abs(v-want) > difTol {
			t.Errorf("per-dim SNR[%d] = %g, want %g", k, v, want)
		}
	}
}

func TestSNRSingular(t *testing.T) {
	// second latent dimension unobserved: information is singular
	c := mat.NewDense(3, 2, []float64{
		1, 0,
		0.5, 0,
		2, 0,
	})
	lam := []float64{0.1, 0.1, 0.1}
	if _, err := SNR(Instantaneous(c, lam)); err == nil {
		t.Errorf("singular information should error")
	}
}

func TestSuggestedSNR(t *testing.T) {
	got := SuggestedSNR(0.05, 0.5, 20, 2)
	want := 10 * math.Log10(0.05*20/2*2*math.Log(0.5/0.05))
	if math.Abs(got-want) > 1.0e-12 {
		t.Errorf("SuggestedSNR = %g, want %g", got, want)
	}
}
