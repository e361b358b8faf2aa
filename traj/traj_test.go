// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package traj

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/etable/v2/etensor"
	"golang.org/x/exp/rand"
)

// difTol is the numerical difference tolerance for the normalization contract
const difTol = 1.0e-9

func randTraj(nt, nd int, seed uint64) *etensor.Float64 {
	rnd := rand.New(rand.NewSource(seed))
	x := etensor.NewFloat64([]int{nt, nd}, nil, []string{"Time", "Dim"})
	for i := range x.Values {
		x.Values[i] = 2.5*rnd.NormFloat64() + 1.3
	}
	return x
}

func TestNormalizeMoments(t *testing.T) {
	x := randTraj(200, 3, 7)
	xn, err := Normalize(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mean, sd, err := ColumnMoments(xn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := range mean {
		if math.Abs(mean[j]) > difTol {
			t.Errorf("col %d: mean %g not within %g of 0", j, mean[j], difTol)
		}
		if math.Abs(sd[j]*sd[j]-1) > difTol {
			t.Errorf("col %d: variance %g not within %g of 1", j, sd[j]*sd[j], difTol)
		}
	}
	if !IsNormalized(xn) {
		t.Errorf("IsNormalized false on normalized trajectory")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	xn, err := Normalize(randTraj(100, 2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xn2, err := Normalize(xn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if xn2 != xn {
		t.Errorf("second Normalize should return the input tensor unchanged")
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	var se *ShapeError

	x := randTraj(10, 2, 1)
	for tt := 0; tt < 10; tt++ {
		x.Values[tt*2+1] = 4 // constant column
	}
	if _, err := Normalize(x); !errors.As(err, &se) {
		t.Errorf("constant column: want ShapeError, got %v", err)
	}

	one := etensor.NewFloat64([]int{1, 2}, nil, []string{"Time", "Dim"})
	if _, err := Normalize(one); !errors.As(err, &se) {
		t.Errorf("single timepoint: want ShapeError, got %v", err)
	}

	flat := etensor.NewFloat64([]int{10}, nil, []string{"Time"})
	if _, err := Normalize(flat); !errors.As(err, &se) {
		t.Errorf("1D input: want ShapeError, got %v", err)
	}
}
