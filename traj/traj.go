// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package traj enforces the zero-mean, unit-variance contract on latent
trajectories.  The log-linear observation model downstream assumes unit
signal variance per latent dimension, so the Fisher-Information SNR is only
meaningful relative to a normalized trajectory.
*/
package traj

import (
	"fmt"
	"log"
	"math"

	"github.com/emer/etable/v2/etensor"
	"gonum.org/v1/gonum/stat"
)

// Tol is the tolerance on per-column mean and variance within which a
// trajectory counts as already normalized.
const Tol = 1.0e-9

// constSD is the standard deviation below which a column is treated as
// constant, leaving its scale undefined.
const constSD = 1.0e-12

// ShapeError indicates a malformed or degenerate array: not 2D, fewer than
// 2 timepoints, a constant column, or mismatched dimensions.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return "invalid shape: " + e.Msg }

// Shapef returns a ShapeError with a formatted message.
func Shapef(format string, args ...any) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// ColumnMoments returns the per-column empirical mean and population standard
// deviation of a 2D timepoints x dims tensor.
func ColumnMoments(x *etensor.Float64) (mean, sd []float64, err error) {
	if x.NumDims() != 2 {
		return nil, nil, Shapef("trajectory must be 2D (timepoints, dims), got %d dims", x.NumDims())
	}
	nt := x.Dim(0)
	nd := x.Dim(1)
	if nt < 2 {
		return nil, nil, Shapef("trajectory has %d timepoints, need at least 2 for variance", nt)
	}
	mean = make([]float64, nd)
	sd = make([]float64, nd)
	col := make([]float64, nt)
	for j := 0; j < nd; j++ {
		for t := 0; t < nt; t++ {
			col[t] = x.Values[t*nd+j]
		}
		mean[j] = stat.Mean(col, nil)
		vr := 0.0
		for t := 0; t < nt; t++ {
			dv := col[t] - mean[j]
			vr += dv * dv
		}
		sd[j] = math.Sqrt(vr / float64(nt))
	}
	return mean, sd, nil
}

// IsNormalized reports whether every column of x has mean within Tol of 0
// and variance within Tol of 1.
func IsNormalized(x *etensor.Float64) bool {
	mean, sd, err := ColumnMoments(x)
	if err != nil {
		return false
	}
	for j := range mean {
		if math.Abs(mean[j]) > Tol || math.Abs(sd[j]*sd[j]-1) > Tol {
			return false
		}
	}
	return true
}

// Normalize standardizes each column of the timepoints x dims trajectory to
// mean 0 and variance 1.  A trajectory already within Tol is returned
// unchanged (the same tensor), so Normalize is idempotent.  Fewer than 2
// timepoints or a constant column return a ShapeError.
func Normalize(x *etensor.Float64) (*etensor.Float64, error) {
	mean, sd, err := ColumnMoments(x)
	if err != nil {
		return nil, err
	}
	for j := range sd {
		if sd[j] < constSD {
			return nil, Shapef("trajectory column %d is constant: scale undefined", j)
		}
	}
	norm := true
	for j := range mean {
		if math.Abs(mean[j]) > Tol || math.Abs(sd[j]*sd[j]-1) > Tol {
			norm = false
			break
		}
	}
	if norm {
		return x, nil
	}
	log.Println("traj.Normalize: trajectory not zero-mean, unit-variance: normalizing")
	nt := x.Dim(0)
	nd := x.Dim(1)
	y := x.Clone().(*etensor.Float64)
	for t := 0; t < nt; t++ {
		for j := 0; j < nd; j++ {
			y.Values[t*nd+j] = (x.Values[t*nd+j] - mean[j]) / sd[j]
		}
	}
	return y, nil
}
