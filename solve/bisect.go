// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"fmt"
	"math"
)

// ConvergenceError is returned when a bounded root-search exhausts its
// iteration budget before reaching tolerance.  A stale estimate is never
// returned in its place.
type ConvergenceError struct {
	What  string
	Iters int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("solve: %s root-search did not converge within %d iterations", e.What, e.Iters)
}

// Bisect finds the root of a monotone-increasing scalar function f on the
// positive bracket [lo, hi], with f(lo) <= 0 <= f(hi).  Midpoints are
// geometric (sqrt(lo*hi)), which suits the exponential rate model where the
// interesting scales span orders of magnitude.  Returns the root once the
// bracket's relative width falls below xtol, along with the iterations used;
// exceeding maxIter is a ConvergenceError.
func Bisect(what string, f func(float64) float64, lo, hi, xtol float64, maxIter int) (float64, int, error) {
	for i := 0; i < maxIter; i++ {
		if hi/lo-1 <= xtol {
			return math.Sqrt(lo * hi), i, nil
		}
		mid := math.Sqrt(lo * hi)
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, maxIter, &ConvergenceError{What: what, Iters: maxIter}
}

// BracketUp doubles hi until f(hi) >= 0, at most maxExpand times.  It
// returns the final hi, f(hi), and whether a sign change was found.
func BracketUp(f func(float64) float64, hi float64, maxExpand int) (float64, float64, bool) {
	fv := f(hi)
	for i := 0; i < maxExpand && fv < 0; i++ {
		hi *= 2
		fv = f(hi)
	}
	return hi, fv, fv >= 0
}

// BracketDown halves lo until f(lo) <= 0, at most maxExpand times.  It
// returns the final lo, f(lo), and whether a sign change was found.
func BracketDown(f func(float64) float64, lo float64, maxExpand int) (float64, float64, bool) {
	fv := f(lo)
	for i := 0; i < maxExpand && fv > 0; i++ {
		lo /= 2
		fv = f(lo)
	}
	return lo, fv, fv <= 0
}
