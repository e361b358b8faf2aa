// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurofisher

import "fmt"

// ParamError indicates an out-of-range generation parameter.
type ParamError struct {
	Msg string
}

func (e *ParamError) Error() string { return "invalid parameter: " + e.Msg }

func paramf(format string, args ...any) *ParamError {
	return &ParamError{Msg: fmt.Sprintf(format, args...)}
}

// RateError indicates a non-positive or non-finite firing rate reaching the
// Poisson sampler.  The solver only ever produces strictly positive finite
// rates, so this is an internal-consistency failure, not a user input error.
type RateError struct {
	T      int
	Neuron int
	Rate   float64
}

func (e *RateError) Error() string {
	return fmt.Sprintf("invalid rate %g at timepoint %d, neuron %d", e.Rate, e.T, e.Neuron)
}
