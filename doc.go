// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package neurofisher synthesizes Poisson-distributed neural spike-count
observations from a latent trajectory, such that the population-level Fisher
Information implies a prescribed signal-to-noise ratio (SNR, in dB) on the
trajectory.  It produces controlled synthetic datasets for validating
latent-state estimators: supply a trajectory and firing-rate constraints, get
back spikes, the observation model, and the realized SNR.

The observation model is log-linear Poisson: lambda(t)_i = exp(C_i.x(t) + b_i)
for loading matrix C and bias b.  Generate runs the full pipeline: normalize
the trajectory, synthesize a loading template if none is supplied, search for
the loading scale that satisfies the per-bin rate and SNR constraints under
the requested priority, then sample spikes and report the achieved SNR.

The pieces live in sub-packages:

* traj: the zero-mean, unit-variance contract on the latent trajectory.

* loading: random loading matrices with controllable coherence and sparsity.

* rates: the log-linear rate model and the closed-form bias solve matching a
target mean firing rate.

* solve: the scale search meeting the rate ceiling and SNR target under a
priority policy, built on a reusable monotone bisection.

* fisher: Fisher-Information matrices, the Cramer-Rao SNR in dB, and the
closed-form suggested-SNR helper.
*/
package neurofisher
