// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package prng supplies one seed-scoped random stream per call site, the
// way the weathering engine's determinism requires: a fresh, isolated,
// reproducible generator for the CSD-batch counter, the constant
// interface-transition seed, and the per-step inter-crystal-breakage seed.
package prng

import "math/rand"

// InterfaceTransitionSeed is the fixed seed used when sampling the
// categorical mineral transitions that realize the interface array.
const InterfaceTransitionSeed = 911

// Stream wraps an isolated *rand.Rand seeded for one call site.
type Stream struct {
	Src *rand.Rand
}

// New returns a fresh stream seeded with seed.
func New(seed int64) *Stream {
	return &Stream{Src: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	return s.Src.Float64()
}

// Floats fills and returns a slice of n uniform draws in [0, 1).
func (s *Stream) Floats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Src.Float64()
	}
	return out
}
