// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interfaces

// LocationProb returns the location-weight ramp for a pcg of n crystals
// (n-1 interfaces): descending from floor(n/2) at the outermost interface
// down to 1 at the center, then ascending back to floor(n/2) at the other
// outermost interface. Interfaces towards the outside of a pcg are
// weighted more heavily, reflecting their higher chance of breakage.
// Returns nil for n<=1 (no interfaces).
func LocationProb(n int) []float64 {
	if n <= 1 {
		return nil
	}
	half := n / 2
	out := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dist := i
		if alt := n - 2 - i; alt < dist {
			dist = alt
		}
		out[i] = float64(half - dist)
	}
	return out
}

// StandardCases precomputes LocationProb for pcg lengths 1..nStandard so
// it can be looked up by length-1 instead of recomputed at selection
// time. Because pcgs only shrink under breakage, the table stays
// hit-heavy as the model evolves.
func StandardCases(nStandard int) [][]float64 {
	cases := make([][]float64, nStandard)
	for n := 1; n <= nStandard; n++ {
		cases[n-1] = LocationProb(n)
	}
	return cases
}
