// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interfaces

import "gonum.org/v1/gonum/floats"

// SizeProb returns, for a crystal sequence with bin labels crystalBins, the
// "size weight" of each of its len-1 interfaces: the sum of the two
// flanking crystals' median size.
func SizeProb(crystalBins []int, sizeBinsMedians []float64) []float64 {
	if len(crystalBins) < 2 {
		return nil
	}
	out := make([]float64, len(crystalBins)-1)
	for i := 0; i < len(out); i++ {
		out[i] = sizeBinsMedians[crystalBins[i]] + sizeBinsMedians[crystalBins[i+1]]
	}
	return out
}

// StrengthProb returns, for a mineral sequence arr, the "strength weight"
// of each of its len-1 interfaces: the row-normalized predicted interface
// proportion between the two flanking minerals.
func StrengthProb(proportionsNormalized [][]float64, arr []int) []float64 {
	if len(arr) < 2 {
		return nil
	}
	out := make([]float64, len(arr)-1)
	for i := 0; i < len(out); i++ {
		out[i] = proportionsNormalized[arr[i]][arr[i+1]]
	}
	return out
}

// ConstantProb combines size and strength weights into the constant
// per-interface weight C = Z/S, stored once per interface
// and reused at every selection.
func ConstantProb(sizeProb, strengthProb []float64) []float64 {
	out := make([]float64, len(sizeProb))
	for i := range out {
		out[i] = sizeProb[i] / strengthProb[i]
	}
	return out
}

// Normalize returns a copy of w scaled to sum to 1.
func Normalize(w []float64) []float64 {
	out := append([]float64(nil), w...)
	sum := floats.Sum(out)
	if sum == 0 {
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

// NormalizedProbability combines a location-weight table with the
// per-interface constant weight (L*C), then normalizes to sum to 1
//.
func NormalizedProbability(location, constProb []float64) []float64 {
	w := make([]float64, len(constProb))
	for i := range w {
		w[i] = location[i] * constProb[i]
	}
	return Normalize(w)
}

// SelectInterface draws the split index for inter-crystal breakage:
// argmax(u < cumsum(probs)) + 1. The +1 guarantees at least one crystal
// ends up on the left side of the split.
func SelectInterface(u float64, probs []float64) int {
	cum := 0.0
	for i, p := range probs {
		cum += p
		if u < cum {
			return i + 1
		}
	}
	return len(probs)
}

// InterfacesAbove returns the indices of all interfaces whose normalized
// probability strictly exceeds the probability of the selected interface,
// used when multi-pcg breakage is enabled.
func InterfacesAbove(probs []float64, selected int) []int {
	threshold := probs[selected]
	var out []int
	for i, p := range probs {
		if p > threshold {
			out = append(out, i)
		}
	}
	return out
}
