// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import (
	"sort"

	"github.com/QuintenW98/sedgen/interfaces"
	"github.com/QuintenW98/sedgen/prng"
)

// interCrystalBreakage selects one (or, with EnableMultiPCGBreakage, many)
// interface per pcg and splits the pcg there, promoting any length-1
// fragment straight into mcg. The RNG seed for the per-pcg uniform draw is
// step itself, with one draw requested per pcg plus one spare.
func (m *Model) interCrystalBreakage(step int) (pcgsNew []*Pcg, mcgAdditions [][][]float64) {
	stream := prng.New(int64(step))
	draws := stream.Floats(m.pcgCountBefore(step) + 1)

	mcgAdditions = make([][][]float64, len(m.Mcg))
	for s := range mcgAdditions {
		mcgAdditions[s] = make([][]float64, m.NMinerals)
		for mi := range mcgAdditions[s] {
			mcgAdditions[s][mi] = make([]float64, m.Bins.NBins+1)
		}
	}

	for i, pcg := range m.Pcgs {
		length := pcg.Len()

		var probNormalized []float64
		if *m.Config.EnableInterfaceLocationProb {
			var location []float64
			if length <= m.Config.NStandardCases {
				location = m.StandardLocationCases[length-1]
			} else {
				location = interfaces.LocationProb(length)
			}
			probNormalized = interfaces.NormalizedProbability(location, pcg.Probs)
		} else {
			probNormalized = interfaces.Normalize(pcg.Probs)
		}

		split := interfaces.SelectInterface(draws[i], probNormalized)

		positions := []int{split}
		if m.Config.EnableMultiPCGBreakage {
			above := interfaces.InterfacesAbove(probNormalized, split-1)
			set := map[int]bool{split: true}
			for _, idx := range above {
				set[idx+1] = true
			}
			positions = positions[:0]
			for p := range set {
				positions = append(positions, p)
			}
			sort.Ints(positions)
		}

		for _, p := range positions {
			m.InterfaceCounts[pcg.Minerals[p-1]][pcg.Minerals[p]]--
		}

		for _, fragment := range splitPcg(pcg, positions) {
			if fragment.Len() == 1 {
				s, mi, k := fragment.ChemStates[0], fragment.Minerals[0], fragment.Sizes[0]
				mcgAdditions[s][mi][k]++
				continue
			}
			pcgsNew = append(pcgsNew, fragment)
		}
	}

	return pcgsNew, mcgAdditions
}

// splitPcg cuts pcg at each (ascending, unique, within [1, pcg.Len()-1])
// position in positions, returning the resulting fragments in order. A
// split at position p consumes (drops) the interface at Probs[p-1].
func splitPcg(pcg *Pcg, positions []int) []*Pcg {
	fragments := make([]*Pcg, 0, len(positions)+1)
	prev := 0
	for _, p := range positions {
		fragments = append(fragments, sliceFragment(pcg, prev, p))
		prev = p
	}
	fragments = append(fragments, sliceFragment(pcg, prev, pcg.Len()))
	return fragments
}

func sliceFragment(pcg *Pcg, lo, hi int) *Pcg {
	probsHi := hi - 1
	if probsHi < lo {
		probsHi = lo
	}
	return &Pcg{
		Minerals:   append([]int(nil), pcg.Minerals[lo:hi]...),
		Sizes:      append([]int(nil), pcg.Sizes[lo:hi]...),
		ChemStates: append([]int(nil), pcg.ChemStates[lo:hi]...),
		Probs:      append([]float64(nil), pcg.Probs[lo:probsHi]...),
	}
}
