// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import "github.com/QuintenW98/sedgen/interfaces"

// chemicalWeatheringPcg advances every crystal in every pcg one chem-state,
// dissolves crystals that fall below their new state's negative-volume
// threshold, compacts survivors back into (possibly shorter) pcgs, and
// rebuilds the interface-count matrix and every surviving pcg's breakage
// weights from scratch. A dissolved crystal in the interior of a
// pcg is not a gap: its former neighbors become directly adjacent,
// forming a genuine new interface, so counting proceeds on the compacted
// sequence directly.
func (m *Model) chemicalWeatheringPcg() (pcgsNew []*Pcg, mcgAdditions [][][]float64, residuePerMineral []float64, interfaceCounts [][]int) {
	nStates := len(m.Mcg)

	mcgAdditions = make([][][]float64, nStates)
	for s := range mcgAdditions {
		mcgAdditions[s] = make([][]float64, m.NMinerals)
		for mi := range mcgAdditions[s] {
			mcgAdditions[s][mi] = make([]float64, m.Bins.NBins+1)
		}
	}

	interfaceCounts = make([][]int, m.NMinerals)
	for a := range interfaceCounts {
		interfaceCounts[a] = make([]int, m.NMinerals)
	}

	residue1 := make([]float64, m.NMinerals)
	residue2 := make([]float64, m.NMinerals)

	for _, pcg := range m.Pcgs {
		var survMinerals, survSizes, survChem []int

		for i := 0; i < pcg.Len(); i++ {
			oldChem := pcg.ChemStates[i]
			newChem := oldChem + 1
			if newChem >= nStates {
				newChem = nStates - 1
			}
			mineral := pcg.Minerals[i]
			size := pcg.Sizes[i]

			threshold := m.Matrices.NegativeVolumeThresholds[newChem][mineral]
			if size < threshold {
				residue1[mineral] += m.Matrices.VolumeBinsMediansMatrix[oldChem][mineral][size]
				continue
			}

			// a crystal saturated at the last chem-state does not advance and
			// loses no volume this step
			if newChem > oldChem {
				residue2[mineral] += m.Matrices.VolumeChangeMatrix[newChem][mineral][size]
			}
			survMinerals = append(survMinerals, mineral)
			survSizes = append(survSizes, size)
			survChem = append(survChem, newChem)
		}

		switch len(survMinerals) {
		case 0:
			// entire pcg dissolved
		case 1:
			mcgAdditions[survChem[0]][survMinerals[0]][survSizes[0]]++
		default:
			sizeProb := interfaces.SizeProb(survSizes, m.Bins.SizeBinsMedians)
			strengthProb := interfaces.StrengthProb(m.ProportionsNormalized, survMinerals)
			constProb := interfaces.ConstantProb(sizeProb, strengthProb)

			pcgsNew = append(pcgsNew, &Pcg{
				Minerals:   survMinerals,
				Sizes:      survSizes,
				ChemStates: survChem,
				Probs:      constProb,
			})

			counts := interfaces.CountInterfaces(survMinerals, m.NMinerals)
			for a := range counts {
				for b := range counts[a] {
					interfaceCounts[a][b] += counts[a][b]
				}
			}
		}
	}

	residuePerMineral = make([]float64, m.NMinerals)
	for mi := range residuePerMineral {
		residuePerMineral[mi] = residue1[mi] + residue2[mi]
	}

	return pcgsNew, mcgAdditions, residuePerMineral, interfaceCounts
}
