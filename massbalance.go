// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import "gonum.org/v1/gonum/floats"

// volPCG sums the median volume of every crystal currently held in a pcg,
// at its current chem-state.
func (m *Model) volPCG() float64 {
	var total float64
	for _, pcg := range m.Pcgs {
		for i := 0; i < pcg.Len(); i++ {
			s, mi, k := pcg.ChemStates[i], pcg.Minerals[i], pcg.Sizes[i]
			total += m.Matrices.VolumeBinsMediansMatrix[s][mi][k]
		}
	}
	return total
}

// volMCG sums the median volume of every mcg count across every chem-state,
// mineral and bin.
func (m *Model) volMCG() float64 {
	var total float64
	for s := range m.Mcg {
		for mi := range m.Mcg[s] {
			for k, count := range m.Mcg[s][mi] {
				total += count * m.Matrices.VolumeBinsMediansMatrix[s][mi][k]
			}
		}
	}
	return total
}

// sumInts is the integer counterpart of floats.Sum, which only covers
// float64 slices.
func sumInts(xs []int) int {
	var total int
	for _, x := range xs {
		total += x
	}
	return total
}

// massBalance returns the pcg volume + mcg volume + the residue
// accumulated so far across intra-cb, chem_pcg and chem_mcg, summing the
// per-mineral residue vectors down to a scalar internally. The result is
// constant across steps up to floating-point summation error.
func (m *Model) massBalance() float64 {
	residue := sumResidueAdditions(m.Evolution.ResidueAdditions) +
		sumResidueAdditions(m.Evolution.PCGChemResidueAdditions) +
		sumResidueAdditions(m.Evolution.McgChemResidueAdditions)
	return m.volPCG() + m.volMCG() + residue
}

// sumResidueAdditions sums a [step][mineral] residue log across both axes.
func sumResidueAdditions(additions [][]float64) float64 {
	var total float64
	for _, perMineral := range additions {
		total += floats.Sum(perMineral)
	}
	return total
}

// CalculateActualVolumes returns, per mineral, the volume fraction of
// ParentRockVolume held by the crystals of the first pcg in Pcgs. Right
// after New that pcg is the whole initial crystal population, and the
// result tracks ModalMineralogy up to CSD batch overshoot and bin
// quantization; after weathering it covers that one pcg only.
func (m *Model) CalculateActualVolumes() []float64 {
	out := make([]float64, m.NMinerals)
	if len(m.Pcgs) == 0 {
		return out
	}
	initial := m.Pcgs[0]
	for i := 0; i < initial.Len(); i++ {
		mi, k := initial.Minerals[i], initial.Sizes[i]
		out[mi] += m.Bins.VolumeBinsMedians[k]
	}
	for mi := range out {
		out[mi] /= m.Config.ParentRockVolume
	}
	return out
}

// CalculateMassBalanceDifference returns the step-to-step deltas of the
// recorded mass balance, one entry per step transition.
func (m *Model) CalculateMassBalanceDifference() []float64 {
	mb := m.Evolution.MassBalance
	if len(mb) < 2 {
		return nil
	}
	out := make([]float64, len(mb)-1)
	for i := range out {
		out[i] = mb[i+1] - mb[i]
	}
	return out
}

// PCGNumberProportions returns, across every remaining pcg, the normalized
// count of crystals per mineral.
func (m *Model) PCGNumberProportions() []float64 {
	counts := make([]float64, m.NMinerals)
	for _, pcg := range m.Pcgs {
		for _, mi := range pcg.Minerals {
			counts[mi]++
		}
	}
	total := floats.Sum(counts)
	if total == 0 {
		return counts
	}
	floats.Scale(1/total, counts)
	return counts
}

// PCGModalMineralogy returns, across every remaining pcg, the volumetric
// proportion of each mineral.
func (m *Model) PCGModalMineralogy() []float64 {
	volumes := make([]float64, m.NMinerals)
	for _, pcg := range m.Pcgs {
		for i := 0; i < pcg.Len(); i++ {
			mi, k := pcg.Minerals[i], pcg.Sizes[i]
			volumes[mi] += m.Bins.VolumeBinsMedians[k]
		}
	}
	total := floats.Sum(volumes)
	if total == 0 {
		return volumes
	}
	floats.Scale(1/total, volumes)
	return volumes
}
