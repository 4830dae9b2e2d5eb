// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import "gonum.org/v1/gonum/floats"

// defaultOperations is the step order run when Weathering is called with a
// nil/empty operations list.
var defaultOperations = []string{"intra_cb", "inter_cb", "chem_mcg", "chem_pcg"}

// Weathering runs the per-step operator loop (C10): intra-crystal breakage,
// inter-crystal breakage, and chemical weathering of mcg and pcg, in
// whatever order operations names, for up to timesteps steps (clamped to
// the Config.NTimesteps the model's arrays were sized for). An unrecognized
// operator name is reported as an UnknownOperation warning and skipped.
// When inplace is false, m is left untouched and a clone is evolved and
// returned instead.
func (m *Model) Weathering(operations []string, timesteps int, inplace bool) (*Model, error) {
	if len(operations) == 0 {
		operations = defaultOperations
	}
	if timesteps <= 0 || timesteps > m.Config.NTimesteps {
		timesteps = m.Config.NTimesteps
	}

	target := m
	if !inplace {
		target = m.clone()
	}

	for step := 0; step < timesteps; step++ {
		var mcgBrokenThisStep float64
		residueThisStep := make([]float64, target.NMinerals)
		residueCountThisStep := make([]int, target.NMinerals)
		pcgChemResidueThisStep := make([]float64, target.NMinerals)
		mcgChemResidueThisStep := make([]float64, target.NMinerals)

		for _, op := range operations {
			switch op {
			case "intra_cb":
				mcgNew, residue, residueCount := target.intraCrystalBreakage(step)
				target.Mcg = mcgNew
				residueThisStep = residue
				residueCountThisStep = residueCount
				mcgBrokenThisStep = sumMcg(target.Mcg)

			case "inter_cb":
				pcgsNew, mcgAdditions := target.interCrystalBreakage(step)
				target.Pcgs = pcgsNew
				target.Mcg = addMcg(target.Mcg, mcgAdditions)

				if len(target.Pcgs) == 0 {
					target.recordStep(step, mcgBrokenThisStep, residueThisStep,
						residueCountThisStep, pcgChemResidueThisStep, mcgChemResidueThisStep)
					target.Truncated = true
					target.StoppedAtStep = step + 1
					target.Evolution.truncate(step + 1)
					return target, nil
				}

			case "chem_mcg":
				mcgNew, residuePerMineral, warning := target.chemicalWeatheringMcg()
				target.Mcg = mcgNew
				mcgChemResidueThisStep = residuePerMineral
				if warning != nil {
					target.Warnings = append(target.Warnings, warning)
				}

			case "chem_pcg":
				if step == 0 {
					continue
				}
				pcgsNew, mcgAdditions, residuePerMineral, interfaceCounts := target.chemicalWeatheringPcg()
				target.Pcgs = pcgsNew
				target.Mcg = addMcg(target.Mcg, mcgAdditions)
				target.InterfaceCounts = interfaceCounts
				pcgChemResidueThisStep = residuePerMineral

			default:
				target.Warnings = append(target.Warnings, newError(UnknownOperation,
					"sedgen: %q is not a recognized weathering operation, skipping", op))
			}
		}

		target.recordStep(step, mcgBrokenThisStep, residueThisStep,
			residueCountThisStep, pcgChemResidueThisStep, mcgChemResidueThisStep)

		if len(target.Pcgs) == 0 {
			target.Truncated = true
			target.StoppedAtStep = step + 1
			target.Evolution.truncate(step + 1)
			break
		}
	}

	return target, nil
}

// recordStep appends this step's totals into the evolution logs. residue,
// pcgChemResidue and mcgChemResidue are per-mineral vectors.
func (m *Model) recordStep(step int, mcgBroken float64, residue []float64, residueCount []int, pcgChemResidue, mcgChemResidue []float64) {
	copy(m.Residue[step], residue)
	copy(m.ResidueCount[step], residueCount)

	m.Evolution.McgBrokenAdditions[step] = mcgBroken
	m.Evolution.ResidueAdditions[step] = append([]float64(nil), residue...)
	m.Evolution.ResidueCountAdditions[step] = sumInts(residueCount)
	m.Evolution.PCGAdditions[step] = len(m.Pcgs)
	m.Evolution.MCGAdditions[step] = sumMcg(m.Mcg)
	m.Evolution.PCGCompEvolution[step] = clonePcgs(m.Pcgs)
	m.Evolution.PCGSizeEvolution[step] = pcgSizes(m.Pcgs)
	m.Evolution.PCGChemResidueAdditions[step] = append([]float64(nil), pcgChemResidue...)
	m.Evolution.McgChemResidueAdditions[step] = append([]float64(nil), mcgChemResidue...)
	m.Evolution.McgEvolution[step] = sumMcgOverStates(m.Mcg, m.NMinerals, m.Bins.NBins+1)
	m.Evolution.MassBalance[step] = m.massBalance()
}

// pcgSizes returns, in order, the crystal count of every currently
// surviving pcg.
func pcgSizes(pcgs []*Pcg) []int {
	out := make([]int, len(pcgs))
	for i, p := range pcgs {
		out[i] = p.Len()
	}
	return out
}

func sumMcg(mcg [][][]float64) float64 {
	var total float64
	for _, byMineral := range mcg {
		for _, row := range byMineral {
			total += floats.Sum(row)
		}
	}
	return total
}

// sumMcgOverStates collapses the chem-state axis, matching np.sum(mcg, axis=0).
func sumMcgOverStates(mcg [][][]float64, nMinerals, nBinsPlus1 int) [][]float64 {
	out := make([][]float64, nMinerals)
	for mi := range out {
		out[mi] = make([]float64, nBinsPlus1)
	}
	for _, byMineral := range mcg {
		for mi, row := range byMineral {
			for k, v := range row {
				out[mi][k] += v
			}
		}
	}
	return out
}

// addMcg returns a + b elementwise, both shaped [T][M][B+1].
func addMcg(a, b [][][]float64) [][][]float64 {
	out := make([][][]float64, len(a))
	for s := range a {
		out[s] = make([][]float64, len(a[s]))
		for mi := range a[s] {
			out[s][mi] = make([]float64, len(a[s][mi]))
			for k := range a[s][mi] {
				out[s][mi][k] = a[s][mi][k] + b[s][mi][k]
			}
		}
	}
	return out
}

func clonePcgs(pcgs []*Pcg) []*Pcg {
	out := make([]*Pcg, len(pcgs))
	for i, p := range pcgs {
		out[i] = p.clone()
	}
	return out
}

// clone returns a copy of m safe to evolve independently: Mcg, Pcgs,
// InterfaceCounts and the residue logs are deep-copied; Bins, Matrices and
// BreakPatterns are immutable discretization tables and are shared.
func (m *Model) clone() *Model {
	c := *m

	c.Mcg = make([][][]float64, len(m.Mcg))
	for s := range m.Mcg {
		c.Mcg[s] = make([][]float64, len(m.Mcg[s]))
		for mi := range m.Mcg[s] {
			c.Mcg[s][mi] = append([]float64(nil), m.Mcg[s][mi]...)
		}
	}

	c.Pcgs = clonePcgs(m.Pcgs)

	c.InterfaceCounts = make([][]int, len(m.InterfaceCounts))
	for a := range m.InterfaceCounts {
		c.InterfaceCounts[a] = append([]int(nil), m.InterfaceCounts[a]...)
	}

	c.Residue = make([][]float64, len(m.Residue))
	c.ResidueCount = make([][]int, len(m.ResidueCount))
	for s := range m.Residue {
		c.Residue[s] = append([]float64(nil), m.Residue[s]...)
		c.ResidueCount[s] = append([]int(nil), m.ResidueCount[s]...)
	}

	c.Evolution = newEvolution(m.Config.NTimesteps, m.NMinerals, m.Bins.NBins+1)
	c.Warnings = nil

	return &c
}
