// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

// Evolution holds the append-only per-step logs Weathering fills in as it
// runs. Every slice has length NTimesteps at allocation; on early
// termination the slices are truncated to the steps actually run.
// ResidueAdditions, PCGChemResidueAdditions and McgChemResidueAdditions
// are per-step, per-mineral budgets indexed [step][mineral].
type Evolution struct {
	McgBrokenAdditions      []float64
	ResidueAdditions        [][]float64
	ResidueCountAdditions   []int
	PCGAdditions            []int
	MCGAdditions            []float64
	PCGCompEvolution        [][]*Pcg
	PCGSizeEvolution        [][]int
	PCGChemResidueAdditions [][]float64
	McgChemResidueAdditions [][]float64
	McgEvolution            [][][]float64 // [T][M][B+1], mcg summed over chem-states
	MassBalance             []float64
}

func newEvolution(nTimesteps, nMinerals, nBinsPlus1 int) Evolution {
	mcgEvolution := make([][][]float64, nTimesteps)
	residueAdditions := make([][]float64, nTimesteps)
	pcgChemResidueAdditions := make([][]float64, nTimesteps)
	mcgChemResidueAdditions := make([][]float64, nTimesteps)
	for s := range mcgEvolution {
		mcgEvolution[s] = make([][]float64, nMinerals)
		for mi := range mcgEvolution[s] {
			mcgEvolution[s][mi] = make([]float64, nBinsPlus1)
		}
		residueAdditions[s] = make([]float64, nMinerals)
		pcgChemResidueAdditions[s] = make([]float64, nMinerals)
		mcgChemResidueAdditions[s] = make([]float64, nMinerals)
	}
	return Evolution{
		McgBrokenAdditions:      make([]float64, nTimesteps),
		ResidueAdditions:        residueAdditions,
		ResidueCountAdditions:   make([]int, nTimesteps),
		PCGAdditions:            make([]int, nTimesteps),
		MCGAdditions:            make([]float64, nTimesteps),
		PCGCompEvolution:        make([][]*Pcg, nTimesteps),
		PCGSizeEvolution:        make([][]int, nTimesteps),
		PCGChemResidueAdditions: pcgChemResidueAdditions,
		McgChemResidueAdditions: mcgChemResidueAdditions,
		McgEvolution:            mcgEvolution,
		MassBalance:             make([]float64, nTimesteps),
	}
}

// truncate shrinks every evolution slice down to the first n entries, used
// when the step loop stops early because all pcgs were consumed.
func (e *Evolution) truncate(n int) {
	e.McgBrokenAdditions = e.McgBrokenAdditions[:n]
	e.ResidueAdditions = e.ResidueAdditions[:n]
	e.ResidueCountAdditions = e.ResidueCountAdditions[:n]
	e.PCGAdditions = e.PCGAdditions[:n]
	e.MCGAdditions = e.MCGAdditions[:n]
	e.PCGCompEvolution = e.PCGCompEvolution[:n]
	e.PCGSizeEvolution = e.PCGSizeEvolution[:n]
	e.PCGChemResidueAdditions = e.PCGChemResidueAdditions[:n]
	e.McgChemResidueAdditions = e.McgChemResidueAdditions[:n]
	e.McgEvolution = e.McgEvolution[:n]
	e.MassBalance = e.MassBalance[:n]
}

// pcgCountBefore returns the pcg count entering this step, used to size
// the per-step random vector in inter-crystal breakage. On step 0 no log
// entry exists yet and the single giant initial pcg stands in.
func (m *Model) pcgCountBefore(step int) int {
	if step == 0 {
		return m.initialPCGCount
	}
	return m.Evolution.PCGAdditions[step-1]
}
