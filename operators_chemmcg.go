// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

// chemicalWeatheringMcg shifts the mcg population one chem-state forward,
// dissolving crystals that have fallen below their state's negative-volume
// threshold and accounting the volume lost by surviving crystals
// shrinking. mcgs that roll past the last chem-state (the wrapped-around
// slot 0 being non-empty) are folded back into the last slot and reported
// as a ChemStateExhaustion warning.
func (m *Model) chemicalWeatheringMcg() (mcgNew [][][]float64, residuePerMineral []float64, warning *Error) {
	nStates := len(m.Mcg)
	nBinsPlus1 := m.Bins.NBins + 1

	mcgNew = make([][][]float64, nStates)
	for s := 0; s < nStates; s++ {
		src := (s - 1 + nStates) % nStates
		mcgNew[s] = make([][]float64, m.NMinerals)
		for mi := range mcgNew[s] {
			mcgNew[s][mi] = append([]float64(nil), m.Mcg[src][mi]...)
		}
	}

	residue1 := make([]float64, m.NMinerals)
	for n := 1; n < nStates; n++ {
		for mi := 0; mi < m.NMinerals; mi++ {
			threshold := m.Matrices.NegativeVolumeThresholds[n][mi]
			if threshold > nBinsPlus1 {
				threshold = nBinsPlus1
			}
			for k := 0; k < threshold; k++ {
				residue1[mi] += mcgNew[n][mi][k] * m.Matrices.VolumeBinsMediansMatrix[n-1][mi][k]
				mcgNew[n][mi][k] = 0
			}
		}
	}

	residue2 := make([]float64, m.NMinerals)
	for n := 1; n < nStates; n++ {
		for mi := 0; mi < m.NMinerals; mi++ {
			for k := 0; k < nBinsPlus1; k++ {
				residue2[mi] += mcgNew[n][mi][k] * m.Matrices.VolumeChangeMatrix[n][mi][k]
			}
		}
	}

	residuePerMineral = make([]float64, m.NMinerals)
	for mi := range residuePerMineral {
		residuePerMineral[mi] = residue1[mi] + residue2[mi]
	}

	exhausted := false
	for mi := range mcgNew[0] {
		for k := range mcgNew[0][mi] {
			if mcgNew[0][mi][k] != 0 {
				exhausted = true
			}
		}
	}
	if exhausted {
		last := nStates - 1
		for mi := 0; mi < m.NMinerals; mi++ {
			for k := 0; k < nBinsPlus1; k++ {
				mcgNew[last][mi][k] += mcgNew[0][mi][k]
				mcgNew[0][mi][k] = 0
			}
		}
		warning = newError(ChemStateExhaustion,
			"sedgen: end of chemical states reached, mcg reintroduced at state 0 during chem_mcg folded back to the last state")
	}

	return mcgNew, residuePerMineral, warning
}
