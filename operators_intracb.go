// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import (
	"math"

	"github.com/QuintenW98/sedgen/bins"
)

// intraCrystalBreakage splits a fraction of mcgs in each size bin into two
// smaller bins, for every (chem-state, mineral) plane at once. alternator
// alternates the selection fraction between floor and ceil on successive
// steps so the long-run expected selection is exactly IntraCBP[m]. Returns
// the updated mcg tensor and the per-mineral residue volume and selected
// crystal count generated this step.
func (m *Model) intraCrystalBreakage(alternator int) (mcgNew [][][]float64, residue []float64, residueCount []int) {
	nBinsPlus1 := m.Bins.NBins + 1
	mcgNew = make([][][]float64, len(m.Mcg))
	residuePerState := make([][]float64, len(m.Mcg))
	residueCount = make([]int, m.NMinerals)

	for s := range m.Mcg {
		mcgNew[s] = make([][]float64, m.NMinerals)
		residuePerState[s] = make([]float64, m.NMinerals)

		for mi := range m.Mcg[s] {
			old := m.Mcg[s][mi]

			allZero := true
			for _, v := range old {
				if v != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				mcgNew[s][mi] = append([]float64(nil), old...)
				continue
			}

			row := append([]float64(nil), old...)
			p := m.IntraCBP[mi]
			threshold := m.Matrices.IntraCBThresholdBinMatrix[s][mi] + bins.WindowSize

			for k := threshold; k < nBinsPlus1; k++ {
				var nSelected float64
				if alternator%2 == 0 {
					nSelected = math.Floor(old[k] * p)
				} else {
					nSelected = math.Ceil(old[k] * p)
				}
				if nSelected <= 0 {
					continue
				}

				firsts, seconds, diffs := m.BreakPatterns.Children(mi, s, k)
				if len(firsts) == 0 {
					continue
				}

				row[k] -= nSelected
				residueCount[mi] += int(nSelected)

				share := math.Floor(nSelected / float64(len(firsts)))
				remainder := nSelected - share*float64(len(firsts))

				for j := range firsts {
					count := share
					if j == len(firsts)-1 {
						count += remainder
					}
					if count == 0 {
						continue
					}

					addToBin(row, firsts[j], count)
					addToBin(row, seconds[j], count)
					residuePerState[s][mi] += diffs[j] * count
				}
			}

			mcgNew[s][mi] = row
		}
	}

	residue = make([]float64, m.NMinerals)
	for s := range residuePerState {
		for mi, v := range residuePerState[s] {
			residue[mi] += v
		}
	}

	return mcgNew, residue, residueCount
}

// addToBin adds count to row[k] if k falls within the real bin range;
// otherwise the fragment has broken past the representable size axis and
// its volume is dropped silently here (accounted for via the residue diff
// computed alongside it), since row has no slot for negative bin indices.
func addToBin(row []float64, k int, count float64) {
	if k >= 0 && k < len(row) {
		row[k] += count
	}
}
