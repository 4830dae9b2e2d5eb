// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bins

// WindowSize is the fixed number of first-child candidates tried per
// parent bin during intra-crystal break-pattern construction. It is also
// the margin added above the breakage threshold bin, so every eligible
// parent bin has its full candidate window available.
const WindowSize = 5

// BreakPatterns precomputes, per (mineral, chem-state, parent bin), the set
// of valid two-child bin pairs that approximately conserve volume, and the
// residual ("residue") volume each pair leaves behind. For parent bin k,
// candidate j in [0, WindowSize) proposes a first child at bin k-1-j; the
// matching second child is the largest extended bin (searched via the
// Bins' extended median table, so it may be negative) whose median volume,
// summed with the first child's, does not exceed the parent's median
// volume at this chem-state. Offsets[m][s][k][j] holds the gap from the
// first child down to the second (second = first - offset);
// ResidueDiffs[m][s][k][j] holds the leftover volume for that pair, or a
// non-positive value if the candidate is invalid (no valid second child
// found). The stored diff is exactly the parent's state-s median minus the
// state-s medians of the children that land in a real bin: a second child
// below bin 0 has no mcg slot to receive it, so its entire volume belongs
// to the residue, keeping intra-crystal breakage volume-conserving
// bin-for-bin.
type BreakPatterns struct {
	NBins        int
	Offsets      [][][][]int
	ResidueDiffs [][][][]float64
}

// NewBreakPatterns builds the break-pattern tables for nMinerals minerals
// and nTimesteps chem-states, using the state-scaled medians in m.
func NewBreakPatterns(b *Bins, m *Matrices) *BreakPatterns {
	nBinsPlus1 := b.NBins + 1

	bp := &BreakPatterns{
		NBins:        b.NBins,
		Offsets:      make([][][][]int, m.NMinerals),
		ResidueDiffs: make([][][][]float64, m.NMinerals),
	}

	for mi := 0; mi < m.NMinerals; mi++ {
		bp.Offsets[mi] = make([][][]int, m.NTimesteps)
		bp.ResidueDiffs[mi] = make([][][]float64, m.NTimesteps)

		for s := 0; s < m.NTimesteps; s++ {
			medians := m.VolumeBinsMediansMatrix[s][mi]

			offsetsPerBin := make([][]int, nBinsPlus1)
			diffsPerBin := make([][]float64, nBinsPlus1)

			// state-s median for an extended bin: real bins use the
			// state-scaled table, bins below 0 fall back to the decay
			// extension (their crystals dissolve on arrival anyway)
			searchVol := func(bin int) float64 {
				if bin >= 0 {
					return medians[bin]
				}
				return b.SearchMedian(bin)
			}
			// volume a child actually contributes to the mcg row; a bin
			// below 0 has no slot, so nothing is contributed
			accountedVol := func(bin int) float64 {
				if bin >= 0 {
					return medians[bin]
				}
				return 0
			}

			for k := 0; k < nBinsPlus1; k++ {
				parentVol := medians[k]
				offsets := make([]int, WindowSize)
				diffs := make([]float64, WindowSize)

				for j := 0; j < WindowSize; j++ {
					first := k - 1 - j
					if first < -b.NBins {
						offsets[j] = 0
						diffs[j] = -1
						continue
					}
					target := parentVol - searchVol(first)
					if target <= 0 {
						offsets[j] = 0
						diffs[j] = -1
						continue
					}
					second := first
					found := false
					for cand := first; cand >= -b.NBins; cand-- {
						if searchVol(cand) <= target {
							second = cand
							found = true
							break
						}
					}
					if !found {
						offsets[j] = 0
						diffs[j] = -1
						continue
					}
					offsets[j] = first - second
					diffs[j] = parentVol - accountedVol(first) - accountedVol(second)
				}

				offsetsPerBin[k] = offsets
				diffsPerBin[k] = diffs
			}

			bp.Offsets[mi][s] = offsetsPerBin
			bp.ResidueDiffs[mi][s] = diffsPerBin
		}
	}

	return bp
}

// Children returns, for parent bin k at (mineral m, state s), the usable
// two-child bin pairs directly as (first, second) bin indices (either may
// be negative, i.e. below bin 0) alongside the residue volume each pair
// leaves behind. This is what intra-crystal breakage consumes to know
// which two bins to credit for each split event.
func (bp *BreakPatterns) Children(m, s, k int) (firsts, seconds []int, diffs []float64) {
	allOffsets := bp.Offsets[m][s][k]
	allDiffs := bp.ResidueDiffs[m][s][k]
	for j, d := range allDiffs {
		if d > 0 {
			first := k - 1 - j
			seconds = append(seconds, first-allOffsets[j])
			firsts = append(firsts, first)
			diffs = append(diffs, d)
		}
	}
	return firsts, seconds, diffs
}
