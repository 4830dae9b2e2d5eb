// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bins

// Matrices holds the chem-state-dependent tables derived from a Bins: the
// median volume per (state, mineral, bin), the volume dissolved when
// advancing one chem-state, the smallest still-positive bin per (state,
// mineral), and the intra-crystal-breakage threshold bin per (state,
// mineral). All are dense [T][M][...] tables.
//
// The per-mineral chemical weathering rate (mm/yr) is applied as a linear
// reduction of crystal size, one rate-sized step per chem-state. Small
// bins run out of size after enough states; NegativeVolumeThresholds
// records where that happens.
type Matrices struct {
	NTimesteps                int
	NMinerals                 int
	VolumeBinsMediansMatrix   [][][]float64 // [T][M][B+1]
	VolumeChangeMatrix        [][][]float64 // [T][M][B+1], volume dissolved advancing state s-1 -> s
	NegativeVolumeThresholds  [][]int       // [T][M], smallest bin index k with positive volume at state s
	IntraCBThresholdBinMatrix [][]int       // [T][M], bin index of the intra_cb_thresholds size cutoff at state s
}

// NewMatrices builds the state-dependent tables for nTimesteps states and
// the given per-mineral chemical weathering rates (mm/yr) and intra-crystal
// breakage size thresholds (mm), both length nMinerals.
func NewMatrices(b *Bins, nTimesteps int, chemWeathRates, intraCBThresholds []float64) *Matrices {
	nMinerals := len(chemWeathRates)
	nBinsPlus1 := b.NBins + 1

	m := &Matrices{
		NTimesteps:                nTimesteps,
		NMinerals:                 nMinerals,
		VolumeBinsMediansMatrix:   make([][][]float64, nTimesteps),
		VolumeChangeMatrix:        make([][][]float64, nTimesteps),
		NegativeVolumeThresholds:  make([][]int, nTimesteps),
		IntraCBThresholdBinMatrix: make([][]int, nTimesteps),
	}

	for s := 0; s < nTimesteps; s++ {
		m.VolumeBinsMediansMatrix[s] = make([][]float64, nMinerals)
		m.VolumeChangeMatrix[s] = make([][]float64, nMinerals)
		m.NegativeVolumeThresholds[s] = make([]int, nMinerals)
		m.IntraCBThresholdBinMatrix[s] = make([]int, nMinerals)

		for mi := 0; mi < nMinerals; mi++ {
			rate := chemWeathRates[mi]
			medians := make([]float64, nBinsPlus1)
			for k := 0; k < nBinsPlus1; k++ {
				size := b.SizeBinsMedians[k] - float64(s)*rate
				if size < 0 {
					size = 0 // fully dissolved, no negative volumes
				}
				medians[k] = Volume(size)
			}
			m.VolumeBinsMediansMatrix[s][mi] = medians

			change := make([]float64, nBinsPlus1)
			if s > 0 {
				prev := m.VolumeBinsMediansMatrix[s-1][mi]
				for k := 0; k < nBinsPlus1; k++ {
					change[k] = prev[k] - medians[k]
				}
			}
			m.VolumeChangeMatrix[s][mi] = change

			// smallest bin k whose size at this state is still positive
			threshold := nBinsPlus1
			for k := 0; k < nBinsPlus1; k++ {
				if b.SizeBinsMedians[k]-float64(s)*rate > 0 {
					threshold = k
					break
				}
			}
			m.NegativeVolumeThresholds[s][mi] = threshold

			m.IntraCBThresholdBinMatrix[s][mi] = b.Searchsorted(Volume(intraCBThresholds[mi]))
		}
	}

	return m
}
