// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bins implements the logarithmic crystal-size/volume discretization
// used throughout the weathering engine: the size and volume bin edges, their
// per-bin medians, and the chem-state-scaled matrices and break-pattern
// tables derived from them.
package bins

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// sphereVolumeConst is the c in volume = c·size³ for a crystal of linear
// size (diameter) 'size', i.e. c = π/6.
const sphereVolumeConst = math.Pi / 6.0

// Volume returns the volume of a sphere with diameter size.
func Volume(size float64) float64 {
	return sphereVolumeConst * size * size * size
}

// Bins holds the log-spaced size/volume discretization. SizeBins and
// VolumeBins have length NBins+2 (bin edges); SizeBinsMedians and
// VolumeBinsMedians have length NBins+1 (one representative value per bin).
// SearchVolumeBinsMedians extends VolumeBinsMedians down to negative bin
// indices (bins [-NBins, NBins)) by continuing the fixed geometric decay
// ratio of the sequence; intra-crystal breakage uses this extended table to
// locate two-child bin pairs below bin 0 (see package breakpatterns.go).
type Bins struct {
	NBins                   int       // B, number of regular bins
	TruncLeft               float64   // smallest representable crystal size (mm)
	TruncRight              float64   // largest representable crystal size (mm)
	SizeBins                []float64 // [B+2] bin edges, log-spaced
	VolumeBins              []float64 // [B+2] volumes of SizeBins
	SizeBinsMedians         []float64 // [B+1] geometric-mean size per bin
	VolumeBinsMedians       []float64 // [B+1] volume of SizeBinsMedians
	SearchVolumeBinsMedians []float64 // [2B] extended medians, index k+B gives bin k in [-B,B)
	ratio                   float64   // fixed edge-to-edge ratio of the log-spaced sequence
}

// New builds the bin tables for nBins regular bins spanning
// [truncLeft, truncRight] (crystal linear size, mm).
func New(nBins int, truncLeft, truncRight float64) (*Bins, error) {
	if nBins <= 0 {
		return nil, chk.Err("bins: nBins must be positive; got %d", nBins)
	}
	if !(truncLeft > 0) || !(truncRight > truncLeft) {
		return nil, chk.Err("bins: invalid truncation range [%g, %g]", truncLeft, truncRight)
	}

	b := &Bins{
		NBins:      nBins,
		TruncLeft:  truncLeft,
		TruncRight: truncRight,
	}

	// Edges: nBins+2 points log-spaced between TruncLeft and TruncRight.
	nEdges := nBins + 2
	logLeft, logRight := math.Log(truncLeft), math.Log(truncRight)
	step := (logRight - logLeft) / float64(nEdges-1)
	b.ratio = math.Exp(step)

	b.SizeBins = make([]float64, nEdges)
	b.VolumeBins = make([]float64, nEdges)
	for k := 0; k < nEdges; k++ {
		b.SizeBins[k] = math.Exp(logLeft + step*float64(k))
		b.VolumeBins[k] = Volume(b.SizeBins[k])
	}

	// Medians: one per bin, geometric mean of the bin's two edges.
	b.SizeBinsMedians = make([]float64, nBins+1)
	b.VolumeBinsMedians = make([]float64, nBins+1)
	for k := 0; k < nBins+1; k++ {
		b.SizeBinsMedians[k] = math.Sqrt(b.SizeBins[k] * b.SizeBins[k+1])
		b.VolumeBinsMedians[k] = Volume(b.SizeBinsMedians[k])
	}

	// Extended search table: bins [-nBins, nBins). Index k+nBins <-> bin k.
	volRatio := b.ratio * b.ratio * b.ratio // volume scales as size³
	b.SearchVolumeBinsMedians = make([]float64, 2*nBins)
	for k := -nBins; k < nBins; k++ {
		idx := k + nBins
		if k >= 0 && k <= nBins {
			b.SearchVolumeBinsMedians[idx] = b.VolumeBinsMedians[k]
			continue
		}
		if k > nBins {
			b.SearchVolumeBinsMedians[idx] = b.VolumeBinsMedians[nBins] * math.Pow(volRatio, float64(k-nBins))
			continue
		}
		// k < 0: extend below bin 0 using the same decay ratio.
		b.SearchVolumeBinsMedians[idx] = b.VolumeBinsMedians[0] * math.Pow(volRatio, float64(k))
	}

	return b, nil
}

// SearchMedian returns the extended median-volume table value for
// (possibly negative) bin index k, valid for k in [-NBins, NBins).
func (b *Bins) SearchMedian(k int) float64 {
	return b.SearchVolumeBinsMedians[k+b.NBins]
}

// Searchsorted returns the bin index holding volume v: the insertion
// point of v in VolumeBins minus one. An index falling off either end of
// the regular bin range is clamped to bin 0.
func (b *Bins) Searchsorted(v float64) int {
	// binary search for the leftmost insertion point
	lo, hi := 0, len(b.VolumeBins)
	for lo < hi {
		mid := (lo + hi) / 2
		if b.VolumeBins[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	idx := lo - 1
	if idx < 0 || idx > b.NBins {
		return 0
	}
	return idx
}
