// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package csd implements the truncated-lognormal crystal-size distribution
// sampler: batches of crystals are drawn until their cumulative volume
// fills a mineral's modal volume allotment.
package csd

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/QuintenW98/sedgen/bins"
	"github.com/QuintenW98/sedgen/prng"
)

// randSource adapts a *rand.Rand (Seed(int64)) to the rand.Source interface
// gonum's distuv package expects (Seed(uint64)).
type randSource struct{ r *rand.Rand }

func (s randSource) Uint64() uint64   { return s.r.Uint64() }
func (s randSource) Seed(seed uint64) { s.r.Seed(int64(seed)) }

// TruncatedLogNormal is a lognormal distribution over crystal linear size
// (mm), truncated to [truncLeft, truncRight]. The underlying normal
// operates in log-space with mu = ln(mean), sigma = exp(std).
type TruncatedLogNormal struct {
	Mu, Sigma     float64
	LogTruncLeft  float64
	LogTruncRight float64
}

// New builds the truncated lognormal CSD for a mineral with the given
// linear-size mean and std, truncated to [truncLeft, truncRight] (mm).
func New(mean, std, truncLeft, truncRight float64) *TruncatedLogNormal {
	return &TruncatedLogNormal{
		Mu:            math.Log(mean),
		Sigma:         math.Exp(std),
		LogTruncLeft:  math.Log(truncLeft),
		LogTruncRight: math.Log(truncRight),
	}
}

// Sample draws n crystal linear sizes (mm) from the truncated lognormal
// using stream, via rejection sampling against the log-space truncation
// bounds.
func (c *TruncatedLogNormal) Sample(stream *prng.Stream, n int) []float64 {
	normal := distuv.Normal{Mu: c.Mu, Sigma: c.Sigma, Src: randSource{stream.Src}}
	sizes := make([]float64, n)
	for i := 0; i < n; i++ {
		for {
			logSize := normal.Rand()
			if logSize >= c.LogTruncLeft && logSize <= c.LogTruncRight {
				sizes[i] = math.Exp(logSize)
				break
			}
		}
	}
	return sizes
}

// GenerateCrystals samples crystal sizes for one mineral until their
// cumulative volume reaches modalVolume. Each batch requests
// ceil(remaining / (modalFraction * learningRate)) + 1 crystals; batch
// seeds iterate 0, 1, 2, ... so runs reproduce. Returns the total crystal
// count, the (slightly overshooting) simulated volume, and the bin label
// for each crystal (searchsorted into b's volume bins, underflow clamped
// to bin 0).
func GenerateCrystals(csdist *TruncatedLogNormal, modalVolume, modalFraction float64, learningRate int, b *bins.Bins) (count int, totalVolume float64, binLabels []int) {
	var sizes []float64
	rs := int64(0)
	for totalVolume < modalVolume {
		diff := modalVolume - totalVolume
		requested := int(math.Ceil(diff/(modalFraction*float64(learningRate)))) + 1

		stream := prng.New(rs)
		batch := csdist.Sample(stream, requested)
		for _, size := range batch {
			totalVolume += bins.Volume(size)
		}
		sizes = append(sizes, batch...)

		rs++
	}

	binLabels = make([]int, len(sizes))
	for i, size := range sizes {
		binLabels[i] = b.Searchsorted(bins.Volume(size))
	}

	return len(sizes), totalVolume, binLabels
}
