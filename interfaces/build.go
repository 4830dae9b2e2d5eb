// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package interfaces implements interface construction and the breakage
// probability engine: turning modal number proportions into a realized
// sequence of mineral-labeled crystals, correcting that sequence back to
// the requested per-mineral counts, and combining location/strength/size
// weights into a per-interface constant probability.
package interfaces

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/QuintenW98/sedgen/prng"
)

// randSource adapts a *rand.Rand (Seed(int64)) to the rand.Source interface
// gonum's distuv package expects (Seed(uint64)).
type randSource struct{ r *rand.Rand }

func (s randSource) Uint64() uint64   { return s.r.Uint64() }
func (s randSource) Seed(seed uint64) { s.r.Seed(int64(seed)) }

// NumberProportions normalizes mineralsN (crystal counts per mineral) into
// number proportions p, summing to 1.
func NumberProportions(mineralsN []int) []float64 {
	p := make([]float64, len(mineralsN))
	total := 0
	for _, n := range mineralsN {
		total += n
	}
	for i, n := range mineralsN {
		p[i] = float64(n) / float64(total)
	}
	return p
}

// Proportions returns the predicted interface proportions p_a * p_b, an
// MxM outer product of the number proportions.
func Proportions(numberProportions []float64) [][]float64 {
	m := len(numberProportions)
	out := make([][]float64, m)
	for a := 0; a < m; a++ {
		out[a] = make([]float64, m)
		for b := 0; b < m; b++ {
			out[a][b] = numberProportions[a] * numberProportions[b]
		}
	}
	return out
}

// ProportionsNormalized row-normalizes proportions so each row sums to 1.
func ProportionsNormalized(proportions [][]float64) [][]float64 {
	m := len(proportions)
	out := make([][]float64, m)
	for a := 0; a < m; a++ {
		rowSum := floats.Sum(proportions[a])
		out[a] = make([]float64, m)
		for b := 0; b < m; b++ {
			out[a][b] = proportions[a][b] / rowSum
		}
	}
	return out
}

// Frequencies returns round(proportions * (nCrystals-1)) as integer
// directed-pair counts.
func Frequencies(proportions [][]float64, nCrystals int) [][]int {
	m := len(proportions)
	out := make([][]int, m)
	scale := float64(nCrystals - 1)
	for a := 0; a < m; a++ {
		out[a] = make([]int, m)
		for b := 0; b < m; b++ {
			out[a][b] = int(roundHalfAwayFromZero(proportions[a][b] * scale))
		}
	}
	return out
}

func roundHalfAwayFromZero(x float64) float64 {
	if x < 0 {
		return -roundHalfAwayFromZero(-x)
	}
	f := float64(int64(x))
	if x-f >= 0.5 {
		f++
	}
	return f
}

// CorrectFrequencies subtracts the rounding surplus from freq[0][0] so
// that the frequencies sum exactly to nCrystals-1.
func CorrectFrequencies(freq [][]int, nCrystals int) [][]int {
	corrected := make([][]int, len(freq))
	sum := 0
	for a := range freq {
		corrected[a] = append([]int(nil), freq[a]...)
		for _, v := range freq[a] {
			sum += v
		}
	}
	diff := sum - (nCrystals - 1)
	corrected[0][0] -= diff
	return corrected
}

// TransitionsPerMineral draws, for each mineral row a, a sequence of
// mineralsN[a]+corr transition minerals sampled without replacement from
// freq[a] (decrementing counts as they're drawn), using one shared stream
// seeded with prng.InterfaceTransitionSeed and consumed in mineral order.
// The corr headroom absorbs rounding drift in the frequency table.
func TransitionsPerMineral(freq [][]int, mineralsN []int, corr int) [][]int {
	stream := prng.New(prng.InterfaceTransitionSeed)
	out := make([][]int, len(freq))
	for a, row := range freq {
		n := mineralsN[a] + corr
		out[a] = drawTransitions(row, n, stream)
	}
	return out
}

// drawTransitions draws n categorical transitions from row's counts
// without replacement, decrementing the drawn bucket's weight after each
// draw (replace=False semantics).
func drawTransitions(row []int, n int, stream *prng.Stream) []int {
	// CorrectFrequencies can drive row[0] below zero when absorbing the
	// rounding surplus; a categorical weight must not be negative
	weights := make([]float64, len(row))
	for i, v := range row {
		if v < 0 {
			v = 0
		}
		weights[i] = float64(v)
	}
	transitions := make([]int, n)
	for i := 0; i < n; i++ {
		if floats.Sum(weights) <= 0 {
			transitions[i] = 0
			continue
		}
		cat := distuv.NewCategorical(weights, randSource{stream.Src})
		choice := int(cat.Rand())
		transitions[i] = choice
		weights[choice]--
		if weights[choice] < 0 {
			weights[choice] = 0
		}
	}
	return transitions
}

// BuildArray realizes the interface array: an N-long sequence of mineral
// indices whose consecutive-pair counts approximate the transitions
// tables, walking from mineral 0 and consuming each mineral's transition
// cursor in order.
func BuildArray(mineralsN []int, transitions [][]int) []int {
	total := 0
	for _, n := range mineralsN {
		total += n
	}
	arr := make([]int, total)
	counters := make([]int, len(mineralsN))
	prev := 0
	for i := 0; i < total; i++ {
		if i > 0 {
			prev = arr[i-1]
		}
		arr[i] = transitions[prev][counters[prev]]
		counters[prev]++
	}
	return arr
}

// CountInterfaces tallies directed adjacent-pair counts across arr into an
// nMinerals x nMinerals matrix.
func CountInterfaces(arr []int, nMinerals int) [][]int {
	counts := make([][]int, nMinerals)
	for i := range counts {
		counts[i] = make([]int, nMinerals)
	}
	for i := 1; i < len(arr); i++ {
		counts[arr[i-1]][arr[i]]++
	}
	return counts
}

// CorrectArray removes or adds crystals from/to arr where the per-mineral
// crystal counts drift from mineralsN due to rounding during frequency
// construction, keeping counts consistent with the interface-counts
// matrix. Precondition: every mineral has at least one crystal present in
// arr.
func CorrectArray(arr []int, counts [][]int, mineralsN []int) ([]int, [][]int) {
	nMinerals := len(mineralsN)
	correctedCounts := make([][]int, nMinerals)
	for i := range counts {
		correctedCounts[i] = append([]int(nil), counts[i]...)
	}
	correctedArr := append([]int(nil), arr...)

	diff := make([]int, nMinerals)
	for _, v := range correctedArr {
		diff[v]++
	}
	for m := 0; m < nMinerals; m++ {
		diff[m] -= mineralsN[m]
	}

	for mineral, d := range diff {
		switch {
		case d > 0:
			for step := 0; step < d; step++ {
				idx := lastIndexOf(correctedArr, mineral)
				if idx-1 >= 0 {
					correctedCounts[correctedArr[idx-1]][correctedArr[idx]]--
				}
				if idx+1 < len(correctedArr) {
					if idx-1 >= 0 {
						correctedCounts[correctedArr[idx-1]][correctedArr[idx+1]]++
					}
					correctedCounts[correctedArr[idx]][correctedArr[idx+1]]--
				}
				correctedArr = append(correctedArr[:idx], correctedArr[idx+1:]...)
			}
		case d < 0:
			if len(correctedArr) > 0 {
				correctedCounts[correctedArr[len(correctedArr)-1]][mineral]++
			}
			for i := 0; i < -d; i++ {
				correctedArr = append(correctedArr, mineral)
			}
			correctedCounts[mineral][mineral] += -d - 1
		}
	}

	return correctedArr, correctedCounts
}

func lastIndexOf(arr []int, v int) int {
	for i := len(arr) - 1; i >= 0; i-- {
		if arr[i] == v {
			return i
		}
	}
	return -1
}
