// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_PCGNumberProportionsSumsToOne(tst *testing.T) {
	chk.PrintTitle("PCGNumberProportionsSumsToOne. calculate_number_proportions_pcg equivalent")

	m, err := New(baseConfig())
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	proportions := m.PCGNumberProportions()
	if len(proportions) != m.NMinerals {
		tst.Fatalf("expected %d proportions, got %d", m.NMinerals, len(proportions))
	}

	var sum float64
	counts := make([]int, m.NMinerals)
	for _, pcg := range m.Pcgs {
		for _, mi := range pcg.Minerals {
			counts[mi]++
		}
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	for mi, p := range proportions {
		sum += p
		want := float64(counts[mi]) / float64(total)
		if math.Abs(p-want) > 1e-12 {
			tst.Fatalf("mineral %d: proportion %g does not match counted %g", mi, p, want)
		}
	}
	if math.Abs(sum-1.0) > 1e-12 {
		tst.Fatalf("PCGNumberProportions sums to %g, want 1.0", sum)
	}
}

func Test_PCGModalMineralogySumsToOne(tst *testing.T) {
	chk.PrintTitle("PCGModalMineralogySumsToOne. calculate_modal_mineralogy_pcg equivalent")

	m, err := New(baseConfig())
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	fractions := m.PCGModalMineralogy()
	if len(fractions) != m.NMinerals {
		tst.Fatalf("expected %d fractions, got %d", m.NMinerals, len(fractions))
	}

	var volumes [2]float64
	for _, pcg := range m.Pcgs {
		for i := 0; i < pcg.Len(); i++ {
			mi, k := pcg.Minerals[i], pcg.Sizes[i]
			volumes[mi] += m.Bins.VolumeBinsMedians[k]
		}
	}
	totalVolume := volumes[0] + volumes[1]

	var sum float64
	for mi, f := range fractions {
		sum += f
		want := volumes[mi] / totalVolume
		if math.Abs(f-want) > 1e-12 {
			tst.Fatalf("mineral %d: fraction %g does not match volume share %g", mi, f, want)
		}
	}
	if math.Abs(sum-1.0) > 1e-12 {
		tst.Fatalf("PCGModalMineralogy sums to %g, want 1.0", sum)
	}
}
