// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package csd

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/QuintenW98/sedgen/bins"
	"github.com/QuintenW98/sedgen/prng"
)

func TestSampleWithinTruncationBounds(tst *testing.T) {
	chk.PrintTitle("SampleWithinTruncationBounds. every draw respects the CSD bounds")

	csdist := New(1.0, 0.1, 1.0/256.0, 30.0)
	stream := prng.New(42)
	sizes := csdist.Sample(stream, 500)

	for _, s := range sizes {
		if s < 1.0/256.0 || s > 30.0 {
			tst.Fatalf("sample %g outside truncation bounds", s)
		}
	}
}

func TestGenerateCrystalsFillsModalVolume(tst *testing.T) {
	chk.PrintTitle("GenerateCrystalsFillsModalVolume. cumulative volume reaches the target")

	b, err := bins.New(50, 1.0/256.0, 30.0)
	if err != nil {
		tst.Fatalf("bins.New failed: %v", err)
	}

	csdist := New(1.0, 0.1, 1.0/256.0, 30.0)
	count, totalVolume, labels := GenerateCrystals(csdist, 1.0, 1.0, 1000, b)

	if totalVolume < 1.0 {
		tst.Fatalf("expected simulated volume >= modal volume, got %g", totalVolume)
	}
	if count != len(labels) {
		tst.Fatalf("count %d does not match number of bin labels %d", count, len(labels))
	}
	for _, lbl := range labels {
		if lbl < 0 || lbl > b.NBins {
			tst.Fatalf("bin label %d out of range", lbl)
		}
	}
}
