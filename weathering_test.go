// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"

	"github.com/QuintenW98/sedgen/interfaces"
	"github.com/QuintenW98/sedgen/prng"
)

func Test_WeatheringMassBalancePerStep(tst *testing.T) {
	chk.PrintTitle("mass balance holds at every step of a full weathering run")

	cfg := baseConfig()
	cfg.NTimesteps = 5
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	evolved, err := m.Weathering(nil, 5, true)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	// The binned representation overshoots the exact parent volume by the
	// CSD batch overshoot plus bin quantization (P1's epsilon); what must
	// hold tightly is that the balance never drifts once the run starts.
	initial := evolved.Evolution.MassBalance[0]
	tol := 1e-6 * cfg.ParentRockVolume
	n := evolved.StoppedAtStep
	for step := 0; step < n; step++ {
		balance := evolved.Evolution.MassBalance[step]
		if diff := balance - initial; diff > tol || diff < -tol {
			tst.Fatalf("step %d: mass balance %g drifted from initial balance %g by more than %g",
				step, balance, initial, tol)
		}

		sizes := evolved.Evolution.PCGSizeEvolution[step]
		comp := evolved.Evolution.PCGCompEvolution[step]
		if len(sizes) != len(comp) {
			tst.Fatalf("step %d: pcg_size_evolution has %d entries, pcg_comp_evolution has %d",
				step, len(sizes), len(comp))
		}
		for i, pcg := range comp {
			if sizes[i] != pcg.Len() {
				tst.Fatalf("step %d pcg %d: recorded size %d does not match pcg length %d",
					step, i, sizes[i], pcg.Len())
			}
		}
	}
}

func Test_IntraCBOnlyNonDecreasing(tst *testing.T) {
	chk.PrintTitle("intra_cb alone: mcg total and residue are non-decreasing")

	cfg := Config{
		Minerals:         []string{"quartz"},
		ParentRockVolume: 1.0,
		ModalMineralogy:  []float64{1.0},
		CSDMeans:         []float64{2.0},
		CSDStds:          []float64{0.05},
		LearningRate:     1000,
		NTimesteps:       10,
		IntraCBP:         []float64{0.5},
	}
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	evolved, err := m.Weathering([]string{"intra_cb"}, 10, true)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	var prevMcg, prevResidue float64
	for step := 0; step < evolved.StoppedAtStep; step++ {
		mcgTotal := evolved.Evolution.MCGAdditions[step]
		residueTotal := floats.Sum(evolved.Evolution.ResidueAdditions[step])
		if mcgTotal < prevMcg-1e-9 {
			tst.Fatalf("step %d: mcg total %g decreased from %g", step, mcgTotal, prevMcg)
		}
		if residueTotal < 0 {
			tst.Fatalf("step %d: residue total %g is negative", step, residueTotal)
		}
		prevMcg = mcgTotal
		prevResidue += residueTotal
	}
}

func Test_InterCBOnlyConvergesToSingletons(tst *testing.T) {
	chk.PrintTitle("inter_cb alone: pcgs eventually all shrink to length 1")

	cfg := Config{
		Minerals:         []string{"a", "b", "c"},
		ParentRockVolume: 1.0,
		ModalMineralogy:  []float64{0.4, 0.3, 0.3},
		CSDMeans:         []float64{1.0, 1.0, 1.0},
		CSDStds:          []float64{0.1, 0.1, 0.1},
		LearningRate:     1000,
		NTimesteps:       200,
		IntraCBP:         []float64{0.5},
		InterfacialComposition: [][]float64{
			{0.4, 0.3, 0.3},
			{0.3, 0.4, 0.3},
			{0.3, 0.3, 0.4},
		},
	}
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	initialN := make([]int, m.NMinerals)
	copy(initialN, m.MineralsNActual)

	evolved, err := m.Weathering([]string{"inter_cb"}, cfg.NTimesteps, true)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	for _, pcg := range evolved.Pcgs {
		if pcg.Len() > 1 {
			tst.Fatalf("expected all remaining pcgs to have length 1, found length %d", pcg.Len())
		}
	}

	mcgCount := make([]int, evolved.NMinerals)
	for _, byMineral := range evolved.Mcg {
		for mi, row := range byMineral {
			for _, v := range row {
				mcgCount[mi] += int(v)
			}
		}
	}
	for _, pcg := range evolved.Pcgs {
		mcgCount[pcg.Minerals[0]]++
	}
	for mi := range mcgCount {
		if mcgCount[mi] != initialN[mi] {
			tst.Fatalf("mineral %d: mcg+singleton-pcg total %d does not match initial count %d",
				mi, mcgCount[mi], initialN[mi])
		}
	}
}

func Test_EarlyTerminationTruncatesEvolution(tst *testing.T) {
	chk.PrintTitle("inter_cb exhausts all pcgs well before n_timesteps")

	cfg := Config{
		Minerals:         []string{"a", "b", "c"},
		ParentRockVolume: 1.0,
		ModalMineralogy:  []float64{0.4, 0.3, 0.3},
		CSDMeans:         []float64{1.0, 1.0, 1.0},
		CSDStds:          []float64{0.1, 0.1, 0.1},
		LearningRate:     1000,
		NTimesteps:       1000,
		IntraCBP:         []float64{0.5},
		InterfacialComposition: [][]float64{
			{0.4, 0.3, 0.3},
			{0.3, 0.4, 0.3},
			{0.3, 0.3, 0.4},
		},
	}
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	evolved, err := m.Weathering([]string{"inter_cb"}, cfg.NTimesteps, true)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	if !evolved.Truncated {
		tst.Fatalf("expected early termination before %d steps", cfg.NTimesteps)
	}
	if evolved.StoppedAtStep >= cfg.NTimesteps {
		tst.Fatalf("StoppedAtStep %d should be less than n_timesteps %d", evolved.StoppedAtStep, cfg.NTimesteps)
	}
	if len(evolved.Evolution.MassBalance) != evolved.StoppedAtStep {
		tst.Fatalf("evolution arrays should be truncated to %d entries, got %d",
			evolved.StoppedAtStep, len(evolved.Evolution.MassBalance))
	}
}

func Test_Weathering_NotInplaceLeavesOriginalUntouched(tst *testing.T) {
	chk.PrintTitle("inplace=false evolves a clone, original model is unchanged")

	cfg := baseConfig()
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	originalPcgCount := len(m.Pcgs)

	_, err = m.Weathering(nil, cfg.NTimesteps, false)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	if len(m.Pcgs) != originalPcgCount {
		tst.Fatalf("original model's pcgs changed after a non-inplace Weathering call")
	}
}

func Test_EnablePCGSelectionIsInert(tst *testing.T) {
	chk.PrintTitle("EnablePCGSelection is validated but does not change weathering output")

	cfgOff := baseConfig()
	cfgOff.NTimesteps = 5
	cfgOn := cfgOff
	cfgOn.EnablePCGSelection = true

	mOff, err := New(cfgOff)
	if err != nil {
		tst.Fatalf("New (off) failed: %v", err)
	}
	mOn, err := New(cfgOn)
	if err != nil {
		tst.Fatalf("New (on) failed: %v", err)
	}

	evOff, err := mOff.Weathering(nil, 5, true)
	if err != nil {
		tst.Fatalf("Weathering (off) failed: %v", err)
	}
	evOn, err := mOn.Weathering(nil, 5, true)
	if err != nil {
		tst.Fatalf("Weathering (on) failed: %v", err)
	}

	if evOff.StoppedAtStep != evOn.StoppedAtStep {
		tst.Fatalf("StoppedAtStep differs: off=%d on=%d", evOff.StoppedAtStep, evOn.StoppedAtStep)
	}
	for step := 0; step < evOff.StoppedAtStep; step++ {
		if evOff.Evolution.MassBalance[step] != evOn.Evolution.MassBalance[step] {
			tst.Fatalf("step %d: mass balance differs with EnablePCGSelection toggled: %g vs %g",
				step, evOff.Evolution.MassBalance[step], evOn.Evolution.MassBalance[step])
		}
	}
}

func Test_SplitIndexDeterministicWithoutLocationProb(tst *testing.T) {
	chk.PrintTitle("location prob disabled: split index follows the seeded cumsum draw")

	cfg := Config{
		Minerals:                    []string{"quartz"},
		ParentRockVolume:            1.0,
		ModalMineralogy:             []float64{1.0},
		CSDMeans:                    []float64{1.0},
		CSDStds:                     []float64{0.1},
		NTimesteps:                  3,
		EnableInterfaceLocationProb: Bool(false),
		Verbose:                     Bool(false),
	}
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	// replace the initial pcg with a known length-5 grain carrying uniform
	// constant weights, so the split index depends only on the step-seeded draw
	pcg := &Pcg{
		Minerals:   []int{0, 0, 0, 0, 0},
		Sizes:      []int{10, 10, 10, 10, 10},
		ChemStates: []int{0, 0, 0, 0, 0},
		Probs:      []float64{1, 1, 1, 1},
	}
	m.Pcgs = []*Pcg{pcg.clone()}
	m.InterfaceCounts = interfaces.CountInterfaces(pcg.Minerals, m.NMinerals)
	m.initialPCGCount = 1

	u := prng.New(0).Float64()
	want := interfaces.SelectInterface(u, interfaces.Normalize(pcg.Probs))

	pcgsNew, mcgAdditions := m.interCrystalBreakage(0)

	// splitting at interface `want` leaves fragments of want and 5-want
	// crystals; a length-1 fragment goes to mcg instead of pcgs
	var wantLengths []int
	for _, n := range []int{want, 5 - want} {
		if n > 1 {
			wantLengths = append(wantLengths, n)
		}
	}
	var gotLengths []int
	for _, fragment := range pcgsNew {
		gotLengths = append(gotLengths, fragment.Len())
	}
	if len(gotLengths) != len(wantLengths) {
		tst.Fatalf("expected fragment lengths %v, got %v", wantLengths, gotLengths)
	}
	for i := range wantLengths {
		if gotLengths[i] != wantLengths[i] {
			tst.Fatalf("expected fragment lengths %v, got %v", wantLengths, gotLengths)
		}
	}
	promoted := sumMcg(mcgAdditions)
	if got, expect := int(promoted), 2-len(wantLengths); got != expect {
		tst.Fatalf("expected %d promoted mcg, got %d", expect, got)
	}
	if sum := sumInterfaceCounts(m.InterfaceCounts); sum != 3 {
		tst.Fatalf("one interface consumed from 4 should leave 3 counted, got %d", sum)
	}

	// each fragment's probs array must stay aligned with its length
	for i, fragment := range pcgsNew {
		if len(fragment.Probs) != fragment.Len()-1 {
			tst.Fatalf("fragment %d: %d probs for %d crystals", i, len(fragment.Probs), fragment.Len())
		}
	}
}

func sumInterfaceCounts(counts [][]int) int {
	total := 0
	for _, row := range counts {
		total += sumInts(row)
	}
	return total
}

func Test_WeatheringDeterministicAcrossRuns(tst *testing.T) {
	chk.PrintTitle("identical inputs and seeds give bitwise-identical runs")

	runOnce := func() *Model {
		cfg := baseConfig()
		cfg.NTimesteps = 4
		m, err := New(cfg)
		if err != nil {
			tst.Fatalf("New failed: %v", err)
		}
		evolved, err := m.Weathering(nil, 4, true)
		if err != nil {
			tst.Fatalf("Weathering failed: %v", err)
		}
		return evolved
	}

	a := runOnce()
	b := runOnce()

	if a.StoppedAtStep != b.StoppedAtStep {
		tst.Fatalf("StoppedAtStep differs between identical runs: %d vs %d", a.StoppedAtStep, b.StoppedAtStep)
	}
	for step := 0; step < a.StoppedAtStep; step++ {
		if a.Evolution.MassBalance[step] != b.Evolution.MassBalance[step] {
			tst.Fatalf("step %d: mass balance differs between identical runs: %g vs %g",
				step, a.Evolution.MassBalance[step], b.Evolution.MassBalance[step])
		}
		if a.Evolution.PCGAdditions[step] != b.Evolution.PCGAdditions[step] {
			tst.Fatalf("step %d: pcg count differs between identical runs: %d vs %d",
				step, a.Evolution.PCGAdditions[step], b.Evolution.PCGAdditions[step])
		}
	}
}

func Test_IntraCBResidueCountTracksSelections(tst *testing.T) {
	chk.PrintTitle("residue_count records how many crystals each intra_cb step selected")

	cfg := Config{
		Minerals:         []string{"quartz"},
		ParentRockVolume: 1.0,
		ModalMineralogy:  []float64{1.0},
		CSDMeans:         []float64{2.0},
		CSDStds:          []float64{0.05},
		LearningRate:     1000,
		NTimesteps:       4,
		IntraCBP:         []float64{0.5},
	}
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	// seed the mcg population well above the breakage threshold so intra_cb
	// has something to select from
	m.Mcg[0][0][m.Bins.NBins-1] = 64

	evolved, err := m.Weathering([]string{"intra_cb"}, 4, true)
	if err != nil {
		tst.Fatalf("Weathering failed: %v", err)
	}

	selectedAny := false
	for step := 0; step < evolved.StoppedAtStep; step++ {
		want := sumInts(evolved.ResidueCount[step])
		if got := evolved.Evolution.ResidueCountAdditions[step]; got != want {
			tst.Fatalf("step %d: evolution residue count %d does not match model log %d", step, got, want)
		}
		if want > 0 {
			selectedAny = true
		}
	}
	if !selectedAny {
		tst.Fatalf("expected at least one intra_cb selection across %d steps", evolved.StoppedAtStep)
	}
}

func Test_UnknownOperationIsSkippedAndWarned(tst *testing.T) {
	chk.PrintTitle("an unrecognized operator name is reported and skipped, not fatal")

	cfg := baseConfig()
	cfg.NTimesteps = 1
	m, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	evolved, err := m.Weathering([]string{"not_a_real_operation"}, 1, true)
	if err != nil {
		tst.Fatalf("Weathering should not fail on an unknown operation: %v", err)
	}

	found := false
	for _, w := range evolved.Warnings {
		if e, ok := w.(*Error); ok && e.Kind == UnknownOperation {
			found = true
		}
	}
	if !found {
		tst.Fatalf("expected an UnknownOperation warning in evolved.Warnings")
	}
}
