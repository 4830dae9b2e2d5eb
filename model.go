// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sedgen simulates the mechanical and chemical breakdown of a
// parent rock into progressively smaller mineral grains over discrete
// timesteps. It derives a mass-balanced initial
// representation from a modal-mineralogy and crystal-size-distribution
// specification, then runs a per-timestep loop of intra-crystal breakage,
// inter-crystal breakage, and chemical weathering of both mono- and
// poly-crystalline grains.
package sedgen

import (
	"fmt"

	"github.com/cpmech/gosl/io"

	"github.com/QuintenW98/sedgen/bins"
	"github.com/QuintenW98/sedgen/csd"
	"github.com/QuintenW98/sedgen/interfaces"
)

// Model holds the parent-rock state and everything derived from it: the
// bin/matrix/break-pattern discretization, the current pcg population, the
// mono-crystalline grain counts, the interface-count matrix, and the
// append-only evolution logs built up by Weathering.
type Model struct {
	Config Config

	NMinerals int

	Bins          *bins.Bins
	Matrices      *bins.Matrices
	BreakPatterns *bins.BreakPatterns

	IntraCBP          []float64
	IntraCBThresholds []float64
	ChemWeathRates    []float64

	MineralsN       []int
	MineralsNActual []int
	NCrystals       int
	SimulatedVolume []float64

	ProportionsNormalized [][]float64
	StandardLocationCases [][]float64

	Pcgs           []*Pcg
	Mcg            [][][]float64 // [T][M][B+1]
	InterfaceCounts [][]int      // [M][M]

	Residue      [][]float64 // [T][M], intra-cb residue
	ResidueCount [][]int     // [T][M]

	initialPCGCount int

	Evolution Evolution

	Warnings []error

	Truncated     bool
	StoppedAtStep int
}

// New builds a Model from cfg: samples crystal-size distributions per
// mineral until the modal volume is filled, constructs the interface array
// and its breakage-probability weights, and precomputes the chem-state
// discretization and break-pattern tables.
func New(cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Model{
		Config:    cfg,
		NMinerals: len(cfg.Minerals),
	}

	if *cfg.Verbose {
		io.Pf("---sedgen model initialization started---\n\n")
	}

	m.IntraCBP = broadcastProperty(cfg.IntraCBP, m.NMinerals)
	m.IntraCBThresholds = broadcastProperty(cfg.IntraCBThresholds, m.NMinerals)
	m.ChemWeathRates = broadcastProperty(cfg.ChemWeathRates, m.NMinerals)

	if *cfg.Verbose {
		io.Pf("Initializing bins...\n")
	}
	b, err := bins.New(cfg.NBins, cfg.TruncLeft, cfg.TruncRight)
	if err != nil {
		return nil, err
	}
	m.Bins = b

	if *cfg.Verbose {
		io.Pf("Simulating mineral occurrences... ")
	}
	modalVolume := make([]float64, m.NMinerals)
	for i, p := range cfg.ModalMineralogy {
		modalVolume[i] = cfg.ParentRockVolume * p
	}

	m.MineralsN = make([]int, m.NMinerals)
	m.SimulatedVolume = make([]float64, m.NMinerals)
	crystalSizesPerMineral := make([][]int, m.NMinerals)
	for mi := range cfg.Minerals {
		csdist := csd.New(cfg.CSDMeans[mi], cfg.CSDStds[mi], cfg.TruncLeft, cfg.TruncRight)
		count, totalVolume, labels := csd.GenerateCrystals(csdist, modalVolume[mi], cfg.ModalMineralogy[mi], cfg.LearningRate, b)
		m.MineralsN[mi] = count
		m.SimulatedVolume[mi] = totalVolume
		crystalSizesPerMineral[mi] = labels
		if *cfg.Verbose {
			io.Pforan("|%s", cfg.Minerals[mi])
		}
	}
	if *cfg.Verbose {
		io.Pf("|\n")
	}

	for _, n := range m.MineralsN {
		m.NCrystals += n
	}

	if *cfg.Verbose {
		io.Pf("Initializing interfaces... ")
	}
	numberProportions := interfaces.NumberProportions(m.MineralsN)
	var proportions [][]float64
	if cfg.InterfacialComposition != nil {
		proportions = cfg.InterfacialComposition
	} else {
		proportions = interfaces.Proportions(numberProportions)
	}
	m.ProportionsNormalized = interfaces.ProportionsNormalized(proportions)

	freq := interfaces.Frequencies(proportions, m.NCrystals)
	freq = interfaces.CorrectFrequencies(freq, m.NCrystals)

	transitions := interfaces.TransitionsPerMineral(freq, m.MineralsN, 5)
	arr := interfaces.BuildArray(m.MineralsN, transitions)

	counts := interfaces.CountInterfaces(arr, m.NMinerals)
	arr, counts = interfaces.CorrectArray(arr, counts, m.MineralsN)
	m.InterfaceCounts = counts

	m.MineralsNActual = calculateActualMineralsN(arr, m.NMinerals)

	if *cfg.Verbose {
		io.Pf("done\nInitializing crystal size array... ")
	}
	crystalSizes := fillCrystalSizeArray(arr, crystalSizesPerMineral)

	if *cfg.Verbose {
		io.Pf("done\nInitializing inter-crystal breakage probability arrays...\n")
	}
	if *cfg.EnableInterfaceLocationProb {
		m.StandardLocationCases = interfaces.StandardCases(cfg.NStandardCases)
	}
	sizeProb := interfaces.SizeProb(crystalSizes, b.SizeBinsMedians)
	strengthProb := interfaces.StrengthProb(m.ProportionsNormalized, arr)
	constProb := interfaces.ConstantProb(sizeProb, strengthProb)

	chemStates := make([]int, len(arr))
	m.Pcgs = []*Pcg{{
		Minerals:   arr,
		Sizes:      crystalSizes,
		ChemStates: chemStates,
		Probs:      constProb,
	}}
	m.initialPCGCount = 1

	if *cfg.Verbose {
		io.Pf("Initializing discretization for model's weathering...\n")
	}
	m.Matrices = bins.NewMatrices(b, cfg.NTimesteps, m.ChemWeathRates, m.IntraCBThresholds)
	m.BreakPatterns = bins.NewBreakPatterns(b, m.Matrices)

	m.Mcg = make([][][]float64, cfg.NTimesteps)
	for s := range m.Mcg {
		m.Mcg[s] = make([][]float64, m.NMinerals)
		for mi := range m.Mcg[s] {
			m.Mcg[s][mi] = make([]float64, cfg.NBins+1)
		}
	}

	m.Residue = make([][]float64, cfg.NTimesteps)
	m.ResidueCount = make([][]int, cfg.NTimesteps)
	for s := range m.Residue {
		m.Residue[s] = make([]float64, m.NMinerals)
		m.ResidueCount[s] = make([]int, m.NMinerals)
	}

	m.Evolution = newEvolution(cfg.NTimesteps, m.NMinerals, cfg.NBins+1)
	m.StoppedAtStep = cfg.NTimesteps

	if *cfg.Verbose {
		io.Pf("\n---sedgen model initialization finished successfully---\n")
	}

	return m, nil
}

// calculateActualMineralsN counts, for each mineral, how many crystals of
// it are present in arr after correction.
func calculateActualMineralsN(arr []int, nMinerals int) []int {
	out := make([]int, nMinerals)
	for _, v := range arr {
		out[v]++
	}
	return out
}

// fillCrystalSizeArray allocates each mineral's pre-generated size-bin
// labels to the slots in arr where that mineral occurs, in order.
func fillCrystalSizeArray(arr []int, crystalSizesPerMineral [][]int) []int {
	cursor := make([]int, len(crystalSizesPerMineral))
	out := make([]int, len(arr))
	for i, mineral := range arr {
		out[i] = crystalSizesPerMineral[mineral][cursor[mineral]]
		cursor[mineral]++
	}
	return out
}

// String returns the constructor parameters that identify this model run.
func (m *Model) String() string {
	return fmt.Sprintf("sedgen.Model(%v, %g, %v, %v, %v, learning_rate=%d)",
		m.Config.Minerals, m.Config.ParentRockVolume, m.Config.ModalMineralogy,
		m.Config.CSDMeans, m.Config.CSDStds, m.Config.LearningRate)
}

// CheckProperties asserts that the per-mineral crystal count realized in
// the interface array of the (single, initial) pcg matches MineralsN. A
// mismatch means the interface-array correction failed. Intended to be
// called right after New.
func (m *Model) CheckProperties() error {
	if len(m.Pcgs) != 1 {
		return nil
	}
	counts := calculateActualMineralsN(m.Pcgs[0].Minerals, m.NMinerals)
	for mi, want := range m.MineralsN {
		if counts[mi] != want {
			return newError(InvalidInput, "sedgen: crystal count mismatch for mineral %d: interface array has %d, minerals_N has %d", mi, counts[mi], want)
		}
	}
	return nil
}
