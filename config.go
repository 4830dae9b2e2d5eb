// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import "math"

// Default construction parameters.
const (
	DefaultLearningRate   = 1000
	DefaultNTimesteps     = 100
	DefaultNStandardCases = 2000
	DefaultIntraCBP       = 0.5
	DefaultIntraCBThresh  = 1.0 / 256.0
	DefaultChemWeathRate  = 0.01
	DefaultTruncLeft      = 1.0 / 256.0
	DefaultTruncRight     = 30.0
	DefaultNBins          = 100
)

// Config holds the parent-rock description and tuning parameters a Model
// is built from. Optional fields left at their zero value are filled with
// defaults by New.
type Config struct {
	// Minerals is the ordered mineral label list; its order is canonical
	// everywhere else (interface_array, mcg, matrices, ...).
	Minerals []string

	// ParentRockVolume is the total volume (mm³ or an arbitrary unit
	// consistent with the CSD) represented by the model.
	ParentRockVolume float64

	// ModalMineralogy holds the volumetric proportion of each mineral;
	// must sum to 1.
	ModalMineralogy []float64

	// CSDMeans and CSDStds parameterise each mineral's truncated
	// log-normal crystal-size distribution (mm).
	CSDMeans []float64
	CSDStds  []float64

	// InterfacialComposition optionally overrides the predicted interface
	// proportions (outer product of number proportions) with a supplied
	// M×M matrix; nil uses the predicted proportions.
	InterfacialComposition [][]float64

	// LearningRate controls CSD batch sizing (see csd.GenerateCrystals).
	LearningRate int

	// NTimesteps bounds the weathering step loop and the chem-state axis.
	NTimesteps int

	// NStandardCases is the largest pcg length to precompute a location
	// probability table for.
	NStandardCases int

	// NBins is the number of logarithmic size/volume bins (B).
	NBins int

	// TruncLeft and TruncRight bound every mineral's CSD (mm).
	TruncLeft, TruncRight float64

	// IntraCBP, IntraCBThresholds, ChemWeathRates are each broadcast to
	// length len(Minerals) if given length 1 (mineral_property_setter).
	IntraCBP          []float64
	IntraCBThresholds []float64
	ChemWeathRates    []float64

	// EnableInterfaceLocationProb toggles the location-weight table in the
	// probability engine (default true). A nil pointer means "unset"; use
	// Bool(false) to explicitly disable it, since the Go zero value for a
	// plain bool can't be told apart from an explicit false.
	EnableInterfaceLocationProb *bool

	// EnableMultiPCGBreakage breaks a pcg at every interface whose
	// normalized probability strictly exceeds the selected one, instead of
	// only the single selected interface (default false).
	EnableMultiPCGBreakage bool

	// EnablePCGSelection is reserved for a future volume-weighted pcg
	// sampling policy; it is validated but currently a no-op.
	EnablePCGSelection bool

	// Verbose gates the gosl/io progress narration during initialization
	// (default true). nil means "unset"; see EnableInterfaceLocationProb.
	Verbose *bool
}

// Bool returns a pointer to v, for populating the *bool "default true"
// Config fields (EnableInterfaceLocationProb, Verbose) where the zero
// value of a plain bool cannot stand for "caller didn't set this".
func Bool(v bool) *bool { return &v }

// withDefaults returns a copy of cfg with zero-valued optional fields
// filled in.
func (cfg Config) withDefaults() Config {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = DefaultLearningRate
	}
	if cfg.NTimesteps == 0 {
		cfg.NTimesteps = DefaultNTimesteps
	}
	if cfg.NStandardCases == 0 {
		cfg.NStandardCases = DefaultNStandardCases
	}
	if cfg.NBins == 0 {
		cfg.NBins = DefaultNBins
	}
	if cfg.TruncLeft == 0 {
		cfg.TruncLeft = DefaultTruncLeft
	}
	if cfg.TruncRight == 0 {
		cfg.TruncRight = DefaultTruncRight
	}
	if len(cfg.IntraCBP) == 0 {
		cfg.IntraCBP = []float64{DefaultIntraCBP}
	}
	if len(cfg.IntraCBThresholds) == 0 {
		cfg.IntraCBThresholds = []float64{DefaultIntraCBThresh}
	}
	if len(cfg.ChemWeathRates) == 0 {
		cfg.ChemWeathRates = []float64{DefaultChemWeathRate}
	}
	if cfg.EnableInterfaceLocationProb == nil {
		cfg.EnableInterfaceLocationProb = Bool(true)
	}
	if cfg.Verbose == nil {
		cfg.Verbose = Bool(true)
	}
	return cfg
}

// validate checks the construction inputs: modal mineralogy not summing
// to 1, length mismatches, a non-positive parent volume, and non-finite
// CSD parameters are all rejected as InvalidInput.
func (cfg Config) validate() error {
	m := len(cfg.Minerals)
	if m == 0 {
		return newError(InvalidInput, "sedgen: Minerals must be non-empty")
	}
	if !(cfg.ParentRockVolume > 0) {
		return newError(InvalidInput, "sedgen: ParentRockVolume must be positive; got %g", cfg.ParentRockVolume)
	}
	if len(cfg.ModalMineralogy) != m {
		return newError(InvalidInput, "sedgen: ModalMineralogy has length %d, want %d", len(cfg.ModalMineralogy), m)
	}
	if len(cfg.CSDMeans) != m {
		return newError(InvalidInput, "sedgen: CSDMeans has length %d, want %d", len(cfg.CSDMeans), m)
	}
	if len(cfg.CSDStds) != m {
		return newError(InvalidInput, "sedgen: CSDStds has length %d, want %d", len(cfg.CSDStds), m)
	}

	sum := 0.0
	for i, p := range cfg.ModalMineralogy {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return newError(InvalidInput, "sedgen: ModalMineralogy[%d] is invalid: %g", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-8 {
		return newError(InvalidInput, "sedgen: ModalMineralogy sums to %g, want 1.0", sum)
	}

	for i, v := range cfg.CSDMeans {
		if !(v > 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(InvalidInput, "sedgen: CSDMeans[%d] must be finite and positive; got %g", i, v)
		}
	}
	for i, v := range cfg.CSDStds {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(InvalidInput, "sedgen: CSDStds[%d] must be finite; got %g", i, v)
		}
	}

	if cfg.InterfacialComposition != nil {
		if len(cfg.InterfacialComposition) != m {
			return newError(InvalidInput, "sedgen: InterfacialComposition has %d rows, want %d", len(cfg.InterfacialComposition), m)
		}
		for i, row := range cfg.InterfacialComposition {
			if len(row) != m {
				return newError(InvalidInput, "sedgen: InterfacialComposition row %d has length %d, want %d", i, len(row), m)
			}
		}
	}

	for _, p := range [][]float64{cfg.IntraCBP, cfg.IntraCBThresholds, cfg.ChemWeathRates} {
		if len(p) != 0 && len(p) != 1 && len(p) != m {
			return newError(InvalidInput, "sedgen: per-mineral property has length %d, want 1 or %d", len(p), m)
		}
	}

	return nil
}

// broadcastProperty expands a length-1 property to apply uniformly to
// every mineral; a length-M property is used as-is.
func broadcastProperty(p []float64, nMinerals int) []float64 {
	if len(p) == 1 {
		out := make([]float64, nMinerals)
		for i := range out {
			out[i] = p[0]
		}
		return out
	}
	return append([]float64(nil), p...)
}
