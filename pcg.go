// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

// Pcg is a poly-crystalline grain: an ordered sequence of adjacent
// crystals sharing interfaces. Minerals, Sizes and ChemStates share
// alignment; Probs holds the constant breakage weight of each of the
// Len()-1 interfaces between consecutive crystals.
type Pcg struct {
	Minerals   []int
	Sizes      []int
	ChemStates []int
	Probs      []float64
}

// Len returns the number of crystals making up the pcg.
func (p *Pcg) Len() int { return len(p.Minerals) }

// clone returns a deep copy of p.
func (p *Pcg) clone() *Pcg {
	return &Pcg{
		Minerals:   append([]int(nil), p.Minerals...),
		Sizes:      append([]int(nil), p.Sizes...),
		ChemStates: append([]int(nil), p.ChemStates...),
		Probs:      append([]float64(nil), p.Probs...),
	}
}
