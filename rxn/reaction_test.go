// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rxn

import (
	"testing"

	"github.com/afcarl/chemreac/jac"
	"github.com/cpmech/gosl/chk"
)

func Test_rxn01_simple(tst *testing.T) {

	chk.PrintTitle("rxn01: A->B, n=2, N=1, k=5")

	net := &Network{Rxns: []Reaction{{Reac: []int{0}, Prod: []int{1}, K: 5}}}
	C := []float64{2, 3}
	f := make([]float64, 2)
	if err := net.AddF(0, C, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f", 1e-15, f, []float64{-10, 10})

	acc := &jac.Accum{}
	if err := net.AddJac(0, 0, C, acc); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	cons := acc.Consolidate()
	got := map[[2]int]float64{}
	for _, e := range cons.Entries {
		got[[2]int{e.I, e.J}] = e.V
	}
	if v := got[[2]int{0, 0}]; v != -5 {
		tst.Fatalf("J[0,0]=%g, want -5", v)
	}
	if v := got[[2]int{1, 0}]; v != 5 {
		tst.Fatalf("J[1,0]=%g, want 5", v)
	}
}

func Test_rxn02_active_species(tst *testing.T) {

	chk.PrintTitle("rxn02: A+C -(active A,C)-> B+C, n=3, k=5")

	net := &Network{Rxns: []Reaction{{
		Reac: []int{0, 2}, Prod: []int{1, 2}, Actv: []int{0, 2}, K: 5,
	}}}
	C := []float64{2, 3, 7}
	f := make([]float64, 3)
	if err := net.AddF(0, C, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f", 1e-12, f, []float64{-140, 70, 0})
}

func Test_rxn03_empty_actv_means_full_reactant(tst *testing.T) {

	chk.PrintTitle("rxn03: empty actv resolves to full reactant multiset")

	r := &Reaction{Reac: []int{0, 0, 1}, Prod: []int{2}}
	actv := r.ActiveSpecies()
	if len(actv) != 3 {
		tst.Fatalf("expected ActiveSpecies to mirror Reac, got %v", actv)
	}
}

func Test_rxn04_bin_k_factor_modulation(tst *testing.T) {

	chk.PrintTitle("rxn04: bin_k_factor modulation per literal cumulative-span rule")

	net := &Network{
		BinKFactor:     [][]float64{{2, 3, 5}},
		BinKFactorSpan: []int{1, 1, 1},
	}
	// r=0: cum after m=0 is 1, 0<1 true -> includes row[0]=2; cum after m=1
	// is 2, 0<2 true -> includes row[1]=3; cum after m=2 is 3, 0<3 true ->
	// includes row[2]=5. Literal reading: product = 2*3*5 = 30.
	if mu := net.Mu(0, 0); mu != 30 {
		tst.Fatalf("Mu(0,0)=%g, want 30", mu)
	}
	// r=3 is beyond total span (3) -> unmodulated.
	if mu := net.Mu(3, 0); mu != 1 {
		tst.Fatalf("Mu(3,0)=%g, want 1 (unmodulated)", mu)
	}
}

func Test_rxn05_validate(tst *testing.T) {

	chk.PrintTitle("rxn05: Validate rejects out-of-range and over-active species")

	r := &Reaction{Reac: []int{0}, Prod: []int{1}, Actv: []int{0, 0}}
	if err := r.Validate(2); err == nil {
		tst.Fatalf("expected ShapeMismatch for actv count exceeding reac count")
	}
	r2 := &Reaction{Reac: []int{5}, Prod: []int{0}}
	if err := r2.Validate(2); err == nil {
		tst.Fatalf("expected ShapeMismatch for out-of-range species")
	}
}

func Test_rxn06_kprms(tst *testing.T) {

	chk.PrintTitle("rxn06: KPrms exposes rate coefficients as named fun.Prms")

	net := &Network{Rxns: []Reaction{
		{Reac: []int{0}, Prod: []int{1}, K: 5, KErr: 0.1},
		{Reac: []int{1}, Prod: []int{0}, K: 2},
	}}
	prms := net.KPrms()
	byName := map[string]float64{}
	for _, p := range prms {
		byName[p.N] = p.V
	}
	if byName["k0"] != 5 {
		tst.Fatalf("k0=%g, want 5", byName["k0"])
	}
	if byName["k0_err"] != 0.1 {
		tst.Fatalf("k0_err=%g, want 0.1", byName["k0_err"])
	}
	if byName["k1"] != 2 {
		tst.Fatalf("k1=%g, want 2", byName["k1"])
	}
	if _, has := byName["k1_err"]; has {
		tst.Fatalf("k1_err should be absent when KErr is zero")
	}
}

func Test_rxn07_bin_k_factor_shape(tst *testing.T) {

	chk.PrintTitle("rxn07: CheckBinKFactor rejects short rows via utl.BoolAllTrue")

	net := &Network{
		BinKFactor:     [][]float64{{1, 2}, {1}},
		BinKFactorSpan: []int{1, 1},
	}
	if err := net.CheckBinKFactor(2); err == nil {
		tst.Fatalf("expected ShapeMismatch for short bin_k_factor row")
	}
}
