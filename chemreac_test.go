// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemreac

import (
	"testing"

	"github.com/afcarl/chemreac/grid"
	"github.com/cpmech/gosl/chk"
)

func Test_chemreac01_simple_reaction(tst *testing.T) {

	chk.PrintTitle("chemreac01: n=2,N=1 single reaction A->B, k=5")

	sys, err := New(Config{
		NSpecies:   2,
		StoichReac: [][]int{{0}},
		StoichProd: [][]int{{1}},
		K:          []float64{5},
		N:          1,
		X:          []float64{0, 1},
		Nstencil:   1,
		D:          []float64{0, 0},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	y := []float64{2, 3}
	f := make([]float64, 2)
	if err := sys.F(0, y, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f", 1e-13, f, []float64{-10, 10})

	jout := make([]float64, 4)
	if err := sys.DenseJacRowMajor(0, y, jout); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "J", 1e-13, jout, []float64{-5, 0, 5, 0})
}

func Test_chemreac02_active_species(tst *testing.T) {

	chk.PrintTitle("chemreac02: n=3, 2A+C -(active A,C)-> B+C, k=5")

	sys, err := New(Config{
		NSpecies:   3,
		StoichReac: [][]int{{0, 0, 2}},
		StoichProd: [][]int{{1, 2}},
		StoichActv: [][]int{{0, 2}},
		K:          []float64{5},
		N:          1,
		X:          []float64{0, 1},
		Nstencil:   1,
		D:          []float64{0, 0, 0},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	y := []float64{2, 3, 7}
	f := make([]float64, 3)
	if err := sys.F(0, y, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f", 1e-12, f, []float64{-140, 70, 0})
}

func Test_chemreac03_logy_roundtrip(tst *testing.T) {

	chk.PrintTitle("chemreac03: logy round trip, A->B, k=5")

	sys, err := New(Config{
		NSpecies:   2,
		StoichReac: [][]int{{0}},
		StoichProd: [][]int{{1}},
		K:          []float64{5},
		N:          1,
		X:          []float64{0, 1},
		Nstencil:   1,
		D:          []float64{0, 0},
		LogY:       true,
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	y := []float64{0.6931471805599453, 1.0986122886681098} // ln(2), ln(3)
	f := make([]float64, 2)
	if err := sys.F(0, y, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f'", 1e-9, f, []float64{-5, 5.0 * 2.0 / 3.0})
}

func Test_chemreac04_diffusion_only(tst *testing.T) {

	chk.PrintTitle("chemreac04: 3-bin diffusion matches grid W directly")

	sys, err := New(Config{
		NSpecies:   1,
		N:          3,
		X:          []float64{5, 9, 13, 15},
		Nstencil:   3,
		LRefl:      true,
		RRefl:      false,
		D:          []float64{17},
		StoichReac: [][]int{}, StoichProd: [][]int{}, K: []float64{},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if sys.Grid.Geom != grid.Flat {
		tst.Fatalf("expected Flat geometry default")
	}
	y := []float64{1, 1, 1}
	f := make([]float64, 3)
	if err := sys.F(0, y, f); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Vector(tst, "f (constant field -> zero flux)", 1e-10, f, []float64{0, 0, 0})
}

func Test_chemreac05_shape_mismatch(tst *testing.T) {

	chk.PrintTitle("chemreac05: F fails with ShapeMismatch on bad y length")

	sys, err := New(Config{
		NSpecies:   2,
		StoichReac: [][]int{{0}},
		StoichProd: [][]int{{1}},
		K:          []float64{5},
		N:          1,
		X:          []float64{0, 1},
		Nstencil:   1,
		D:          []float64{0, 0},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	f := make([]float64, 2)
	if err := sys.F(0, []float64{1}, f); err == nil {
		tst.Fatalf("expected ShapeMismatch error")
	}
}

func Test_chemreac06b_jacobian_triplet(tst *testing.T) {

	chk.PrintTitle("chemreac06b: JacobianTriplet returns a non-nil triplet")

	sys, err := New(Config{
		NSpecies:   2,
		StoichReac: [][]int{{0}},
		StoichProd: [][]int{{1}},
		K:          []float64{5},
		N:          1,
		X:          []float64{0, 1},
		Nstencil:   1,
		D:          []float64{0, 0},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	y := []float64{2, 3}
	trip, err := sys.JacobianTriplet(0, y)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if trip == nil {
		tst.Fatalf("expected a non-nil triplet")
	}
}

func Test_chemreac06_unknown_option(tst *testing.T) {

	chk.PrintTitle("chemreac06: NewFromOptions rejects unrecognized keys")

	_, err := NewFromOptions(map[string]interface{}{"bogus": 1})
	if err == nil {
		tst.Fatalf("expected UnknownOption error")
	}
}
