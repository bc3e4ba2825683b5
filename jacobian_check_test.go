// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemreac

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

// Test_jaccheck01 mirrors msolid/driver.go's analytic-vs-numeric-derivative
// check (num.DerivCen + chk.PrintAnaNum): it verifies DenseJacRowMajor
// against a central-difference approximation of F for a small reaction
// network with diffusion, confirming the Jacobian assembly is consistent
// with the residual it differentiates.
func Test_jaccheck01_dense_jacobian_matches_numeric_deriv(tst *testing.T) {

	chk.PrintTitle("jaccheck01: analytic vs numeric Jacobian, reaction+diffusion")

	sys, err := New(Config{
		NSpecies:   2,
		StoichReac: [][]int{{0}},
		StoichProd: [][]int{{1}},
		K:          []float64{3},
		N:          3,
		X:          []float64{0, 1, 2, 3},
		Nstencil:   3,
		D:          []float64{0.5, 0.5},
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	nn := sys.nn()
	y := []float64{1.5, 0.7, 1.1, 0.9, 0.8, 1.2}
	jana := make([]float64, nn*nn)
	if err := sys.DenseJacRowMajor(0, y, jana); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	ywork := append([]float64{}, y...)
	fwork := make([]float64, nn)
	hasErr := false
	for i := 0; i < nn; i++ {
		for j := 0; j < nn; j++ {
			// the imperfect-Jacobian contract (spec.md §4.3, §8 property 3)
			// only ever emits couplings within one bin of each other; F
			// itself may still sum a wider stencil's reach at boundary
			// bins, so a numeric/analytic comparison is only meaningful
			// inside that band.
			bi, bj := i/sys.N, j/sys.N
			if bi-bj > 1 || bj-bi > 1 {
				continue
			}
			dnum := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
				old := ywork[j]
				ywork[j] = x
				if err := sys.F(0, ywork, fwork); err != nil {
					tst.Fatalf("unexpected error in F during numeric derivative: %v", err)
				}
				res = fwork[i]
				ywork[j] = old
				return
			}, y[j])
			ana := jana[i*nn+j]
			if err := chk.PrintAnaNum("J", 1e-6, ana, dnum, false); err != nil {
				tst.Errorf("J[%d][%d]: %v", i, j, err)
				hasErr = true
			}
		}
	}
	if hasErr {
		tst.Fatalf("analytic/numeric Jacobian mismatch")
	}
}
