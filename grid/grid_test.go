// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_grid01(tst *testing.T) {

	chk.PrintTitle("grid01: lrefl=true, rrefl=false, 3 bins")

	x := []float64{5, 9, 13, 15}
	g, err := New(x, 3, Flat, true, false, false)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	chk.Vector(tst, "xc", 1e-15, g.Xc, []float64{3, 7, 11, 14, 16})
	chk.Ints(tst, "lb", g.Lb, []int{0, 1, 1})

	wref := []float64{
		1.0 / 16, -1.0 / 8, 1.0 / 16,
		1.0 / 14, -1.0 / 6, 2.0 / 21,
		1.0 / 14, -1.0 / 6, 2.0 / 21,
	}
	var wflat []float64
	for _, row := range g.W {
		wflat = append(wflat, row...)
	}
	chk.Vector(tst, "W", 1e-13, wflat, wref)
}

func Test_grid02(tst *testing.T) {

	chk.PrintTitle("grid02: lrefl=false, rrefl=true, 3 bins")

	x := []float64{5, 9, 13, 15}
	g, err := New(x, 3, Flat, false, true, false)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	chk.Vector(tst, "xc", 1e-15, g.Xc, []float64{3, 7, 11, 14, 16})
	chk.Ints(tst, "lb", g.Lb, []int{1, 1, 2})

	wref := []float64{
		1.0 / 14, -1.0 / 6, 2.0 / 21,
		1.0 / 14, -1.0 / 6, 2.0 / 21,
		2.0 / 15, -1.0 / 3, 1.0 / 5,
	}
	var wflat []float64
	for _, row := range g.W {
		wflat = append(wflat, row...)
	}
	chk.Vector(tst, "W", 1e-13, wflat, wref)
}

func Test_grid03(tst *testing.T) {

	chk.PrintTitle("grid03: uniform grid, nstencil=5, no reflection")

	x := make([]float64, 9)
	for i := range x {
		x[i] = float64(2 * (i + 1))
	}
	g, err := New(x, 5, Flat, false, false, false)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	wref := []float64{-1.0 / 48, 1.0 / 3, -5.0 / 8, 1.0 / 3, -1.0 / 48}
	for i := 2; i < g.N-2; i++ {
		chk.Vector(tst, "W interior row", 1e-12, g.W[i], wref)
	}
}

func Test_grid04_rowsum_zero(tst *testing.T) {

	chk.PrintTitle("grid04: constant-field invariant: row sums of W are zero")

	cases := []struct {
		geom         Geometry
		logx         bool
		lrefl, rrefl bool
	}{
		{Flat, false, true, true},
		{Cylindrical, false, true, false},
		{Spherical, false, false, true},
		{Flat, true, true, true},
		{Spherical, true, false, false},
	}
	x := []float64{1, 2, 3.5, 5, 8, 9}
	for _, c := range cases {
		g, err := New(x, 3, c.geom, c.lrefl, c.rrefl, c.logx)
		if err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < g.N; i++ {
			var sum float64
			for _, w := range g.W[i] {
				sum += w
			}
			if sum > 1e-9 || sum < -1e-9 {
				tst.Fatalf("row sum not zero for geom=%v logx=%v bin=%d: %g", c.geom, c.logx, i, sum)
			}
		}
	}
}

func Test_grid05_invalid(tst *testing.T) {

	chk.PrintTitle("grid05: constructor failure kinds")

	if _, err := New([]float64{1, 2, 2, 4}, 3, Flat, true, true, false); err == nil {
		tst.Fatalf("expected InvalidGrid error")
	}
	if _, err := New([]float64{1, 2, 3, 4}, 2, Flat, true, true, false); err == nil {
		tst.Fatalf("expected InvalidStencil error (even)")
	}
	if _, err := New([]float64{1, 2, 3, 4}, 5, Flat, true, true, false); err == nil {
		tst.Fatalf("expected InvalidStencil error (N<nstencil)")
	}
	if _, err := New([]float64{1, 2, 3, 4}, 3, Geometry(99), true, true, false); err == nil {
		tst.Fatalf("expected InvalidGeometry error")
	}
}
