// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid builds the ghost-padded center array, the per-bin stencil
// window, and the geometry-corrected second-derivative finite-difference
// weights that the transport package needs (spec.md §4.1).
package grid

import (
	"math"

	"github.com/afcarl/chemreac/errs"
	"github.com/cpmech/gosl/la"
)

// Geometry selects the 1-D coordinate system the grid lives in.
type Geometry int

// recognized geometries
const (
	Flat Geometry = iota
	Cylindrical
	Spherical
)

func (g Geometry) String() string {
	switch g {
	case Flat:
		return "Flat"
	case Cylindrical:
		return "Cylindrical"
	case Spherical:
		return "Spherical"
	}
	return "Unknown"
}

// Grid holds the bin boundaries, ghost-padded centers, per-bin stencil
// window, and the resulting second-derivative weights (spec.md §3, §4.1).
type Grid struct {
	X        []float64   // [N+1] bin boundaries, strictly increasing
	N        int         // number of bins
	Nstencil int         // stencil width (odd)
	Nsidep   int         // (Nstencil-1)/2
	Geom     Geometry    // coordinate system
	LRefl    bool        // reflective (true) vs interpolating (false) left boundary
	RRefl    bool        // reflective (true) vs interpolating (false) right boundary
	LogX     bool        // u = ln(x) coordinate change
	Xc       []float64   // [N+2*Nsidep] ghost-padded centers
	Lb       []int       // [N] stencil left-bound index into Xc
	PxciToBi []int       // [N+2*Nsidep] ghost-padded center -> real bin index
	W        [][]float64 // [N][Nstencil] geometry-corrected 2nd-derivative weights
}

// New builds a Grid from bin boundaries x (length N+1, strictly increasing)
// and a stencil width. Fails with errs.InvalidGrid if x is not strictly
// monotone, errs.InvalidStencil if nstencil is even or N < nstencil, and
// errs.InvalidGeometry if geom is not recognized.
func New(x []float64, nstencil int, geom Geometry, lrefl, rrefl, logx bool) (*Grid, error) {
	if geom != Flat && geom != Cylindrical && geom != Spherical {
		return nil, errs.New(errs.InvalidGeometry, "unknown geometry %d", int(geom))
	}
	n := len(x) - 1
	if n < 1 {
		return nil, errs.New(errs.InvalidGrid, "x must have at least 2 boundaries, got %d", len(x))
	}
	for i := 0; i < n; i++ {
		if x[i+1] <= x[i] {
			return nil, errs.New(errs.InvalidGrid, "x must be strictly increasing: x[%d]=%g >= x[%d]=%g", i, x[i], i+1, x[i+1])
		}
	}
	if nstencil%2 == 0 || nstencil < 1 {
		return nil, errs.New(errs.InvalidStencil, "nstencil must be odd and positive, got %d", nstencil)
	}
	if n < nstencil {
		return nil, errs.New(errs.InvalidStencil, "N=%d must be >= nstencil=%d", n, nstencil)
	}

	g := &Grid{
		X: append([]float64{}, x...), N: n, Nstencil: nstencil,
		Nsidep: (nstencil - 1) / 2, Geom: geom, LRefl: lrefl, RRefl: rrefl, LogX: logx,
	}
	g.buildCenters()
	g.buildLeftBounds()
	g.buildPxciMap()
	g.buildWeights()
	return g, nil
}

// realCenters returns the N un-padded bin centers c[i] = (x[i]+x[i+1])/2.
func (g *Grid) realCenters() []float64 {
	c := make([]float64, g.N)
	for i := 0; i < g.N; i++ {
		c[i] = 0.5 * (g.X[i] + g.X[i+1])
	}
	return c
}

// buildCenters fills Xc: Nsidep ghost centers, N real centers, Nsidep ghost
// centers. On both sides the ghost centers are the nearest real centers
// mirrored about the boundary point (a linear extrapolation through it),
// whatever the boundary policy; LRefl/RRefl only decide whether a stencil
// may reach them (see buildLeftBounds) (spec.md §4.1).
func (g *Grid) buildCenters() {
	c := g.realCenters()
	ns := g.Nsidep
	N := g.N
	xc := make([]float64, N+2*ns)
	for i := 0; i < N; i++ {
		xc[ns+i] = c[i]
	}
	x0, xN := g.X[0], g.X[N]
	for k := 0; k < ns; k++ {
		xc[ns-1-k] = 2*x0 - c[k]
		xc[ns+N+k] = 2*xN - c[N-1-k]
	}
	g.Xc = xc
}

// buildLeftBounds fills Lb: bin i's stencil window is Xc[Lb[i]:Lb[i]+Nstencil],
// naturally centered (Lb[i]=i) then clamped so the window does not cross a
// non-reflective boundary's forbidden ghost region (spec.md §4.1).
func (g *Grid) buildLeftBounds() {
	ns, N, nst := g.Nsidep, g.N, g.Nstencil
	lb := make([]int, N)
	for i := 0; i < N; i++ {
		v := i
		if !g.LRefl && v < ns {
			v = ns
		}
		if !g.RRefl {
			max := N + ns - nst
			if v > max {
				v = max
			}
		}
		lb[i] = v
	}
	g.Lb = lb
}

// buildPxciMap fills PxciToBi: every padded-center slot maps back to the
// real bin index whose concentration the finite-difference scheme should
// read from there (mirrored across each boundary).
func (g *Grid) buildPxciMap() {
	ns, N := g.Nsidep, g.N
	m := make([]int, N+2*ns)
	for j := range m {
		switch {
		case j < ns:
			m[j] = ns - 1 - j
		case j < ns+N:
			m[j] = j - ns
		default:
			k := j - (ns + N)
			m[j] = N - 1 - k
		}
	}
	g.PxciToBi = m
}

// buildWeights computes, per bin, the geometry-corrected second-derivative
// finite-difference weights (spec.md §4.1). Under LogX the operator is
// built in u=ln(x) space and converted back: d/dx = (1/x)d/du and
// d2/dx2 = (1/x^2)(d2/du2 - d/du).
func (g *Grid) buildWeights() {
	ns, nst := g.Nsidep, g.Nstencil
	g.W = la.MatAlloc(g.N, nst)
	for i := 0; i < g.N; i++ {
		lb := g.Lb[i]
		nodes := g.Xc[lb : lb+nst]
		z := g.Xc[ns+i]

		var corr float64
		switch g.Geom {
		case Cylindrical:
			corr = 1.0 / z
		case Spherical:
			corr = 2.0 / z
		}

		if !g.LogX {
			c := fornberg(nodes, z, 2)
			for k := 0; k < nst; k++ {
				g.W[i][k] = c[2][k] + corr*c[1][k]
			}
			continue
		}

		u := make([]float64, nst)
		for k, xv := range nodes {
			u[k] = math.Log(xv)
		}
		zu := math.Log(z)
		c := fornberg(u, zu, 2)
		for k := 0; k < nst; k++ {
			d1 := c[1][k] / z
			d2 := (c[2][k] - c[1][k]) / (z * z)
			g.W[i][k] = d2 + corr*d1
		}
	}
}
