// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package efield computes the self-consistent electric field from signed
// charge density via a Poisson-like shell-volume quadrature (spec.md
// §4.5), grounded on ele/diffusion's Phi element's role of carrying one
// scalar field derived from the solution across the grid.
package efield

import (
	"math"

	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/grid"
)

// ShellVolume returns the geometric volume element V(bi) between x[bi] and
// x[bi+1]: Δx for Flat, π(x[i+1]²−x[i]²) for Cylindrical, (4π/3)(x[i+1]³−x[i]³)
// for Spherical (spec.md §4.5 step 1).
func ShellVolume(g *grid.Grid, bi int) float64 {
	x0, x1 := g.X[bi], g.X[bi+1]
	switch g.Geom {
	case grid.Cylindrical:
		return math.Pi * (x1*x1 - x0*x0)
	case grid.Spherical:
		return (4.0 / 3.0) * math.Pi * (x1*x1*x1 - x0*x0*x0)
	default:
		return x1 - x0
	}
}

// Area returns the geometric area element A(i) at bin center xc[i]: 1 for
// Flat, 2π·xc for Cylindrical, 4π·xc² for Spherical (spec.md §4.5 step 3).
func Area(g *grid.Grid, xc float64) float64 {
	switch g.Geom {
	case grid.Cylindrical:
		return 2 * math.Pi * xc
	case grid.Spherical:
		return 4 * math.Pi * xc * xc
	default:
		return 1
	}
}

// Solver holds the fixed boundary-charge and permittivity parameters used
// to recompute E on every f evaluation (spec.md §3: surf_chg, eps, xscale).
type Solver struct {
	Ql, Qr float64 // fixed surface charges at the left/right ends
	Eps    float64 // medium permittivity
	Xscale float64 // length rescaling factor from the configuration; Compute does not apply it
}

// Compute fills E[0..N) from the current concentration state, per spec.md
// §4.5. C is bin-major [N][n] (species index fastest), zChg is length n.
// Returns a ChargeImbalance error when the enclosed charge Q[N]+Qr does not
// close to within 1e-9 times the total |charge| Σ|q|; smaller imbalances
// give a nil error, and a caller that wants to treat them as a warning may
// inspect the returned imbalance value.
func (s *Solver) Compute(g *grid.Grid, C [][]float64, zChg []float64, E []float64) (imbalance float64, err error) {
	N := g.N
	if len(E) < N {
		return 0, errs.New(errs.ShapeMismatch, "E buffer too small: need %d, got %d", N, len(E))
	}
	q := make([]float64, N)
	var sumAbs float64
	for bi := 0; bi < N; bi++ {
		V := ShellVolume(g, bi)
		var qi float64
		for si, z := range zChg {
			if z == 0 {
				continue
			}
			qi += z * C[bi][si] * V
		}
		q[bi] = qi
		sumAbs += math.Abs(qi)
	}

	Q := make([]float64, N+1)
	Q[0] = s.Ql
	for i := 0; i < N; i++ {
		Q[i+1] = Q[i] + q[i]
	}
	imbalance = Q[N] + s.Qr
	if math.Abs(imbalance) > 1e-9*sumAbs {
		return imbalance, errs.New(errs.ChargeImbalance, "enclosed charge does not close: imbalance=%g, sum|q|=%g", imbalance, sumAbs)
	}

	ns := g.Nsidep
	for i := 0; i < N; i++ {
		A := Area(g, g.Xc[ns+i])
		if A == 0 || s.Eps == 0 {
			return imbalance, errs.New(errs.NumericOverflow, "degenerate area/permittivity computing E[%d]", i)
		}
		Ei := Q[i] / (s.Eps * A)
		if math.IsNaN(Ei) || math.IsInf(Ei, 0) {
			return imbalance, errs.New(errs.NumericOverflow, "E[%d] is NaN/Inf", i)
		}
		E[i] = Ei
	}
	return imbalance, nil
}

// IntegratedConc computes the quadrature of a scalar bin-indexed field C
// against shell volumes (spec.md §4.6, used diagnostically and by tests
// to confirm geometry consistency).
func IntegratedConc(g *grid.Grid, C []float64) float64 {
	var sum float64
	for bi := 0; bi < g.N; bi++ {
		sum += C[bi] * ShellVolume(g, bi)
	}
	return sum
}
