// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport assembles the diffusion and electric-field drift
// contribution to f and the tridiagonal-block Jacobian contribution
// (spec.md §4.3), playing the role ele/diffusion's AddToRhs/AddToKb pair
// plays for the teacher's single-field diffusion element, generalized to
// one contribution per species per bin.
package transport

import (
	"math"

	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/grid"
	"github.com/afcarl/chemreac/jac"
)

// Species holds the per-species transport coefficients (spec.md §3):
// diffusivity D, signed charge ZChg, and mobility.
type Species struct {
	D        float64
	DErr     float64
	ZChg     float64
	Mobility float64
}

// AddDiffusionF adds the diffusion contribution of species s at bin i to
// f[i,s], reading the stencil window of species s's concentrations through
// g.PxciToBi (spec.md §4.3). No ghost-padded concentration array is built:
// callers pass Cbins (length N, the real per-bin concentrations) and this
// function performs the pxci_to_bi indirection itself.
func AddDiffusionF(g *grid.Grid, sp *Species, i int, Cbins []float64, f []float64) error {
	lb := g.Lb[i]
	var acc float64
	for k := 0; k < g.Nstencil; k++ {
		bj := g.PxciToBi[lb+k]
		acc += g.W[i][k] * Cbins[bj]
	}
	acc *= sp.D
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return errs.New(errs.NumericOverflow, "diffusion contribution to f[%d] is NaN/Inf", i)
	}
	f[i] += acc
	return nil
}

// AddDiffusionJac appends species s's diffusion Jacobian contribution at
// bin i: ∂f[i,s]/∂C[j,s] = D[s]*W[i,k] for every j in the stencil reach
// (spec.md §4.3). stateIdx maps a bin index to the global row/col index of
// species s in that bin. Per the
// imperfect-Jacobian contract, entries with |i-j|>1 in bin index are
// dropped even though the stencil itself may reach further.
func AddDiffusionJac(g *grid.Grid, sp *Species, i int, stateIdx func(bin int) int, acc *jac.Accum) {
	lb := g.Lb[i]
	row := stateIdx(i)
	for k := 0; k < g.Nstencil; k++ {
		bj := g.PxciToBi[lb+k]
		if bj < i-1 || bj > i+1 {
			continue
		}
		col := stateIdx(bj)
		acc.Add(row, col, sp.D*g.W[i][k])
	}
}

// UpwindSign picks the first-order upwind direction for drift at bin i:
// when mobility*zchg*E[i] >= 0 the species drifts in the +x direction (or
// not at all), so the upwind neighbour is i-1; when it is negative it is
// i+1 (spec.md §4.3). Returns -1 or +1.
func UpwindSign(sp *Species, Ei float64) int {
	v := sp.Mobility * sp.ZChg * Ei
	if v >= 0 {
		return -1
	}
	return 1
}

// neighbourOrSelf reports whether j is a bin index in [0,N) (returning it if
// so); callers skip the drift term when the upwind neighbour lies outside
// the domain (no-flux boundary for drift).
func neighbourOrSelf(j, N int) (int, bool) {
	if j < 0 || j >= N {
		return 0, false
	}
	return j, true
}

// AddDriftF adds the upwind drift contribution of species s at bin i to
// f[i,s] given the cached electric field E (length N) and per-bin
// concentrations Cbins (spec.md §4.3). The finite-difference spacing is
// taken from the grid's real bin centers g.Xc[g.Nsidep:g.Nsidep+N].
func AddDriftF(g *grid.Grid, sp *Species, i int, E []float64, Cbins []float64, f []float64) error {
	if sp.ZChg == 0 {
		return nil
	}
	N := g.N
	sign := UpwindSign(sp, E[i])
	j, ok := neighbourOrSelf(i+sign, N)
	if !ok {
		return nil
	}
	dx := g.Xc[g.Nsidep+i] - g.Xc[g.Nsidep+j]
	if sign > 0 {
		dx = -dx
	}
	if dx == 0 {
		return errs.New(errs.InvalidGrid, "degenerate spacing for drift upwind difference at bin %d", i)
	}
	flux := sp.Mobility * sp.ZChg * (E[i]*Cbins[i] - E[j]*Cbins[j]) / dx
	if math.IsNaN(flux) || math.IsInf(flux, 0) {
		return errs.New(errs.NumericOverflow, "drift contribution to f[%d] is NaN/Inf", i)
	}
	f[i] += flux
	return nil
}

// AddDriftJac appends the same-species tridiagonal-block drift Jacobian
// contribution at bin i (the E-dependence on other species is treated
// under the imperfect-Jacobian contract of spec.md §4.3/§4.5: only the
// direct C[i,s]/C[j,s] terms are emitted, never the indirect dE/dC path).
func AddDriftJac(g *grid.Grid, sp *Species, i int, E []float64, stateIdx func(bin int) int, acc *jac.Accum) {
	if sp.ZChg == 0 {
		return
	}
	N := g.N
	sign := UpwindSign(sp, E[i])
	j, ok := neighbourOrSelf(i+sign, N)
	if !ok {
		return
	}
	dx := g.Xc[g.Nsidep+i] - g.Xc[g.Nsidep+j]
	if sign > 0 {
		dx = -dx
	}
	if dx == 0 {
		return
	}
	coef := sp.Mobility * sp.ZChg / dx
	row := stateIdx(i)
	acc.Add(row, stateIdx(i), coef*E[i])
	acc.Add(row, stateIdx(j), -coef*E[j])
}
