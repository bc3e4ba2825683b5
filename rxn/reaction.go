// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rxn evaluates a chemical reaction network's rate law and its
// contribution to f and the Jacobian, per bin (spec.md §4.2). It mirrors
// mdl/diffusion's Kval/DkDu pairing: one small per-reaction value-and-
// derivative pair evaluated many times over the bin loop.
package rxn

import (
	"fmt"
	"math"

	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/jac"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"
)

// Reaction is one reaction's stoichiometry and base rate coefficient.
// Reac, Prod and Actv are ordered multisets of species indices (repeated
// indices count as stoichiometric coefficients > 1), following the
// descriptor layout of §3.
type Reaction struct {
	Reac []int // reactant multiset
	Prod []int // product multiset
	Actv []int // active-species multiset; empty means "= Reac" (see ActiveSpecies)
	K    float64
	KErr float64
}

// ActiveSpecies resolves the stoich_actv=[] ambiguity documented in
// DESIGN.md: an empty active list means every reactant participates in the
// rate law at its full reactant multiplicity.
func (r *Reaction) ActiveSpecies() []int {
	if len(r.Actv) == 0 {
		return r.Reac
	}
	return r.Actv
}

// count returns how many times species s occurs in multiset m.
func count(m []int, s int) int {
	c := 0
	for _, v := range m {
		if v == s {
			c++
		}
	}
	return c
}

// netStoich returns prod.count(s) - reac.count(s).
func (r *Reaction) netStoich(s int) int {
	return count(r.Prod, s) - count(r.Reac, s)
}

// NetStoich exposes netStoich for diagnostic callers outside this package
// (spec.md §4.6's per_rxn_contrib_to_fi).
func (r *Reaction) NetStoich(s int) int {
	return r.netStoich(s)
}

// Validate checks the §3 invariant actv[r].count(s) <= reac[r].count(s) for
// every species appearing in the active multiset, and that every index is
// in [0,n).
func (r *Reaction) Validate(n int) error {
	for _, s := range r.Reac {
		if s < 0 || s >= n {
			return errs.New(errs.ShapeMismatch, "reactant species index %d out of range [0,%d)", s, n)
		}
	}
	for _, s := range r.Prod {
		if s < 0 || s >= n {
			return errs.New(errs.ShapeMismatch, "product species index %d out of range [0,%d)", s, n)
		}
	}
	for _, s := range r.Actv {
		if s < 0 || s >= n {
			return errs.New(errs.ShapeMismatch, "active species index %d out of range [0,%d)", s, n)
		}
		if count(r.Actv, s) > count(r.Reac, s) {
			return errs.New(errs.ShapeMismatch, "active count of species %d exceeds reactant count", s)
		}
	}
	return nil
}

// Network is the full set of reactions plus the per-bin rate-coefficient
// modulation table (spec.md §3, bin_k_factor / bin_k_factor_span).
type Network struct {
	Rxns           []Reaction
	BinKFactor     [][]float64 // [N][M]
	BinKFactorSpan []int       // [M], non-negative
}

// Mu computes the per-bin modulation factor μ(r,bi): the literal §4.2
// reading is a product over every span index m whose cumulative span
// Σ_{p<=m} span[p] still exceeds r, not merely the one enclosing span;
// since cumulative sums are non-decreasing this means every m at or past
// the span containing r contributes a factor, and reactions at or beyond
// the total Σ span are unmodulated (empty product = 1).
func (net *Network) Mu(r, bi int) float64 {
	mu := 1.0
	if bi < 0 || bi >= len(net.BinKFactor) {
		return mu
	}
	row := net.BinKFactor[bi]
	cum := 0
	for m, span := range net.BinKFactorSpan {
		cum += span
		if r < cum && m < len(row) {
			mu *= row[m]
		}
	}
	return mu
}

// Rate computes rate(r,bi) per spec.md §4.2. C is the linear concentration
// vector for bin bi (length n, already exp'd by the caller under logy).
func (net *Network) Rate(r, bi int, C []float64) float64 {
	rx := &net.Rxns[r]
	rate := rx.K * net.Mu(r, bi)
	for _, s := range rx.ActiveSpecies() {
		rate *= C[s]
	}
	return rate
}

// AddF adds every reaction's contribution to f[bi,:] (length n, the bin's
// slice of the global residual) given the bin's linear concentrations C.
func (net *Network) AddF(bi int, C []float64, f []float64) error {
	n := len(C)
	for r := range net.Rxns {
		rx := &net.Rxns[r]
		rate := net.Rate(r, bi, C)
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return errs.New(errs.NumericOverflow, "reaction %d rate is NaN/Inf at bin %d", r, bi)
		}
		for s := 0; s < n; s++ {
			ns := rx.netStoich(s)
			if ns != 0 {
				f[s] += float64(ns) * rate
			}
		}
	}
	return nil
}

// AddJac appends every reaction's block-diagonal Jacobian contribution for
// bin bi to acc, using global state indices base+s (base = bi*n). Per
// spec.md §4.2: ∂f[bi,s]/∂C[bi,s'] += netStoich(s)·actv.count(s')·rate/C[s'],
// for s' in the active multiset only.
func (net *Network) AddJac(bi int, base int, C []float64, acc *jac.Accum) error {
	n := len(C)
	for r := range net.Rxns {
		rx := &net.Rxns[r]
		rate := net.Rate(r, bi, C)
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return errs.New(errs.NumericOverflow, "reaction %d rate is NaN/Inf at bin %d", r, bi)
		}
		actv := rx.ActiveSpecies()
		for s := 0; s < n; s++ {
			ns := rx.netStoich(s)
			if ns == 0 {
				continue
			}
			for _, sp := range uniq(actv) {
				cnt := count(actv, sp)
				if C[sp] == 0 {
					continue
				}
				v := float64(ns) * float64(cnt) * rate / C[sp]
				acc.Add(base+s, base+sp, v)
			}
		}
	}
	return nil
}

// uniq returns the distinct values in m, used to avoid emitting the same
// (s,s') Jacobian contribution once per repeated occurrence of s' in the
// active multiset (the stoichiometric count already carries the multiplicity).
func uniq(m []int) []int {
	seen := make(map[int]bool, len(m))
	var out []int
	for _, v := range m {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// CheckBinKFactor validates the bin_k_factor table shape against the
// network's bin count, failing with ShapeMismatch on mismatch. The
// per-row length check is collapsed through utl.BoolAllTrue, the same
// "all or nothing" idiom M1.Init uses for its kx/ky/kz completeness check
// (mdl/diffusion/m1.go).
func (net *Network) CheckBinKFactor(N int) error {
	if len(net.BinKFactorSpan) == 0 {
		return nil
	}
	if len(net.BinKFactor) != N {
		return errs.New(errs.ShapeMismatch, "bin_k_factor must have N=%d rows, got %d", N, len(net.BinKFactor))
	}
	long := make([]bool, len(net.BinKFactor))
	for i, row := range net.BinKFactor {
		long[i] = len(row) >= len(net.BinKFactorSpan)
	}
	if !utl.BoolAllTrue(long) {
		return errs.New(errs.ShapeMismatch, "every bin_k_factor row must have at least len(bin_k_factor_span)=%d columns", len(net.BinKFactorSpan))
	}
	return nil
}

// KPrms exposes the network's rate coefficients (and, where nonzero,
// their error bars) as a fun.Prms list, the same named-parameter shape
// inp.Mat.Prms carries material parameters in (spec.md §6's k/k_err
// pairs, connected the way mdl/diffusion/m1.go's M1.Init connects
// a0..a3). Front ends and diagnostics can inspect or serialize rate
// coefficients through this without reaching into Network.Rxns directly.
func (net *Network) KPrms() fun.Prms {
	prms := make(fun.Prms, 0, 2*len(net.Rxns))
	for r := range net.Rxns {
		rx := &net.Rxns[r]
		prms = append(prms, &fun.Prm{N: fmt.Sprintf("k%d", r), V: rx.K})
		if rx.KErr != 0 {
			prms = append(prms, &fun.Prm{N: fmt.Sprintf("k%d_err", r), V: rx.KErr})
		}
	}
	return prms
}
