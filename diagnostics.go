// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemreac

import (
	"math"

	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/jac"
	"github.com/afcarl/chemreac/transport"
)

// overflowThreshold bounds |y| in logy mode: exp(750) overflows float64,
// so anything near that magnitude is treated as NumericOverflow before it
// propagates into exp() (spec.md §4.7).
const overflowThreshold = 700.0

// linearConc converts y (length N*n) into C[bi][s] linear concentrations,
// exponentiating under LogY and failing with NumericOverflow if any
// exponent would overflow (spec.md §4.2, §4.7).
func (sys *System) linearConc(y []float64) ([][]float64, error) {
	N, n := sys.Grid.N, sys.N
	C := make([][]float64, N)
	for bi := 0; bi < N; bi++ {
		C[bi] = make([]float64, n)
		for s := 0; s < n; s++ {
			v := y[sys.idx(bi, s)]
			if sys.LogY {
				if v > overflowThreshold || v < -overflowThreshold {
					return nil, errs.New(errs.NumericOverflow, "logy concentration exp(%g) would overflow at bin %d species %d", v, bi, s)
				}
				v = math.Exp(v)
			}
			C[bi][s] = v
		}
	}
	return C, nil
}

// flatten lays C[bi][s] out bin-major into a length N*n slice.
func flatten(C [][]float64) []float64 {
	N := len(C)
	if N == 0 {
		return nil
	}
	n := len(C[0])
	out := make([]float64, N*n)
	for bi := 0; bi < N; bi++ {
		copy(out[bi*n:(bi+1)*n], C[bi])
	}
	return out
}

// zChgVec extracts the z_chg vector from the per-species transport data.
func (sys *System) zChgVec() []float64 {
	z := make([]float64, len(sys.Species))
	for s, sp := range sys.Species {
		z[s] = sp.ZChg
	}
	return z
}

// refreshField recomputes the cached E from the current concentrations
// when an electric field is configured (spec.md §4.5). A ChargeImbalance
// is returned as an error only when Compute judged it fatal.
func (sys *System) refreshField(C [][]float64) error {
	if sys.Efield == nil {
		return nil
	}
	_, err := sys.Efield.Compute(sys.Grid, C, sys.zChgVec(), sys.E)
	return err
}

// assemble computes the untransformed (linear-concentration, linear-time)
// residual and Jacobian entries shared by F and every Jacobian builder.
// fLin has length N*n; acc's entries are block-diagonal reaction terms
// plus tridiagonal-in-bin transport terms, not yet consolidated.
func (sys *System) assemble(C [][]float64) (fLin []float64, acc *jac.Accum, err error) {
	N, n := sys.Grid.N, sys.N
	fLin = make([]float64, N*n)
	acc = &jac.Accum{}

	for bi := 0; bi < N; bi++ {
		base := bi * n
		if err = sys.Net.AddF(bi, C[bi], fLin[base:base+n]); err != nil {
			return nil, nil, err
		}
		if err = sys.Net.AddJac(bi, base, C[bi], acc); err != nil {
			return nil, nil, err
		}
	}

	for s := range sys.Species {
		sp := &sys.Species[s]
		Cs := make([]float64, N)
		for bi := 0; bi < N; bi++ {
			Cs[bi] = C[bi][s]
		}
		fs := make([]float64, N)
		stateIdx := func(bin int) int { return sys.idx(bin, s) }

		for bi := 0; bi < N; bi++ {
			if err = transport.AddDiffusionF(sys.Grid, sp, bi, Cs, fs); err != nil {
				return nil, nil, err
			}
			transport.AddDiffusionJac(sys.Grid, sp, bi, stateIdx, acc)
		}
		if sys.Efield != nil {
			for bi := 0; bi < N; bi++ {
				if err = transport.AddDriftF(sys.Grid, sp, bi, sys.E, Cs, fs); err != nil {
					return nil, nil, err
				}
				transport.AddDriftJac(sys.Grid, sp, bi, sys.E, stateIdx, acc)
			}
		}

		for bi := 0; bi < N; bi++ {
			fLin[sys.idx(bi, s)] += fs[bi]
		}
	}
	return fLin, acc, nil
}
