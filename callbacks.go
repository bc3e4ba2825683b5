// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemreac

import (
	"math"

	"github.com/afcarl/chemreac/efield"
	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/jac"
	"github.com/cpmech/gosl/la"
)

// timeFactor returns the physical time t=exp(τ) used to scale f and the
// Jacobian under LogT, or 1 otherwise (f and the Jacobian are used
// unscaled in linear time) (spec.md §4.2).
func (sys *System) timeFactor(t float64) (float64, error) {
	if !sys.LogT {
		return 1, nil
	}
	if t > overflowThreshold || t < -overflowThreshold {
		return 0, errs.New(errs.NumericOverflow, "logt time exp(%g) would overflow", t)
	}
	return math.Exp(t), nil
}

// checkShapes validates the y/out buffer lengths common to every callback
// (spec.md §4.6).
func (sys *System) checkShapes(y []float64, outLen, needLen int) error {
	nn := sys.nn()
	if len(y) != nn {
		return errs.New(errs.ShapeMismatch, "y must have length N*n=%d, got %d", nn, len(y))
	}
	if outLen < needLen {
		return errs.New(errs.ShapeMismatch, "output buffer too small: need %d, got %d", needLen, outLen)
	}
	return nil
}

// F writes dy/dt (or dlnC/dt under LogY) into out[0:N*n] (spec.md §4.6).
func (sys *System) F(t float64, y, out []float64) error {
	nn := sys.nn()
	if err := sys.checkShapes(y, len(out), nn); err != nil {
		return err
	}
	C, err := sys.linearConc(y)
	if err != nil {
		return err
	}
	if err := sys.refreshField(C); err != nil {
		return err
	}
	fLin, _, err := sys.assemble(C)
	if err != nil {
		return err
	}
	tFactor, err := sys.timeFactor(t)
	if err != nil {
		return err
	}
	Cflat := flatten(C)
	for i := 0; i < nn; i++ {
		v := fLin[i]
		if sys.LogY {
			v /= Cflat[i]
		}
		v *= tFactor
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.New(errs.NumericOverflow, "f[%d] is NaN/Inf", i)
		}
		out[i] = v
	}
	return nil
}

// jacCommon runs the shared assembly + logy/logt transform pipeline used
// by every Jacobian builder, returning the consolidated, transformed
// entries ready to write into any layout.
func (sys *System) jacCommon(t float64, y []float64) (*jac.Accum, error) {
	nn := sys.nn()
	if len(y) != nn {
		return nil, errs.New(errs.ShapeMismatch, "y must have length N*n=%d, got %d", nn, len(y))
	}
	C, err := sys.linearConc(y)
	if err != nil {
		return nil, err
	}
	if err := sys.refreshField(C); err != nil {
		return nil, err
	}
	fLin, acc, err := sys.assemble(C)
	if err != nil {
		return nil, err
	}
	tFactor, err := sys.timeFactor(t)
	if err != nil {
		return nil, err
	}
	cons := acc.Consolidate()
	if sys.LogY {
		cons.ApplyLogY(fLin, flatten(C))
	}
	if tFactor != 1 {
		cons.Scale(tFactor)
	}
	return cons, nil
}

func (sys *System) dims() jac.Dims {
	return jac.Dims{Nn: sys.nn(), N: sys.N, Nsidep: sys.Grid.Nsidep}
}

// DenseJacRowMajor writes the (N*n,N*n) dense row-major Jacobian.
func (sys *System) DenseJacRowMajor(t float64, y, jout []float64) error {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return err
	}
	return jac.DenseRowMajor(cons.Entries, sys.dims(), jout)
}

// DenseJacColMajor writes the (N*n,N*n) dense col-major Jacobian.
func (sys *System) DenseJacColMajor(t float64, y, jout []float64) error {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return err
	}
	return jac.DenseColMajor(cons.Entries, sys.dims(), jout)
}

// BandedPackedJacColMajor writes the (2n+1,N*n) banded packed col-major Jacobian.
func (sys *System) BandedPackedJacColMajor(t float64, y, jout []float64) error {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return err
	}
	return jac.BandedPackedColMajor(cons.Entries, sys.dims(), jout)
}

// BandedPaddedJacColMajor writes the (3n+1,N*n) banded padded col-major Jacobian.
func (sys *System) BandedPaddedJacColMajor(t float64, y, jout []float64) error {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return err
	}
	return jac.BandedPaddedColMajor(cons.Entries, sys.dims(), jout)
}

// CompressedJacColMajor writes the compressed col-major Jacobian (see
// jac.CompressedColMajor and DESIGN.md for the layout's shape resolution).
func (sys *System) CompressedJacColMajor(t float64, y, jout []float64) error {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return err
	}
	return jac.CompressedColMajor(cons.Entries, sys.dims(), jout)
}

// JacobianTriplet returns the Jacobian as a *la.Triplet sparse matrix,
// built from the same consolidated entries the five mandated layouts
// share (spec.md §4.4); see jac.Triplet.
func (sys *System) JacobianTriplet(t float64, y []float64) (*la.Triplet, error) {
	cons, err := sys.jacCommon(t, y)
	if err != nil {
		return nil, err
	}
	return jac.Triplet(cons.Entries, sys.dims())
}

// PerRxnContribToFi writes, into out[0:len(Net.Rxns)], the contribution of
// each reaction to f[bi=0, si] (spec.md §4.6), used for diagnostic
// decomposition of the bin-0 residual for species si.
func (sys *System) PerRxnContribToFi(t float64, y []float64, si int, out []float64) error {
	if si < 0 || si >= sys.N {
		return errs.New(errs.ShapeMismatch, "species index %d out of range [0,%d)", si, sys.N)
	}
	if len(out) < len(sys.Net.Rxns) {
		return errs.New(errs.ShapeMismatch, "output buffer too small: need %d, got %d", len(sys.Net.Rxns), len(out))
	}
	C, err := sys.linearConc(y)
	if err != nil {
		return err
	}
	if err := sys.refreshField(C); err != nil {
		return err
	}
	for r := range sys.Net.Rxns {
		rx := &sys.Net.Rxns[r]
		rate := sys.Net.Rate(r, 0, C[0])
		ns := rx.NetStoich(si)
		out[r] = float64(ns) * rate
	}
	return nil
}

// IntegratedConc quadratures a scalar bin-indexed field against the
// grid's shell volumes (spec.md §4.6).
func (sys *System) IntegratedConc(yBinSi []float64) float64 {
	return efield.IntegratedConc(sys.Grid, yBinSi)
}
