// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chemreac discretizes a one-dimensional reaction-diffusion-drift
// system by the method of lines and exposes f(t,y) and five Jacobian
// layouts to an external stiff ODE integrator (spec.md §1-§2). It plays
// the role the teacher's fem package plays for a finite-element
// simulation: one top-level object wiring together the grid, the
// reaction network, the transport coefficients, and (optionally) the
// electric-field solver, then offering pure numeric callbacks over them.
package chemreac

import (
	"github.com/afcarl/chemreac/efield"
	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/grid"
	"github.com/afcarl/chemreac/rxn"
	"github.com/afcarl/chemreac/transport"
)

// Config is the constructor input (spec.md §6). N=0 means "infer from
// len(X)-1"; a nil X means "linspace(1,2,N+1)"; nil D/ZChg/Mobility
// default to zero vectors of length N_species.
type Config struct {
	NSpecies int

	StoichReac [][]int
	StoichProd [][]int
	StoichActv [][]int
	K          []float64
	KErr       []float64

	N        int
	X        []float64
	Nstencil int
	LRefl    bool // zero value is interpolating; core.py defaults both refl flags to reflective
	RRefl    bool

	D        []float64
	DErr     []float64
	ZChg     []float64
	Mobility []float64

	BinKFactor     [][]float64
	BinKFactorSpan []int

	Geom grid.Geometry

	LogY, LogT, LogX bool

	AutoEfield bool
	SurfChgQl  float64
	SurfChgQr  float64
	Eps        float64
	Xscale     float64

	SubstanceNames    []string
	SubstanceTexNames []string
}

// linspace mirrors numpy.linspace(a,b,n) for the X="scalar" shorthand:
// a grid of n points evenly spaced between a and b inclusive.
func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}

// resolve fills in defaults for zero-value fields and builds the derived
// reaction/transport/grid objects, returning a ready System or the first
// validation failure encountered.
func (cfg *Config) resolve() (*System, error) {
	n := cfg.NSpecies
	if n <= 0 {
		return nil, errs.New(errs.ShapeMismatch, "n (species count) must be positive, got %d", n)
	}

	nbins := cfg.N
	x := cfg.X
	if nbins == 0 {
		if len(x) == 0 {
			return nil, errs.New(errs.InvalidGrid, "N=0 requires x to be given so N can be inferred")
		}
		nbins = len(x) - 1
	}
	if len(x) == 0 {
		x = linspace(1, 2, nbins+1)
	}

	nstencil := cfg.Nstencil
	if nstencil == 0 {
		nstencil = 3
		if nbins == 1 {
			nstencil = 1
		}
	}
	g, err := grid.New(x, nstencil, cfg.Geom, cfg.LRefl, cfg.RRefl, cfg.LogX)
	if err != nil {
		return nil, err
	}
	if g.N != nbins {
		return nil, errs.New(errs.ShapeMismatch, "len(x)-1=%d does not match N=%d", g.N, nbins)
	}

	if len(cfg.StoichProd) != len(cfg.StoichReac) || len(cfg.K) != len(cfg.StoichReac) {
		return nil, errs.New(errs.ShapeMismatch, "stoich_reac, stoich_prod and k must have equal length")
	}
	if len(cfg.StoichActv) != 0 && len(cfg.StoichActv) != len(cfg.StoichReac) {
		return nil, errs.New(errs.ShapeMismatch, "stoich_actv must be empty or match stoich_reac's length")
	}
	rxns := make([]rxn.Reaction, len(cfg.StoichReac))
	for r := range rxns {
		rr := rxn.Reaction{Reac: cfg.StoichReac[r], Prod: cfg.StoichProd[r], K: cfg.K[r]}
		if len(cfg.StoichActv) != 0 {
			rr.Actv = cfg.StoichActv[r]
		}
		if len(cfg.KErr) != 0 {
			rr.KErr = cfg.KErr[r]
		}
		if err := rr.Validate(n); err != nil {
			return nil, err
		}
		rxns[r] = rr
	}
	net := &rxn.Network{Rxns: rxns, BinKFactor: cfg.BinKFactor, BinKFactorSpan: cfg.BinKFactorSpan}
	if err := net.CheckBinKFactor(g.N); err != nil {
		return nil, err
	}

	D := cfg.D
	zChg := cfg.ZChg
	mob := cfg.Mobility
	if len(D) == 0 {
		D = make([]float64, n)
	}
	if len(zChg) == 0 {
		zChg = make([]float64, n)
	}
	if len(mob) == 0 {
		mob = make([]float64, n)
	}
	if len(D) != n || len(zChg) != n || len(mob) != n {
		return nil, errs.New(errs.ShapeMismatch, "D, z_chg and mobility must each have length n=%d", n)
	}
	species := make([]transport.Species, n)
	for s := range species {
		species[s] = transport.Species{D: D[s], ZChg: zChg[s], Mobility: mob[s]}
		if len(cfg.DErr) != 0 {
			species[s].DErr = cfg.DErr[s]
		}
	}

	var ef *efield.Solver
	if cfg.AutoEfield {
		eps := cfg.Eps
		if eps == 0 {
			eps = 1
		}
		ef = &efield.Solver{Ql: cfg.SurfChgQl, Qr: cfg.SurfChgQr, Eps: eps, Xscale: cfg.Xscale}
	}

	names := cfg.SubstanceNames
	texNames := cfg.SubstanceTexNames

	sys := &System{
		N:          n,
		Grid:       g,
		Net:        net,
		Species:    species,
		Efield:     ef,
		LogY:       cfg.LogY,
		LogT:       cfg.LogT,
		LogX:       cfg.LogX,
		SubNames:   names,
		SubTexName: texNames,
		E:          make([]float64, g.N),
	}
	return sys, nil
}
