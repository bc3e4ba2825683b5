// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemreac

import (
	"github.com/afcarl/chemreac/efield"
	"github.com/afcarl/chemreac/errs"
	"github.com/afcarl/chemreac/grid"
	"github.com/afcarl/chemreac/rxn"
	"github.com/afcarl/chemreac/transport"
	"github.com/cpmech/gosl/fun"
)

// System is the immutable descriptor built once from a Config (spec.md
// §3). f and the Jacobian builders are pure with respect to it except for
// the cached E, which is recomputed at the start of every f/Jacobian call
// when Efield is non-nil.
type System struct {
	N          int // species count
	Grid       *grid.Grid
	Net        *rxn.Network
	Species    []transport.Species
	Efield     *efield.Solver
	LogY       bool
	LogT       bool
	LogX       bool
	SubNames   []string
	SubTexName []string
	E          []float64 // [N] cached electric field, valid when Efield != nil
}

// New builds a System from cfg, validating every invariant in spec.md §3
// and failing with the first violated one.
func New(cfg Config) (*System, error) {
	return cfg.resolve()
}

// recognizedOptions is the set of keys NewFromOptions accepts; any other
// key fails with UnknownOption (spec.md §6).
var recognizedOptions = map[string]bool{
	"n": true, "stoich_reac": true, "stoich_prod": true, "stoich_actv": true,
	"k": true, "k_err": true,
	"N": true, "x": true, "nstencil": true, "lrefl": true, "rrefl": true,
	"D": true, "D_err": true, "z_chg": true, "mobility": true,
	"bin_k_factor": true, "bin_k_factor_span": true,
	"geom": true, "logy": true, "logt": true, "logx": true,
	"auto_efield": true, "surf_chg": true, "eps": true, "xscale": true,
	"substance_names": true, "substance_tex_names": true,
}

// NewFromOptions builds a System from an untyped option map, the shape a
// front end hands the core (spec.md §6). Unrecognized keys fail with
// UnknownOption; recognized keys with the wrong Go type fail with
// ShapeMismatch rather than panicking on a bad type assertion.
func NewFromOptions(opts map[string]interface{}) (*System, error) {
	for k := range opts {
		if !recognizedOptions[k] {
			return nil, errs.New(errs.UnknownOption, "unrecognized option %q", k)
		}
	}
	var cfg Config
	var ok bool
	if v, present := opts["n"]; present {
		if cfg.NSpecies, ok = v.(int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"n\" must be an int")
		}
	}
	if v, present := opts["stoich_reac"]; present {
		if cfg.StoichReac, ok = v.([][]int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"stoich_reac\" must be [][]int")
		}
	}
	if v, present := opts["stoich_prod"]; present {
		if cfg.StoichProd, ok = v.([][]int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"stoich_prod\" must be [][]int")
		}
	}
	if v, present := opts["stoich_actv"]; present {
		if cfg.StoichActv, ok = v.([][]int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"stoich_actv\" must be [][]int")
		}
	}
	if v, present := opts["k"]; present {
		if cfg.K, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"k\" must be []float64")
		}
	}
	if v, present := opts["k_err"]; present {
		if cfg.KErr, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"k_err\" must be []float64")
		}
	}
	if v, present := opts["N"]; present {
		if cfg.N, ok = v.(int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"N\" must be an int")
		}
	}
	if v, present := opts["x"]; present {
		if cfg.X, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"x\" must be []float64")
		}
	}
	if v, present := opts["nstencil"]; present {
		if cfg.Nstencil, ok = v.(int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"nstencil\" must be an int")
		}
	}
	if v, present := opts["lrefl"]; present {
		if cfg.LRefl, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"lrefl\" must be a bool")
		}
	}
	if v, present := opts["rrefl"]; present {
		if cfg.RRefl, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"rrefl\" must be a bool")
		}
	}
	if v, present := opts["D"]; present {
		if cfg.D, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"D\" must be []float64")
		}
	}
	if v, present := opts["D_err"]; present {
		if cfg.DErr, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"D_err\" must be []float64")
		}
	}
	if v, present := opts["z_chg"]; present {
		if cfg.ZChg, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"z_chg\" must be []float64")
		}
	}
	if v, present := opts["mobility"]; present {
		if cfg.Mobility, ok = v.([]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"mobility\" must be []float64")
		}
	}
	if v, present := opts["bin_k_factor"]; present {
		if cfg.BinKFactor, ok = v.([][]float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"bin_k_factor\" must be [][]float64")
		}
	}
	if v, present := opts["bin_k_factor_span"]; present {
		if cfg.BinKFactorSpan, ok = v.([]int); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"bin_k_factor_span\" must be []int")
		}
	}
	if v, present := opts["geom"]; present {
		if cfg.Geom, ok = v.(grid.Geometry); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"geom\" must be a grid.Geometry")
		}
	}
	if v, present := opts["logy"]; present {
		if cfg.LogY, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"logy\" must be a bool")
		}
	}
	if v, present := opts["logt"]; present {
		if cfg.LogT, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"logt\" must be a bool")
		}
	}
	if v, present := opts["logx"]; present {
		if cfg.LogX, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"logx\" must be a bool")
		}
	}
	if v, present := opts["auto_efield"]; present {
		if cfg.AutoEfield, ok = v.(bool); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"auto_efield\" must be a bool")
		}
	}
	if v, present := opts["surf_chg"]; present {
		pair, ok := v.([2]float64)
		if !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"surf_chg\" must be a [2]float64 (ql, qr)")
		}
		cfg.SurfChgQl, cfg.SurfChgQr = pair[0], pair[1]
	}
	if v, present := opts["eps"]; present {
		if cfg.Eps, ok = v.(float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"eps\" must be a float64")
		}
	}
	if v, present := opts["xscale"]; present {
		if cfg.Xscale, ok = v.(float64); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"xscale\" must be a float64")
		}
	}
	if v, present := opts["substance_names"]; present {
		if cfg.SubstanceNames, ok = v.([]string); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"substance_names\" must be []string")
		}
	}
	if v, present := opts["substance_tex_names"]; present {
		if cfg.SubstanceTexNames, ok = v.([]string); !ok {
			return nil, errs.New(errs.ShapeMismatch, "option \"substance_tex_names\" must be []string")
		}
	}
	return New(cfg)
}

// idx maps a (bin, species) pair to its global state index, bin-major
// (spec.md §3: y[bi*n+si]).
func (sys *System) idx(bi, si int) int { return bi*sys.N + si }

// nn is the total state count N*n.
func (sys *System) nn() int { return sys.Grid.N * sys.N }

// Ny returns N*n, the length every f/residual buffer must have.
func (sys *System) Ny() int { return sys.nn() }

// BandedPackedRows returns the row count of the banded packed layout, 2n+1.
func (sys *System) BandedPackedRows() int { return 2*sys.N + 1 }

// BandedPaddedRows returns the row count of the banded padded layout, 3n+1.
func (sys *System) BandedPaddedRows() int { return 3*sys.N + 1 }

// RatePrms exposes the reaction network's rate coefficients as named
// fun.Prms (spec.md §6's "observable state"), the same introspection
// shape inp.Mat.Prms gives the teacher's front end over material
// parameters.
func (sys *System) RatePrms() fun.Prms { return sys.Net.KPrms() }
