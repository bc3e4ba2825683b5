// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jac assembles the Jacobian contribution helper and the five
// storage layouts described in spec.md §4.4: dense row-major, dense
// col-major, banded packed col-major, banded padded col-major, and
// compressed col-major. Every layout is written directly from the same
// accumulated entry list — never by materializing one layout and
// converting it to another.
package jac

// Entry is one (possibly repeated) additive contribution to the global
// Jacobian dF[I]/dC[J]. Reaction and transport contributions are appended
// independently; duplicate (I,J) pairs accumulate additively the same way
// la.Triplet accumulates repeated Put calls on the same indices.
type Entry struct {
	I, J int
	V    float64
}

// Accum collects Jacobian entries during assembly (ele/diffusion.go's
// AddToKb-then-Triplet.Put pattern, generalized from one FEM element's
// node loop to a bin's stencil loop).
type Accum struct {
	Entries []Entry
}

// Add appends a contribution to dF[i]/dC[j]. It does not merge with any
// existing entry for (i,j); duplicates are summed when the layout is
// written (every layout-writing routine accumulates, never overwrites).
func (a *Accum) Add(i, j int, v float64) {
	a.Entries = append(a.Entries, Entry{I: i, J: j, V: v})
}

// Consolidate sums duplicate (I,J) contributions into a single entry per
// pair, kept in the order each pair first appears. ApplyLogY requires consolidated entries
// so its diagonal correction is applied exactly once per row; layout
// writers also expect a consolidated list so each output cell is written
// once.
func (a *Accum) Consolidate() *Accum {
	index := make(map[int64]int, len(a.Entries))
	out := &Accum{}
	for _, e := range a.Entries {
		key := int64(e.I)<<32 | int64(uint32(e.J))
		if pos, ok := index[key]; ok {
			out.Entries[pos].V += e.V
			continue
		}
		index[key] = len(out.Entries)
		out.Entries = append(out.Entries, e)
	}
	return out
}

// Scale multiplies every accumulated value by c in place (used for the
// logt chain rule, which scales the whole Jacobian by t).
func (a *Accum) Scale(c float64) {
	for k := range a.Entries {
		a.Entries[k].V *= c
	}
}

// ApplyLogY rewrites the (consolidated) entries in place for the y'=ln(y)
// change of variables (spec.md §4.2/§4.3): off-diagonal entries pick up a
// C[j]/C[i] factor; diagonal entries additionally subtract f_lin[i]/C[i].
// f and C are the pre-transform (linear-concentration) residual and state
// vectors. Call Consolidate first so the diagonal correction is applied
// exactly once per row.
func (a *Accum) ApplyLogY(f, C []float64) {
	for k := range a.Entries {
		e := &a.Entries[k]
		if e.I == e.J {
			e.V = e.V - f[e.I]/C[e.I]
		} else {
			e.V = e.V * C[e.J] / C[e.I]
		}
	}
}
