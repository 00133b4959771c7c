// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package elab

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-chisel/pkg/hdl"
)

// binding records what a process (or branch thereof) has assigned to a
// signal so far: the value the whole signal would take, plus the mask of
// bits actually driven.  Bits outside the mask merely carry the baseline
// (the signal itself for synchronous domains, its reset otherwise) and are
// never emitted as drivers.
type binding struct {
	value  hdl.Value
	driven *bitset.BitSet
}

// environment tracks the current binding of every signal assigned so far
// within one process, in first-assignment order (so that driver emission is
// deterministic).
type environment struct {
	bindings map[*hdl.Signal]*binding
	order    []*hdl.Signal
}

func newEnvironment() *environment {
	return &environment{make(map[*hdl.Signal]*binding), nil}
}

func (p *environment) get(sig *hdl.Signal) *binding {
	return p.bindings[sig]
}

func (p *environment) put(sig *hdl.Signal, b *binding) {
	if _, ok := p.bindings[sig]; !ok {
		p.order = append(p.order, sig)
	}
	//
	p.bindings[sig] = b
}

// clone copies this environment.  Bindings themselves are shared, never
// mutated in place; assignment replaces them wholesale.  Hence a branch's
// effect is detected simply by comparing binding pointers against the
// parent.
func (p *environment) clone() *environment {
	var (
		bindings = make(map[*hdl.Signal]*binding, len(p.bindings))
		order    = make([]*hdl.Signal, len(p.order))
	)
	//
	for sig, b := range p.bindings {
		bindings[sig] = b
	}
	//
	copy(order, p.order)
	//
	return &environment{bindings, order}
}

// resolver merges the assignments of every process into one driver per
// (domain, target, bit range), failing where two processes drive the same
// bit.
type resolver struct {
	errs    []*hdl.Error
	lowered map[hdl.Value]hdl.Value
}

func newResolver() *resolver {
	return &resolver{nil, make(map[hdl.Value]hdl.Value)}
}

// resolveDesign lowers every process of a design and merges the results
// into a single driver graph.
func (r *resolver) resolveDesign(design *Design) (*Graph, []*hdl.Error) {
	var (
		graph  Graph
		envs   []*environment
		driven = make(map[*hdl.Signal]*bitset.BitSet)
	)
	//
	for _, proc := range design.Processes() {
		env := newEnvironment()
		r.apply(env, proc.Stmts())
		envs = append(envs, env)
	}
	//
	if len(r.errs) > 0 {
		return nil, r.errs
	}
	// Check for conflicts across processes: within one process, priority
	// and last-write-wins resolve everything, but between processes there
	// is no order to appeal to.
	for _, env := range envs {
		for _, sig := range env.order {
			b := env.get(sig)
			//
			if prior, ok := driven[sig]; !ok {
				driven[sig] = b.driven
			} else if prior.IntersectionCardinality(b.driven) > 0 {
				r.errs = append(r.errs, hdl.NewError(hdl.DUPLICATE_DRIVER, sig,
					"signal %s driven by more than one process", sig.Name()))
			} else {
				driven[sig] = prior.Union(b.driven)
			}
		}
	}
	//
	if len(r.errs) > 0 {
		return nil, r.errs
	}
	// Emit one driver per contiguous driven range.
	for _, env := range envs {
		for _, sig := range env.order {
			graph.drivers = append(graph.drivers, emitDrivers(sig, env.get(sig))...)
		}
	}
	//
	return &graph, nil
}

// applyAssign applies a single assignment to the environment, rewriting
// slice and concatenation targets into assignments of the underlying bit
// ranges of their signal operand(s).  Within a linear body, later
// assignments to the same bits simply supersede earlier ones.
func (r *resolver) applyAssign(env *environment, stmt *hdl.Assign) {
	runs, width, err := lhsRuns(stmt.Target)
	//
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	//
	src := resize(r.lowerValue(stmt.Source), width)
	//
	var offset uint
	// Concatenated targets take the source low-to-high: the first target
	// operand receives the least-significant source bits.
	for _, run := range runs {
		part := src
		//
		if run.len() != width {
			part = hdl.NewSlice(src, int(offset), int(offset+run.len()))
		}
		//
		r.assignRun(env, run, part)
		offset += run.len()
	}
}

// assignRun drives bits [run.lo, run.hi) of a signal with a source of
// exactly that width, preserving whatever the remaining bits currently
// hold.
func (r *resolver) assignRun(env *environment, run lhsRun, src hdl.Value) {
	var (
		width  = run.sig.Shape().Width
		value  hdl.Value
		driven = newDrivenBits(env, run.sig)
	)
	//
	if run.lo == 0 && run.hi == width {
		value = src
	} else {
		base := r.baseValue(env, run.sig)
		parts := []hdl.Value{}
		//
		if run.lo > 0 {
			parts = append(parts, hdl.NewSlice(base, 0, int(run.lo)))
		}
		//
		parts = append(parts, src)
		//
		if run.hi < width {
			parts = append(parts, hdl.NewSlice(base, int(run.hi), int(width)))
		}
		//
		value = hdl.NewCat(parts...)
	}
	//
	for i := run.lo; i < run.hi; i++ {
		driven.Set(i)
	}
	//
	env.put(run.sig, &binding{value, driven})
}

// baseValue determines the value a signal holds before (or outside) the
// current assignment: whatever was last assigned, else "unchanged" (the
// signal itself) for synchronous domains, else the reset constant for
// combinational ones.
func (r *resolver) baseValue(env *environment, sig *hdl.Signal) hdl.Value {
	if b := env.get(sig); b != nil {
		return b.value
	}
	//
	if sig.Domain().Synchronous() {
		return sig
	}
	//
	return hdl.NewBigConstOf(sig.Reset(), sig.Shape())
}

func newDrivenBits(env *environment, sig *hdl.Signal) *bitset.BitSet {
	if b := env.get(sig); b != nil {
		return b.driven.Clone()
	}
	//
	return bitset.New(sig.Shape().Width)
}

// lhsRun identifies a contiguous run of target bits [lo, hi) within one
// signal.
type lhsRun struct {
	sig *hdl.Signal
	lo  uint
	hi  uint
}

func (p lhsRun) len() uint {
	return p.hi - p.lo
}

// lhsRuns flattens an assignment target into contiguous runs of signal
// bits, in source bit order, along with the total target width.
func lhsRuns(target hdl.Value) ([]lhsRun, uint, *hdl.Error) {
	bits, err := lhsBits(target)
	//
	if err != nil {
		return nil, 0, err
	} else if len(bits) == 0 {
		return nil, 0, hdl.NewError(hdl.SHAPE_MISMATCH, target, "target selects no bits")
	}
	//
	var runs []lhsRun
	//
	for _, bit := range bits {
		last := len(runs) - 1
		//
		if last >= 0 && runs[last].sig == bit.sig && runs[last].hi == bit.bit {
			runs[last].hi++
		} else {
			runs = append(runs, lhsRun{bit.sig, bit.bit, bit.bit + 1})
		}
	}
	//
	return runs, uint(len(bits)), nil
}

// lhsBit identifies a single target bit.
type lhsBit struct {
	sig *hdl.Signal
	bit uint
}

func lhsBits(target hdl.Value) ([]lhsBit, *hdl.Error) {
	switch t := target.(type) {
	case *hdl.Signal:
		bits := make([]lhsBit, t.Shape().Width)
		//
		for i := range bits {
			bits[i] = lhsBit{t, uint(i)}
		}
		//
		return bits, nil
	case *hdl.Slice:
		inner, err := lhsBits(t.Operand())
		if err != nil {
			return nil, err
		}
		//
		indices, ierr := t.Indices()
		if ierr != nil {
			return nil, ierr
		}
		//
		bits := make([]lhsBit, len(indices))
		//
		for i, index := range indices {
			bits[i] = inner[index]
		}
		//
		return bits, nil
	case *hdl.Cat:
		var bits []lhsBit
		// First operand receives the least-significant bits.
		for _, operand := range t.Children() {
			inner, err := lhsBits(operand)
			if err != nil {
				return nil, err
			}
			//
			bits = append(bits, inner...)
		}
		//
		return bits, nil
	default:
		return nil, hdl.NewError(hdl.SHAPE_MISMATCH, target,
			"cannot assign to %s", target.Lisp())
	}
}

// emitDrivers turns the final binding of a signal into one driver per
// contiguous driven range.  When the merged value has exactly the driven
// width it is emitted as is; otherwise each range slices just its own bits
// out of it.
func emitDrivers(sig *hdl.Signal, b *binding) []Driver {
	var (
		width   = sig.Shape().Width
		drivers []Driver
		lo      uint
		inRun   bool
	)
	//
	for i := uint(0); i <= width; i++ {
		set := i < width && b.driven.Test(i)
		//
		if set && !inRun {
			lo, inRun = i, true
		} else if !set && inRun {
			drivers = append(drivers, emitDriver(sig, b.value, lo, i))
			inRun = false
		}
	}
	//
	return drivers
}

func emitDriver(sig *hdl.Signal, value hdl.Value, lo uint, hi uint) Driver {
	source := value
	// The source must span exactly the driven bits.  Merging can widen the
	// value past the target (a mux over a sign-extending concatenation picks
	// up an extra bit), so the width check here is against the value itself,
	// not the target.
	if lo != 0 || hi != source.Shape().Width {
		source = hdl.NewSlice(value, int(lo), int(hi))
	}
	//
	return Driver{sig.Domain(), sig, BitRange{lo, hi}, source}
}
