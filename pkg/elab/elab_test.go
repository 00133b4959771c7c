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
	"math/big"
	"testing"

	"github.com/consensys/go-chisel/pkg/hdl"
)

const SYS hdl.Domain = "sys"

func Test_Elab_Assign_01(t *testing.T) {
	var (
		x      = hdl.NewSignal(hdl.COMB, "x", hdl.UnsignedShape(8))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(9))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.Add(x, hdl.NewConst(1))))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{x: 10}, 11)
}

func Test_Elab_Assign_02(t *testing.T) {
	// last assignment wins within a process
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.Set(y, hdl.NewConst(1)),
		hdl.Set(y, hdl.NewConst(2)),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{}, 2)
}

func Test_Elab_Assign_03(t *testing.T) {
	// narrow sources zero extend to the target width
	var (
		a      = hdl.NewSignal(hdl.COMB, "a", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, a))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{a: 9}, 9)
}

func Test_Elab_Assign_04(t *testing.T) {
	// signed sources sign extend to the target width
	var (
		a      = hdl.NewSignal(hdl.COMB, "a", hdl.SignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.SignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, a))
	//
	graph := checkValid(t, design)
	// -3 as an eight bit pattern
	checkDriver(t, graph, y, inputs{a: -3}, 0xFD)
}

func Test_Elab_Assign_05(t *testing.T) {
	// wide sources truncate to the target width
	var (
		x      = hdl.NewSignal(hdl.COMB, "x", hdl.UnsignedShape(8))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(4))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, x))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{x: 0xAB}, 0xB)
}

// ===================================================================
// Conditionals
// ===================================================================

func Test_Elab_If_01(t *testing.T) {
	var (
		en     = hdl.NewBit(hdl.COMB, "en")
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.If(en, hdl.Set(y, hdl.NewConst(1))).
			Else(hdl.Set(y, hdl.NewConst(2))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{en: 1}, 1)
	checkDriver(t, graph, y, inputs{en: 0}, 2)
}

func Test_Elab_If_02(t *testing.T) {
	// earlier arms take priority over later ones
	var (
		a      = hdl.NewBit(hdl.COMB, "a")
		b      = hdl.NewBit(hdl.COMB, "b")
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.If(a, hdl.Set(y, hdl.NewConst(1))).
			Elif(b, hdl.Set(y, hdl.NewConst(2))).
			Else(hdl.Set(y, hdl.NewConst(3))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{a: 1, b: 1}, 1)
	checkDriver(t, graph, y, inputs{a: 0, b: 1}, 2)
	checkDriver(t, graph, y, inputs{a: 0, b: 0}, 3)
}

func Test_Elab_If_03(t *testing.T) {
	// an undriven combinational branch falls back to the reset value
	var (
		en     = hdl.NewBit(hdl.COMB, "en")
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8)).WithReset(5)
		design = NewDesign()
	)
	//
	design.Process(hdl.If(en, hdl.Set(y, hdl.NewConst(1))))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{en: 1}, 1)
	checkDriver(t, graph, y, inputs{en: 0}, 5)
}

func Test_Elab_If_04(t *testing.T) {
	// an undriven synchronous branch keeps the current value
	var (
		en     = hdl.NewBit(hdl.COMB, "en")
		d      = hdl.NewSignal(hdl.COMB, "d", hdl.UnsignedShape(8))
		q      = hdl.NewSignal(SYS, "q", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.If(en, hdl.Set(q, d)))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, q, inputs{en: 1, d: 7, q: 42}, 7)
	checkDriver(t, graph, q, inputs{en: 0, d: 7, q: 42}, 42)
}

func Test_Elab_If_05(t *testing.T) {
	// a wide condition counts as true when any bit is set
	var (
		x      = hdl.NewSignal(hdl.COMB, "x", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.If(x, hdl.Set(y, hdl.NewConst(1))).
			Else(hdl.Set(y, hdl.NewConst(2))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{x: 0b0100}, 1)
	checkDriver(t, graph, y, inputs{x: 0}, 2)
}

func Test_Elab_If_06(t *testing.T) {
	// conditionally driving a signed target sign extends the source, but the
	// emitted driver still spans exactly the driven bits
	var (
		en     = hdl.NewBit(hdl.COMB, "en")
		d      = hdl.NewSignal(hdl.COMB, "d", hdl.SignedShape(4))
		q      = hdl.NewSignal(SYS, "q", hdl.SignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.If(en, hdl.Set(q, d)))
	//
	graph := checkValid(t, design)
	// -3 as an eight bit pattern
	checkDriver(t, graph, q, inputs{en: 1, d: -3, q: 0}, 0xFD)
	checkDriver(t, graph, q, inputs{en: 0, d: -3, q: 0x12}, 0x12)
}

// ===================================================================
// Switches
// ===================================================================

func Test_Elab_Switch_01(t *testing.T) {
	var (
		s      = hdl.NewSignal(hdl.COMB, "s", hdl.UnsignedShape(2))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.NewSwitch(s).
			Case([]string{"00"}, hdl.Set(y, hdl.NewConst(10))).
			Case([]string{"01"}, hdl.Set(y, hdl.NewConst(20))).
			Default(hdl.Set(y, hdl.NewConst(30))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{s: 0}, 10)
	checkDriver(t, graph, y, inputs{s: 1}, 20)
	checkDriver(t, graph, y, inputs{s: 2}, 30)
	checkDriver(t, graph, y, inputs{s: 3}, 30)
}

func Test_Elab_Switch_02(t *testing.T) {
	// cases are tried in order, hence an overlapping earlier case wins
	var (
		s      = hdl.NewSignal(hdl.COMB, "s", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.NewSwitch(s).
			Case([]string{"1---"}, hdl.Set(y, hdl.NewConst(1))).
			Case([]string{"1111"}, hdl.Set(y, hdl.NewConst(2))).
			Default(hdl.Set(y, hdl.NewConst(3))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{s: 0b1111}, 1)
	checkDriver(t, graph, y, inputs{s: 0b1000}, 1)
	checkDriver(t, graph, y, inputs{s: 0b0111}, 3)
}

func Test_Elab_Switch_03(t *testing.T) {
	// a case may list alternative patterns
	var (
		s      = hdl.NewSignal(hdl.COMB, "s", hdl.UnsignedShape(2))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.NewSwitch(s).
			Case([]string{"00", "11"}, hdl.Set(y, hdl.NewConst(1))).
			Default(hdl.Set(y, hdl.NewConst(2))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{s: 0}, 1)
	checkDriver(t, graph, y, inputs{s: 3}, 1)
	checkDriver(t, graph, y, inputs{s: 1}, 2)
}

func Test_Elab_Switch_04(t *testing.T) {
	checkFails(t, switchDesign("1--"), hdl.INVALID_PATTERN)
}

func Test_Elab_Switch_05(t *testing.T) {
	checkFails(t, switchDesign("1x11"), hdl.INVALID_PATTERN)
}

// ===================================================================
// Composite targets
// ===================================================================

func Test_Elab_Lhs_01(t *testing.T) {
	// both halves assigned merge into one full-width driver
	var (
		a      = hdl.NewSignal(hdl.COMB, "a", hdl.UnsignedShape(4))
		b      = hdl.NewSignal(hdl.COMB, "b", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.Set(hdl.NewSlice(y, 0, 4), a),
		hdl.Set(hdl.NewSlice(y, 4, 8), b),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{a: 0x3, b: 0x5}, 0x53)
}

func Test_Elab_Lhs_02(t *testing.T) {
	// a partial assignment drives just its bit range
	var (
		a      = hdl.NewSignal(hdl.COMB, "a", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(hdl.NewSlice(y, 2, 6), a))
	//
	graph := checkValid(t, design)
	//
	drivers := driversOf(graph, y)
	if len(drivers) != 1 {
		t.Fatalf("expected one driver, got %d", len(drivers))
	}
	//
	if rng := drivers[0].Range; rng.Start != 2 || rng.End != 6 {
		t.Fatalf("unexpected driver range %s", rng)
	}
	//
	checkEvalTo(t, drivers[0].Source, inputs{a: 0b1001}, 0b1001)
}

func Test_Elab_Lhs_03(t *testing.T) {
	// assigning a concatenation drives each part separately
	var (
		x      = hdl.NewSignal(hdl.COMB, "x", hdl.UnsignedShape(8))
		lo     = hdl.NewSignal(hdl.COMB, "lo", hdl.UnsignedShape(4))
		hi     = hdl.NewSignal(hdl.COMB, "hi", hdl.UnsignedShape(4))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(hdl.NewCat(lo, hi), x))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, lo, inputs{x: 0xAB}, 0xB)
	checkDriver(t, graph, hi, inputs{x: 0xAB}, 0xA)
}

// ===================================================================
// Multiple processes
// ===================================================================

func Test_Elab_Conflict_01(t *testing.T) {
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewConst(1)))
	design.Process(hdl.Set(y, hdl.NewConst(2)))
	//
	checkFails(t, design, hdl.DUPLICATE_DRIVER)
}

func Test_Elab_Conflict_02(t *testing.T) {
	// disjoint bit ranges from separate processes do not conflict
	var (
		a      = hdl.NewSignal(hdl.COMB, "a", hdl.UnsignedShape(4))
		b      = hdl.NewSignal(hdl.COMB, "b", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(hdl.NewSlice(y, 0, 4), a))
	design.Process(hdl.Set(hdl.NewSlice(y, 4, 8), b))
	//
	graph := checkValid(t, design)
	//
	if drivers := driversOf(graph, y); len(drivers) != 2 {
		t.Fatalf("expected two drivers, got %d", len(drivers))
	}
}

// ===================================================================
// Array references
// ===================================================================

func Test_Elab_ArrayRef_01(t *testing.T) {
	// a variable index lowers to a priority selection
	var (
		idx      = hdl.NewSignal(hdl.COMB, "idx", hdl.UnsignedShape(2))
		y        = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design   = NewDesign()
		elements = []hdl.Value{
			hdl.NewConstOf(10, hdl.UnsignedShape(8)),
			hdl.NewConstOf(20, hdl.UnsignedShape(8)),
			hdl.NewConstOf(30, hdl.UnsignedShape(8)),
		}
	)
	//
	design.Process(hdl.Set(y, hdl.NewArrayRef(idx, elements...)))
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{idx: 0}, 10)
	checkDriver(t, graph, y, inputs{idx: 1}, 20)
	checkDriver(t, graph, y, inputs{idx: 2}, 30)
}

func Test_Elab_ArrayRef_02(t *testing.T) {
	// a constant index beyond the last element is fatal
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewArrayRef(hdl.NewConst(5),
		hdl.NewConstOf(1, hdl.UnsignedShape(8)),
		hdl.NewConstOf(2, hdl.UnsignedShape(8)),
		hdl.NewConstOf(3, hdl.UnsignedShape(8)))))
	//
	checkFails(t, design, hdl.INDEX_OUT_OF_RANGE)
}

func Test_Elab_ArrayRef_03(t *testing.T) {
	// elements must share a width
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		idx    = hdl.NewSignal(hdl.COMB, "idx", hdl.UnsignedShape(1))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewArrayRef(idx,
		hdl.NewConstOf(1, hdl.UnsignedShape(8)),
		hdl.NewConstOf(2, hdl.UnsignedShape(4)))))
	//
	checkFails(t, design, hdl.SHAPE_MISMATCH)
}

// ===================================================================
// Miscellaneous diagnostics
// ===================================================================

func Test_Elab_Repl_01(t *testing.T) {
	var (
		x      = hdl.NewSignal(hdl.COMB, "x", hdl.UnsignedShape(2))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewRepl(x, 0)))
	//
	checkFails(t, design, hdl.SHAPE_MISMATCH)
}

func Test_Elab_Matches_01(t *testing.T) {
	// a matches value can guard a conditional directly
	var (
		s      = hdl.NewSignal(hdl.COMB, "s", hdl.UnsignedShape(2))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.If(hdl.NewMatches(s, "1-"), hdl.Set(y, hdl.NewConst(1))).
			Else(hdl.Set(y, hdl.NewConst(0))),
	)
	//
	graph := checkValid(t, design)
	checkDriver(t, graph, y, inputs{s: 0b10}, 1)
	checkDriver(t, graph, y, inputs{s: 0b01}, 0)
}

// ===================================================================
// Elaborator state machine
// ===================================================================

func Test_Elab_State_01(t *testing.T) {
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewConst(1)))
	//
	elaborator := NewElaborator(design)
	//
	if elaborator.State() != BUILDING {
		t.Fatalf("expected %s, got %s", BUILDING, elaborator.State())
	}
	//
	if _, errs := elaborator.Elaborate(); len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	if elaborator.State() != VALIDATED {
		t.Fatalf("expected %s, got %s", VALIDATED, elaborator.State())
	}
}

func Test_Elab_State_02(t *testing.T) {
	elaborator := NewElaborator(switchDesign("1--"))
	//
	if _, errs := elaborator.Elaborate(); len(errs) == 0 {
		t.Fatal("expected errors")
	}
	//
	if elaborator.State() != FAILED {
		t.Fatalf("expected %s, got %s", FAILED, elaborator.State())
	}
}

func Test_Elab_State_03(t *testing.T) {
	// elaboration is one shot
	var (
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(hdl.Set(y, hdl.NewConst(1)))
	//
	elaborator := NewElaborator(design)
	//
	if _, errs := elaborator.Elaborate(); len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	defer func() {
		if recover() == nil {
			t.Error("expected panic on repeated elaboration")
		}
	}()
	//
	_, _ = elaborator.Elaborate()
}

// ===================================================================
// Helpers
// ===================================================================

// inputs assigns each signal of interest a concrete value, allowing driver
// sources to be evaluated as constants.
type inputs map[*hdl.Signal]int64

// switchDesign constructs a design whose single switch case carries the given
// pattern, against a four bit subject.
func switchDesign(pattern string) *Design {
	var (
		s      = hdl.NewSignal(hdl.COMB, "s", hdl.UnsignedShape(4))
		y      = hdl.NewSignal(hdl.COMB, "y", hdl.UnsignedShape(8))
		design = NewDesign()
	)
	//
	design.Process(
		hdl.NewSwitch(s).
			Case([]string{pattern}, hdl.Set(y, hdl.NewConst(1))).
			Default(hdl.Set(y, hdl.NewConst(2))),
	)
	//
	return design
}

func checkValid(t *testing.T, design *Design) *Graph {
	t.Helper()
	//
	graph, errs := Elaborate(design)
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	// Every driver binds its bit range to a source of exactly that width.
	for _, driver := range graph.Drivers() {
		if width := driver.Source.Shape().Width; width != driver.Range.End-driver.Range.Start {
			t.Fatalf("%d-bit source for range %s of %s",
				width, driver.Range, driver.Target.Name())
		}
	}
	//
	return graph
}

func checkFails(t *testing.T, design *Design, code hdl.ErrorCode) {
	t.Helper()
	//
	_, errs := Elaborate(design)
	if len(errs) == 0 {
		t.Fatal("expected elaboration to fail")
	}
	//
	for _, err := range errs {
		if err.Code == code {
			return
		}
	}
	//
	t.Fatalf("expected %s, got %v", code, errs)
}

func driversOf(graph *Graph, sig *hdl.Signal) []Driver {
	var drivers []Driver
	//
	for _, driver := range graph.Drivers() {
		if driver.Target == sig {
			drivers = append(drivers, driver)
		}
	}
	//
	return drivers
}

// checkDriver locates the (single, full-width) driver of a signal and checks
// its source evaluates as expected under the given inputs.
func checkDriver(t *testing.T, graph *Graph, sig *hdl.Signal, env inputs, expected int64) {
	t.Helper()
	//
	drivers := driversOf(graph, sig)
	if len(drivers) != 1 {
		t.Fatalf("expected one driver of %s, got %d", sig.Name(), len(drivers))
	}
	//
	driver := drivers[0]
	if driver.Range.Start != 0 || driver.Range.End != sig.Shape().Width {
		t.Fatalf("unexpected driver range %s", driver.Range)
	}
	//
	checkEvalTo(t, driver.Source, env, expected)
}

func checkEvalTo(t *testing.T, source hdl.Value, env inputs, expected int64) {
	t.Helper()
	//
	actual, ok := hdl.EvalConst(subst(source, env))
	if !ok {
		t.Fatalf("%s did not evaluate", source.Lisp())
	}
	//
	if actual.Cmp(big.NewInt(expected)) != 0 {
		t.Errorf("%s evaluated to %s, expected %d", source.Lisp(), actual, expected)
	}
}

// subst rebuilds a driver source with every signal replaced by a constant of
// the same shape, so the result can be evaluated.  Finalized sources contain
// only primitive kinds, anything else is a bug.
func subst(v hdl.Value, env inputs) hdl.Value {
	switch n := v.(type) {
	case *hdl.Const:
		return n
	case *hdl.Signal:
		val, ok := env[n]
		if !ok {
			panic("no input given for " + n.Name())
		}
		//
		return hdl.NewConstOf(val, n.Shape())
	case *hdl.Operator:
		args := make([]hdl.Value, len(n.Children()))
		for i, child := range n.Children() {
			args[i] = subst(child, env)
		}
		//
		return hdl.NewOperator(n.Kind(), args...)
	case *hdl.Slice:
		return n.WithOperand(subst(n.Operand(), env))
	case *hdl.Cat:
		operands := make([]hdl.Value, len(n.Children()))
		for i, child := range n.Children() {
			operands[i] = subst(child, env)
		}
		//
		return hdl.NewCat(operands...)
	case *hdl.Repl:
		return hdl.NewRepl(subst(n.Operand(), env), n.Count())
	default:
		panic("unexpected node " + v.Lisp())
	}
}
