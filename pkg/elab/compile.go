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
	"github.com/consensys/go-chisel/pkg/hdl"
)

// chain is the common form both if/elif/else and switch/case/default are
// compiled into: an ordered list of (guard, body) pairs plus an optional
// default body.  It is evaluated as a priority chain — the first guard (in
// source order) which holds selects its body — mirroring a priority
// encoder rather than a parallel decoder.
type chain struct {
	guards     []hdl.Value
	bodies     [][]hdl.Stmt
	defaultBdy []hdl.Stmt
	hasDefault bool
}

// apply processes a list of statements against an environment, in order.
func (r *resolver) apply(env *environment, stmts []hdl.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *hdl.Assign:
			r.applyAssign(env, s)
		case *hdl.Conditional:
			r.applyChain(env, r.compileConditional(s))
		case *hdl.Switch:
			r.applyChain(env, r.compileSwitch(s))
		default:
			panic("unknown statement")
		}
	}
}

// compileConditional turns an if/elif/else construct into chain form.  Every
// guard is implicitly reduced to a single bit ("or of all bits").
func (r *resolver) compileConditional(stmt *hdl.Conditional) chain {
	var c chain
	//
	for _, arm := range stmt.Arms() {
		c.guards = append(c.guards, hdl.AsBool(r.lowerValue(arm.Cond)))
		c.bodies = append(c.bodies, arm.Body)
	}
	//
	if body := stmt.ElseBody(); body != nil {
		c.defaultBdy = body
		c.hasDefault = true
	}
	//
	return c
}

// compileSwitch turns a switch/case/default construct into chain form, with
// each case guarded by the disjunction of its pattern matches against the
// subject.
func (r *resolver) compileSwitch(stmt *hdl.Switch) chain {
	var (
		c       chain
		subject = r.lowerValue(stmt.Subject())
	)
	//
	for _, sc := range stmt.Cases() {
		var guard hdl.Value
		//
		for _, text := range sc.Patterns {
			// Patterns were validated during the shape pass.
			pattern, err := hdl.ParsePattern(text)
			if err != nil {
				panic(err.Error())
			}
			//
			if guard == nil {
				guard = pattern.Guard(subject)
			} else {
				guard = hdl.BitOr(guard, pattern.Guard(subject))
			}
		}
		// A case without patterns can never fire.
		if guard == nil {
			guard = hdl.NewConstOf(0, hdl.BoolShape())
		}
		//
		c.guards = append(c.guards, guard)
		c.bodies = append(c.bodies, sc.Body)
	}
	//
	if body, ok := stmt.DefaultBody(); ok {
		c.defaultBdy = body
		c.hasDefault = true
	}
	//
	return c
}

// applyChain applies a priority chain to an environment.  Each body is
// processed against its own copy of the environment; on scope exit, every
// touched target receives one multiplexed value nesting priority exactly as
// the branch order (guard1 ? v1 : guard2 ? v2 : ... : default).  A branch
// which fires without assigning a target leaves that target at the value it
// held before the chain was entered.
func (r *resolver) applyChain(env *environment, c chain) {
	var (
		children = make([]*environment, len(c.bodies))
		defEnv   *environment
	)
	//
	for i, body := range c.bodies {
		children[i] = env.clone()
		r.apply(children[i], body)
	}
	//
	if c.hasDefault {
		defEnv = env.clone()
		r.apply(defEnv, c.defaultBdy)
	}
	// Merge every signal touched by at least one branch.
	for _, sig := range touchedSignals(env, children, defEnv) {
		var (
			base   = r.baseValue(env, sig)
			driven = newDrivenBits(env, sig)
			value  hdl.Value
		)
		// Seed with the value applying when no guard fires.
		value = base
		//
		if defEnv != nil {
			if b := defEnv.get(sig); b != env.get(sig) {
				value = b.value
				driven.InPlaceUnion(b.driven)
			}
		}
		// Nest muxes innermost-last, so the first guard ends up outermost.
		for i := len(children) - 1; i >= 0; i-- {
			branch := children[i].get(sig)
			//
			if branch == env.get(sig) {
				// Branch did not assign this signal.
				if value != base {
					value = hdl.Mux(c.guards[i], base, value)
				}
			} else {
				value = hdl.Mux(c.guards[i], branch.value, value)
				driven.InPlaceUnion(branch.driven)
			}
		}
		//
		env.put(sig, &binding{value, driven})
	}
}

// touchedSignals determines which signals were assigned within at least one
// branch environment, in first-touched order.
func touchedSignals(parent *environment, children []*environment, defEnv *environment) []*hdl.Signal {
	var (
		touched []*hdl.Signal
		seen    = make(map[*hdl.Signal]bool)
	)
	//
	envs := children
	if defEnv != nil {
		envs = append(envs[:len(envs):len(envs)], defEnv)
	}
	//
	for _, child := range envs {
		for _, sig := range child.order {
			if !seen[sig] && child.get(sig) != parent.get(sig) {
				seen[sig] = true
				touched = append(touched, sig)
			}
		}
	}
	//
	return touched
}

// lowerValue rewrites an expression into driver-graph form: array lookups
// become priority mux trees, and pattern tests become mask comparisons.
// Rewriting is memoised, so shared subexpressions stay shared.
func (r *resolver) lowerValue(v hdl.Value) hdl.Value {
	if lowered, ok := r.lowered[v]; ok {
		return lowered
	}
	//
	lowered := r.lowerValueInner(v)
	r.lowered[v] = lowered
	//
	return lowered
}

func (r *resolver) lowerValueInner(v hdl.Value) hdl.Value {
	switch node := v.(type) {
	case *hdl.Const, *hdl.Signal:
		return v
	case *hdl.Operator:
		operands := v.Children()
		lowered := make([]hdl.Value, len(operands))
		//
		for i, operand := range operands {
			lowered[i] = r.lowerValue(operand)
		}
		//
		return hdl.NewOperator(node.Kind(), lowered...)
	case *hdl.Slice:
		return node.WithOperand(r.lowerValue(node.Operand()))
	case *hdl.Cat:
		operands := make([]hdl.Value, len(node.Children()))
		//
		for i, operand := range node.Children() {
			operands[i] = r.lowerValue(operand)
		}
		//
		return hdl.NewCat(operands...)
	case *hdl.Repl:
		return hdl.NewRepl(r.lowerValue(node.Operand()), node.Count())
	case *hdl.ArrayRef:
		return r.lowerArrayRef(node)
	case *hdl.Matches:
		return r.lowerMatches(node)
	default:
		panic("unknown value")
	}
}

// lowerArrayRef lowers an array lookup over n elements into a priority mux
// tree selecting element i when the index equals i.  A constant index
// (already bounds checked) selects its element outright.  For a variable
// index whose value space exceeds n, the resulting element is unspecified:
// the tree built here happens to fall back on element zero, but nothing may
// rely on that.
func (r *resolver) lowerArrayRef(node *hdl.ArrayRef) hdl.Value {
	var (
		index    = r.lowerValue(node.Index())
		elements = node.Elements()
	)
	//
	if val, ok := hdl.EvalConst(index); ok {
		return r.lowerValue(elements[val.Int64()])
	}
	//
	value := r.lowerValue(elements[0])
	//
	for i := len(elements) - 1; i >= 1; i-- {
		value = hdl.Mux(
			hdl.Eq(index, hdl.NewConst(int64(i))),
			r.lowerValue(elements[i]),
			value)
	}
	//
	return value
}

// lowerMatches lowers a pattern test into the disjunction of per-pattern
// mask comparisons.
func (r *resolver) lowerMatches(node *hdl.Matches) hdl.Value {
	var (
		operand = r.lowerValue(node.Operand())
		value   hdl.Value
	)
	//
	for _, text := range node.Patterns() {
		// Patterns were validated during the shape pass.
		pattern, err := hdl.ParsePattern(text)
		if err != nil {
			panic(err.Error())
		}
		//
		if value == nil {
			value = pattern.Guard(operand)
		} else {
			value = hdl.BitOr(value, pattern.Guard(operand))
		}
	}
	//
	if value == nil {
		return hdl.NewConstOf(0, hdl.BoolShape())
	}
	//
	return value
}

// resize adapts a source value to the width of the bits it drives:
// truncation discards high bits, widening zero-extends unsigned sources and
// sign-extends signed ones (by replicating the top bit, the standard
// idiom).
func resize(src hdl.Value, width uint) hdl.Value {
	shape := src.Shape()
	//
	switch {
	case shape.Width == width:
		return src
	case shape.Width > width:
		return hdl.NewSlice(src, 0, int(width))
	case shape.Signed:
		sign := hdl.Bit(src, int(shape.Width)-1)
		return hdl.NewCat(src, hdl.NewRepl(sign, width-shape.Width))
	default:
		return hdl.NewCat(src, hdl.NewConstOf(0, hdl.UnsignedShape(width-shape.Width)))
	}
}
