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

	"github.com/consensys/go-chisel/pkg/hdl"
)

// inferencer performs the bottom-up shape pass over every expression
// reachable from a design, checking each node against the rules of its
// kind.  Shapes themselves are derived by the nodes; what this pass adds is
// the static validation the derivation alone cannot express (mismatched
// array elements, out-of-range constant bounds, malformed patterns, and so
// on).  Shared nodes are checked once.
type inferencer struct {
	seen map[hdl.Value]bool
	errs []*hdl.Error
}

// inferDesign runs the shape pass over a whole design, returning all
// diagnostics found.
func inferDesign(design *Design) []*hdl.Error {
	p := inferencer{make(map[hdl.Value]bool), nil}
	//
	for _, proc := range design.Processes() {
		p.inferStmts(proc.Stmts())
	}
	//
	return p.errs
}

func (p *inferencer) inferStmts(stmts []hdl.Stmt) {
	for _, stmt := range stmts {
		p.inferStmt(stmt)
	}
}

func (p *inferencer) inferStmt(stmt hdl.Stmt) {
	switch s := stmt.(type) {
	case *hdl.Assign:
		p.inferValue(s.Source)
		p.inferValue(s.Target)
		p.inferTarget(s, s.Target)
	case *hdl.Conditional:
		for _, arm := range s.Arms() {
			p.inferValue(arm.Cond)
			p.inferStmts(arm.Body)
		}
		//
		p.inferStmts(s.ElseBody())
	case *hdl.Switch:
		p.inferValue(s.Subject())
		p.inferSwitch(s)
	default:
		panic("unknown statement")
	}
}

func (p *inferencer) inferSwitch(s *hdl.Switch) {
	width := s.Subject().Shape().Width
	//
	for _, c := range s.Cases() {
		for _, text := range c.Patterns {
			p.checkPattern(s, text, width)
		}
		//
		p.inferStmts(c.Body)
	}
	//
	if body, ok := s.DefaultBody(); ok {
		p.inferStmts(body)
	}
}

// inferTarget checks that the target of an assignment is actually
// assignable, i.e. built only from signals, slices and concatenations.
func (p *inferencer) inferTarget(stmt hdl.Stmt, target hdl.Value) {
	switch t := target.(type) {
	case *hdl.Signal:
		// ok
	case *hdl.Slice:
		p.inferTarget(stmt, t.Operand())
	case *hdl.Cat:
		for _, operand := range t.Children() {
			p.inferTarget(stmt, operand)
		}
	default:
		p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, stmt,
			"cannot assign to %s", target.Lisp()))
	}
}

func (p *inferencer) inferValue(root hdl.Value) {
	hdl.Walk(root, func(node hdl.Value) {
		if !p.seen[node] {
			p.seen[node] = true
			p.checkValue(node)
		}
	})
}

func (p *inferencer) checkValue(node hdl.Value) {
	switch v := node.(type) {
	case *hdl.Slice:
		if indices, err := v.Indices(); err != nil {
			p.errs = append(p.errs, err)
		} else if len(indices) == 0 {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"slice %s selects no bits", v.Lisp()))
		}
	case *hdl.Repl:
		if v.Count() == 0 {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"zero-count replication"))
		}
	case *hdl.Cat:
		if len(v.Children()) == 0 {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"empty concatenation"))
		}
	case *hdl.ArrayRef:
		p.checkArrayRef(v)
	case *hdl.Operator:
		p.checkOperator(v)
	case *hdl.Matches:
		for _, text := range v.Patterns() {
			p.checkPattern(v, text, v.Operand().Shape().Width)
		}
	}
}

func (p *inferencer) checkArrayRef(v *hdl.ArrayRef) {
	elements := v.Elements()
	//
	if len(elements) == 0 {
		p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v, "empty array"))
		return
	}
	// All elements must agree exactly on shape.
	shape := elements[0].Shape()
	//
	for _, element := range elements[1:] {
		if ith := element.Shape(); ith.Width != shape.Width {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"array elements of differing widths (%s vs %s)", shape, ith))
			return
		} else if ith.Signed != shape.Signed {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"array elements of mixed signedness"))
			return
		}
	}
	// Constant indices are bounds checked here, once and for all.  Variable
	// indices are not: out-of-range selections are explicitly unspecified.
	if index, ok := hdl.EvalConst(v.Index()); ok {
		if index.Sign() < 0 || index.Cmp(big.NewInt(int64(len(elements)))) >= 0 {
			p.errs = append(p.errs, hdl.NewError(hdl.INDEX_OUT_OF_RANGE, v,
				"constant index %s of %d-element array", index, len(elements)))
		}
	}
}

func (p *inferencer) checkOperator(v *hdl.Operator) {
	switch v.Kind() {
	case hdl.SHL, hdl.SHR:
		if v.Children()[1].Shape().Signed {
			p.errs = append(p.errs, hdl.NewError(hdl.SHAPE_MISMATCH, v,
				"signed shift amount"))
		}
	}
}

func (p *inferencer) checkPattern(node any, text string, width uint) {
	pattern, err := hdl.ParsePattern(text)
	//
	if err != nil {
		err.Node = node
		p.errs = append(p.errs, err)
	} else if pattern.Width() != width {
		p.errs = append(p.errs, hdl.NewError(hdl.INVALID_PATTERN, node,
			"pattern \"%s\" of length %d against %d-bit expression",
			text, pattern.Width(), width))
	}
}
