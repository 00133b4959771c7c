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
package hdl

import (
	"fmt"
	"strings"
)

// Stmt represents a statement: either an assignment, or a conditional
// construct grouping further statements.  Statements carry no shape of their
// own; they are compiled into drivers during elaboration.
type Stmt interface {
	// Lisp returns a concise S-expression rendering of this statement.
	Lisp() string
	//
	isStmt()
}

// ============================================================================
// Assignment
// ============================================================================

// Assign represents the assignment of a source value to a target.  The
// target must be a signal, a slice of an assignable value, or a
// concatenation of assignable values; assigning to a slice or concatenation
// drives the underlying bit ranges of its signal operand(s).
type Assign struct {
	// Target being assigned.
	Target Value
	// Source value driven onto the target.
	Source Value
}

// Set constructs the assignment of a source value to a target.
func Set(target Value, source Value) *Assign {
	return &Assign{target, source}
}

// Lisp implementation for the Stmt interface.
func (p *Assign) Lisp() string {
	return fmt.Sprintf("(set %s %s)", p.Target.Lisp(), p.Source.Lisp())
}

func (p *Assign) isStmt() {}

// ============================================================================
// Conditionals
// ============================================================================

// Arm pairs a guarding condition with the statements it guards.
type Arm struct {
	// Cond guarding this arm.  Conditions of more than one bit are
	// implicitly reduced, being true iff any bit is set.
	Cond Value
	// Body of this arm.
	Body []Stmt
}

// Conditional represents an if/elif/else chain.  Arms are evaluated as a
// priority chain: the first arm (in source order) whose condition holds
// selects its body, and if none does then the else body (where present)
// applies.
type Conditional struct {
	arms     []Arm
	elseBody []Stmt
}

// If begins a conditional chain with its first arm.
func If(cond Value, body ...Stmt) *Conditional {
	return &Conditional{[]Arm{{cond, body}}, nil}
}

// Elif appends a further arm to this chain, returning the chain.
func (p *Conditional) Elif(cond Value, body ...Stmt) *Conditional {
	p.arms = append(p.arms, Arm{cond, body})
	return p
}

// Else sets the default body of this chain, returning the chain.
func (p *Conditional) Else(body ...Stmt) *Conditional {
	p.elseBody = body
	return p
}

// Arms returns the arms of this chain in priority order.
func (p *Conditional) Arms() []Arm {
	return p.arms
}

// ElseBody returns the default body of this chain, which is nil when no
// else was given.
func (p *Conditional) ElseBody() []Stmt {
	return p.elseBody
}

// Lisp implementation for the Stmt interface.
func (p *Conditional) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString("(if")
	//
	for _, arm := range p.arms {
		builder.WriteString(fmt.Sprintf(" (%s", arm.Cond.Lisp()))
		writeBody(&builder, arm.Body)
		builder.WriteString(")")
	}
	//
	if p.elseBody != nil {
		builder.WriteString(" (else")
		writeBody(&builder, p.elseBody)
		builder.WriteString(")")
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *Conditional) isStmt() {}

// ============================================================================
// Switch
// ============================================================================

// SwitchCase pairs one or more patterns with the statements they guard.  A
// case fires when any of its patterns matches the switch subject.
type SwitchCase struct {
	// Patterns of this case, each of which must have the subject's width.
	Patterns []string
	// Body of this case.
	Body []Stmt
}

// Switch represents a pattern-matching switch over a subject value.  Like a
// conditional chain (and unlike a parallel decoder), overlapping cases are
// resolved strictly by declaration order, earlier wins; when no case
// matches, the default body (where present) applies.
type Switch struct {
	subject     Value
	cases       []SwitchCase
	defaultBody []Stmt
	hasDefault  bool
}

// NewSwitch begins a switch over a given subject.
func NewSwitch(subject Value) *Switch {
	return &Switch{subject, nil, nil, false}
}

// Case appends a case guarded by the given patterns, returning the switch.
func (p *Switch) Case(patterns []string, body ...Stmt) *Switch {
	p.cases = append(p.cases, SwitchCase{patterns, body})
	return p
}

// Default sets the default body of this switch, returning the switch.
func (p *Switch) Default(body ...Stmt) *Switch {
	p.defaultBody = body
	p.hasDefault = true
	//
	return p
}

// Subject returns the value this switch matches on.
func (p *Switch) Subject() Value {
	return p.subject
}

// Cases returns the cases of this switch in priority order.
func (p *Switch) Cases() []SwitchCase {
	return p.cases
}

// DefaultBody returns the default body of this switch along with a flag
// indicating whether one was actually given.
func (p *Switch) DefaultBody() ([]Stmt, bool) {
	return p.defaultBody, p.hasDefault
}

// Lisp implementation for the Stmt interface.
func (p *Switch) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("(switch %s", p.subject.Lisp()))
	//
	for _, c := range p.cases {
		builder.WriteString(fmt.Sprintf(" (case \"%s\"", strings.Join(c.Patterns, "\" \"")))
		writeBody(&builder, c.Body)
		builder.WriteString(")")
	}
	//
	if p.hasDefault {
		builder.WriteString(" (default")
		writeBody(&builder, p.defaultBody)
		builder.WriteString(")")
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *Switch) isStmt() {}

func writeBody(builder *strings.Builder, body []Stmt) {
	for _, stmt := range body {
		builder.WriteString(" ")
		builder.WriteString(stmt.Lisp())
	}
}
