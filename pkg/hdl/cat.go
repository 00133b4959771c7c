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

// Cat represents the concatenation of one or more values into a single
// unsigned value, with the first operand occupying the least-significant
// bits, the second the next group up, and so on.
type Cat struct {
	operands []Value
}

// NewCat constructs the concatenation of the given values, first operand
// least significant.
func NewCat(operands ...Value) *Cat {
	return &Cat{operands}
}

// Shape implementation for the Value interface.
func (p *Cat) Shape() Shape {
	var width uint
	//
	for _, operand := range p.operands {
		width += operand.Shape().Width
	}
	//
	return Shape{max(1, width), false}
}

// Children implementation for the Value interface.
func (p *Cat) Children() []Value {
	return p.operands
}

// Lisp implementation for the Value interface.
func (p *Cat) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString("(cat")
	//
	for _, operand := range p.operands {
		builder.WriteString(" ")
		builder.WriteString(operand.Lisp())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

// Repl represents the replication of a value a given number of times, being
// exactly equivalent to the concatenation of that many copies.  Replicating
// the top bit of a value is the standard idiom for widening it with explicit
// sign extension.
type Repl struct {
	operand Value
	count   uint
}

// NewRepl constructs the replication of a given value a given number of
// times.
func NewRepl(operand Value, count uint) *Repl {
	return &Repl{operand, count}
}

// Operand returns the replicated value.
func (p *Repl) Operand() Value {
	return p.operand
}

// Count returns the number of copies.
func (p *Repl) Count() uint {
	return p.count
}

// Shape implementation for the Value interface.  Zero-count replications are
// ill-formed (there are no zero-width values) and reported during
// elaboration.
func (p *Repl) Shape() Shape {
	return Shape{max(1, p.operand.Shape().Width*p.count), false}
}

// Children implementation for the Value interface.
func (p *Repl) Children() []Value {
	return []Value{p.operand}
}

// Lisp implementation for the Value interface.
func (p *Repl) Lisp() string {
	return fmt.Sprintf("(repl %s %d)", p.operand.Lisp(), p.count)
}
