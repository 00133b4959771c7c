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

// ArrayRef represents the selection of one element from an ordered sequence
// of values by a (possibly non-constant) index.  All elements must share one
// width, and must agree on signedness.  Elements may themselves be array
// references, giving multi-dimensional lookups.
//
// A constant index is bounds-checked during elaboration.  A variable index
// is not: when the index's value space exceeds the number of elements,
// selecting an out-of-range index yields an unspecified element.  Authors
// are expected to constrain the index's shape, or mask or clamp it
// themselves.
type ArrayRef struct {
	elements []Value
	index    Value
}

// NewArrayRef constructs the selection of one of the given elements by the
// given index.
func NewArrayRef(index Value, elements ...Value) *ArrayRef {
	return &ArrayRef{elements, index}
}

// Elements returns the elements of this array.
func (p *ArrayRef) Elements() []Value {
	return p.elements
}

// Index returns the index value of this lookup.
func (p *ArrayRef) Index() Value {
	return p.index
}

// Shape implementation for the Value interface.  All elements are required
// to share the resulting shape; violations are reported during elaboration,
// with the best-effort result here taking the widest element and remaining
// signed only if every element is.
func (p *ArrayRef) Shape() Shape {
	var (
		width  uint = 1
		signed      = true
	)
	//
	for _, element := range p.elements {
		shape := element.Shape()
		width = max(width, shape.Width)
		signed = signed && shape.Signed
	}
	//
	return Shape{width, signed && len(p.elements) > 0}
}

// Children implementation for the Value interface.  The index is reported
// last, after every element.
func (p *ArrayRef) Children() []Value {
	children := make([]Value, 0, len(p.elements)+1)
	children = append(children, p.elements...)
	//
	return append(children, p.index)
}

// Lisp implementation for the Value interface.
func (p *ArrayRef) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString("(array")
	//
	for _, element := range p.elements {
		builder.WriteString(" ")
		builder.WriteString(element.Lisp())
	}
	//
	builder.WriteString(fmt.Sprintf(" [%s])", p.index.Lisp()))
	//
	return builder.String()
}
