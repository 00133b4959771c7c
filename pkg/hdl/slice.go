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

import "fmt"

// Slice represents the selection of bit positions from an operand value.
// Bit zero is the least-significant bit of the operand, and negative indices
// count back from the most-significant end (index -1 being the top bit).
// For an ascending (positive) stride the stop bound is exclusive; for a
// descending (negative) stride it is inclusive, so that a descending slice
// can reach bit zero.  The result of a slice is always unsigned, regardless
// of the signedness of its operand.
type Slice struct {
	operand Value
	start   int
	stop    int
	stride  int
	// Single-index selections have no stop bound at all.
	single bool
}

// NewSlice constructs the selection of bits [start, stop) of a given value.
func NewSlice(operand Value, start int, stop int) *Slice {
	return &Slice{operand, start, stop, 1, false}
}

// NewStridedSlice constructs the selection of every stride'th bit of a given
// value, beginning at start.  The stride must not be zero.
func NewStridedSlice(operand Value, start int, stop int, stride int) *Slice {
	return &Slice{operand, start, stop, stride, false}
}

// Bit constructs the selection of a single bit of a given value.
func Bit(operand Value, index int) *Slice {
	return &Slice{operand, index, 0, 1, true}
}

// WithOperand constructs a copy of this slice over a different operand,
// keeping the same bounds.
func (p *Slice) WithOperand(operand Value) *Slice {
	return &Slice{operand, p.start, p.stop, p.stride, p.single}
}

// Operand returns the value this slice selects from.
func (p *Slice) Operand() Value {
	return p.operand
}

// Bounds returns the raw (start, stop, stride) bounds of this slice, as
// given at construction.  For single-bit selections only start is
// meaningful.
func (p *Slice) Bounds() (int, int, int) {
	return p.start, p.stop, p.stride
}

// IsIndex checks whether this is a single-bit selection.
func (p *Slice) IsIndex() bool {
	return p.single
}

// Indices normalises the bounds of this slice against the width of its
// operand, yielding the selected bit positions in order.  Bit i of the
// slice's result is bit indices[i] of the operand.  Bounds lying outside the
// operand's bit-index space are fatal.
func (p *Slice) Indices() ([]uint, *Error) {
	var (
		width       = int(p.operand.Shape().Width)
		start, stop = p.start, p.stop
		indices     []uint
	)
	//
	if start < 0 {
		start += width
	}
	//
	if p.single {
		if start < 0 || start >= width {
			return nil, NewError(INDEX_OUT_OF_RANGE, p,
				"bit %d of %d-bit value", p.start, width)
		}
		//
		return []uint{uint(start)}, nil
	}
	//
	if stop < 0 {
		stop += width
	}
	//
	if p.stride == 0 {
		return nil, NewError(INDEX_OUT_OF_RANGE, p, "zero stride")
	} else if start < 0 || start > width || stop < 0 || stop > width {
		return nil, NewError(INDEX_OUT_OF_RANGE, p,
			"bits [%d:%d] of %d-bit value", p.start, p.stop, width)
	}
	//
	if p.stride > 0 {
		for i := start; i < stop; i += p.stride {
			indices = append(indices, uint(i))
		}
	} else {
		for i := start; i >= stop && i < width; i += p.stride {
			indices = append(indices, uint(i))
		}
	}
	//
	return indices, nil
}

// Shape implementation for the Value interface.  Slices selecting no bits
// are ill-formed (there are no zero-width values) and reported during
// elaboration; their best-effort shape is a single bit.
func (p *Slice) Shape() Shape {
	indices, err := p.Indices()
	if err != nil || len(indices) == 0 {
		return BoolShape()
	}
	//
	return UnsignedShape(uint(len(indices)))
}

// Children implementation for the Value interface.
func (p *Slice) Children() []Value {
	return []Value{p.operand}
}

// Lisp implementation for the Value interface.
func (p *Slice) Lisp() string {
	if p.single {
		return fmt.Sprintf("(bit %s %d)", p.operand.Lisp(), p.start)
	} else if p.stride != 1 {
		return fmt.Sprintf("(slice %s %d %d %d)", p.operand.Lisp(), p.start, p.stop, p.stride)
	}
	//
	return fmt.Sprintf("(slice %s %d %d)", p.operand.Lisp(), p.start, p.stop)
}
