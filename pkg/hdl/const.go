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
	"math/big"

	"github.com/consensys/go-chisel/pkg/util/math"
)

// Const represents a fixed literal bit pattern of a given shape.  The stored
// value is always normalised into the shape's representable range by 2's
// complement wrap-around.
type Const struct {
	value big.Int
	shape Shape
}

// NewConst constructs a constant of minimal shape for a given value.
func NewConst(val int64) *Const {
	return NewBigConst(big.NewInt(val))
}

// NewBigConst constructs a constant of minimal shape for a given value.
func NewBigConst(val *big.Int) *Const {
	return NewBigConstOf(val, ShapeOf(val))
}

// NewConstOf constructs a constant of a given (explicit) shape, wrapping the
// value into the shape's range as necessary.
func NewConstOf(val int64, shape Shape) *Const {
	return NewBigConstOf(big.NewInt(val), shape)
}

// NewBigConstOf constructs a constant of a given (explicit) shape, wrapping
// the value into the shape's range as necessary.
func NewBigConstOf(val *big.Int, shape Shape) *Const {
	var c Const
	//
	c.shape = shape
	c.value.Mod(val, math.TwoPow(shape.Width))
	// Wrap into the negative half where necessary.
	if shape.Signed && c.value.Cmp(math.TwoPow(shape.Width-1)) >= 0 {
		c.value.Sub(&c.value, math.TwoPow(shape.Width))
	}
	//
	return &c
}

// NewConstInRange constructs a constant whose shape is the minimal shape
// capable of holding any value in the half-open range [lo, hi).
func NewConstInRange(val int64, lo int64, hi int64) *Const {
	shape := RangeShape(big.NewInt(lo), big.NewInt(hi))
	return NewConstOf(val, shape)
}

// NewEnumConst constructs a constant whose shape is derived from the members
// of a given enumeration, failing if any member is not an integer.
func NewEnumConst(val int64, members []any) (*Const, *Error) {
	shape, err := EnumShape(members)
	if err != nil {
		return nil, err
	}
	//
	return NewConstOf(val, shape), nil
}

// Value returns the (signed) integer value of this constant.
func (p *Const) Value() *big.Int {
	return &p.value
}

// Shape implementation for the Value interface.
func (p *Const) Shape() Shape {
	return p.shape
}

// Children implementation for the Value interface.
func (p *Const) Children() []Value {
	return nil
}

// Lisp implementation for the Value interface.
func (p *Const) Lisp() string {
	return p.value.String()
}
