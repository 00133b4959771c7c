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
	"math/big"

	"github.com/consensys/go-chisel/pkg/util/math"
)

// Shape describes the bit-level representation of a value, namely how many
// bits it occupies and whether it is interpreted as a 2's complement signed
// integer or not.  An unsigned shape of width w represents the range
// [0, 2^w); a signed shape of width w represents [-2^(w-1), 2^(w-1)).
type Shape struct {
	// Width (in bits) of this shape, which is always at least one.
	Width uint
	// Signed indicates a 2's complement interpretation.
	Signed bool
}

// NewShape constructs a shape of a given width and signedness.  Observe that
// zero-width shapes are meaningless, hence requesting one is a programming
// error.
func NewShape(width uint, signed bool) Shape {
	if width == 0 {
		panic("zero-width shape")
	}
	//
	return Shape{width, signed}
}

// UnsignedShape constructs an unsigned shape of a given width.
func UnsignedShape(width uint) Shape {
	return NewShape(width, false)
}

// SignedShape constructs a signed shape of a given width.
func SignedShape(width uint) Shape {
	return NewShape(width, true)
}

// BoolShape returns the shape of a boolean value, which is always a single
// unsigned bit.
func BoolShape() Shape {
	return Shape{1, false}
}

// ShapeOf returns the minimal shape capable of representing a given integer
// in 2's complement.  Non-negative values get an unsigned shape, negative
// values a signed one.  For example, 10 has shape u4 whilst -10 has shape s5.
func ShapeOf(val *big.Int) Shape {
	if val.Sign() < 0 {
		return Shape{math.SignedBitWidth(val), true}
	}
	//
	return Shape{math.UnsignedBitWidth(val), false}
}

// RangeShape returns the minimal shape capable of representing every integer
// in the half-open range [lo, hi).  The shape is signed exactly when lo is
// negative.  An empty range still yields a (degenerate) one-bit shape, since
// zero-width shapes do not exist.
func RangeShape(lo *big.Int, hi *big.Int) Shape {
	var (
		last   big.Int
		signed = lo.Sign() < 0
		width  uint
	)
	// Largest value the range can actually contain.
	last.Sub(hi, big.NewInt(1))
	//
	if last.Cmp(lo) < 0 {
		last.Set(lo)
	}
	//
	if signed {
		width = max(math.SignedBitWidth(lo), math.SignedBitWidth(&last))
	} else {
		width = math.UnsignedBitWidth(&last)
	}
	//
	return Shape{width, signed}
}

// EnumShape returns the minimal shape capable of representing every member of
// a given enumeration.  Members may be given as any Go integer type, or as
// (pointers to) big integers.  Anything else is unrepresentable in hardware
// and yields a fatal diagnostic.
func EnumShape(members []any) (Shape, *Error) {
	var lo, hi *big.Int
	//
	if len(members) == 0 {
		return Shape{}, NewError(UNREPRESENTABLE_ENUM, nil, "empty enumeration")
	}
	//
	for _, member := range members {
		val, ok := asBigInt(member)
		if !ok {
			return Shape{}, NewError(UNREPRESENTABLE_ENUM, nil,
				"non-integer enum member %v", member)
		}
		//
		if lo == nil || val.Cmp(lo) < 0 {
			lo = val
		}
		//
		if hi == nil || val.Cmp(hi) > 0 {
			hi = val
		}
	}
	// Treat as the range [min .. max+1).
	var above big.Int
	//
	above.Add(hi, big.NewInt(1))
	//
	return RangeShape(lo, &above), nil
}

// Bounds returns inclusive lower and upper bounds on the set of values
// representable by this shape.
func (p Shape) Bounds() (*big.Int, *big.Int) {
	var lo, hi big.Int
	//
	if p.Signed {
		half := math.TwoPow(p.Width - 1)
		lo.Neg(half)
		hi.Sub(half, big.NewInt(1))
	} else {
		lo.SetInt64(0)
		hi.Sub(math.TwoPow(p.Width), big.NewInt(1))
	}
	//
	return &lo, &hi
}

// Contains checks whether a given value is representable by this shape.
func (p Shape) Contains(val *big.Int) bool {
	lo, hi := p.Bounds()
	return lo.Cmp(val) <= 0 && val.Cmp(hi) <= 0
}

// String returns a concise representation of this shape, such as "u8" or
// "s5".
func (p Shape) String() string {
	if p.Signed {
		return fmt.Sprintf("s%d", p.Width)
	}
	//
	return fmt.Sprintf("u%d", p.Width)
}

// ============================================================================
// Promotion rules
// ============================================================================

// AddShape determines the shape of an addition (or subtraction) of values of
// two given shapes.  Each operand is first widened by one bit if it is
// unsigned whilst the other is signed; the result then gains one further bit
// to absorb any carry (or borrow), and is signed if either operand was.
func AddShape(lhs Shape, rhs Shape) Shape {
	wl, wr := lhs.Width, rhs.Width
	//
	if !lhs.Signed && rhs.Signed {
		wl++
	}
	//
	if !rhs.Signed && lhs.Signed {
		wr++
	}
	//
	return Shape{max(wl, wr) + 1, lhs.Signed || rhs.Signed}
}

// MulShape determines the shape of a product of values of two given shapes,
// whose width is simply the sum of the operand widths.
func MulShape(lhs Shape, rhs Shape) Shape {
	return Shape{lhs.Width + rhs.Width, lhs.Signed || rhs.Signed}
}

// CommonShape determines the smallest shape into which values of two given
// shapes can both be losslessly promoted.  This is the shape at which
// comparisons are performed, and the shape of a multiplexed selection between
// the two.  It follows the addition rule, minus the final carry bit.
func CommonShape(lhs Shape, rhs Shape) Shape {
	wl, wr := lhs.Width, rhs.Width
	//
	if !lhs.Signed && rhs.Signed {
		wl++
	}
	//
	if !rhs.Signed && lhs.Signed {
		wr++
	}
	//
	return Shape{max(wl, wr), lhs.Signed || rhs.Signed}
}

// BitwiseShape determines the shape of a bitwise and/or/xor of values of two
// given shapes.  Operands of differing signedness are permitted, with each
// sign- or zero-extended (according to its own signedness) to the common
// width beforehand; the result is signed only when both operands are.
func BitwiseShape(lhs Shape, rhs Shape) Shape {
	return Shape{max(lhs.Width, rhs.Width), lhs.Signed && rhs.Signed}
}

// asBigInt attempts to view an arbitrary value as an integer.
func asBigInt(member any) (*big.Int, bool) {
	switch v := member.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return big.NewInt(int64(v)), true
	case uint16:
		return big.NewInt(int64(v)), true
	case uint32:
		return big.NewInt(int64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case *big.Int:
		return v, true
	case big.Int:
		return &v, true
	default:
		return nil, false
	}
}
