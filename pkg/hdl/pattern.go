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
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Pattern represents a fixed-length bit-string over the alphabet {0,1,-},
// where "-" marks a don't-care position.  The leftmost character of the
// source text corresponds to the most-significant bit.  A pattern matches a
// value iff, at every position it cares about, the value's bit agrees.
type Pattern struct {
	text string
	// Positions (LSB-indexed) which are not don't-cares.
	care *bitset.BitSet
	// Required bit values at cared-about positions.
	bits *bitset.BitSet
}

// ParsePattern parses the textual form of a pattern, rejecting any character
// outside the alphabet {0,1,-}.
func ParsePattern(text string) (*Pattern, *Error) {
	var (
		width = uint(len(text))
		care  = bitset.New(width)
		bits  = bitset.New(width)
	)
	//
	if width == 0 {
		return nil, NewError(INVALID_PATTERN, nil, "empty pattern")
	}
	//
	for i, c := range text {
		// Leftmost character is the most-significant bit.
		bit := width - 1 - uint(i)
		//
		switch c {
		case '0':
			care.Set(bit)
		case '1':
			care.Set(bit)
			bits.Set(bit)
		case '-':
			// don't care
		default:
			return nil, NewError(INVALID_PATTERN, nil,
				"character %q in pattern \"%s\"", c, text)
		}
	}
	//
	return &Pattern{text, care, bits}, nil
}

// Width returns the length of this pattern, which must equal the width of
// any expression it is matched against.
func (p *Pattern) Width() uint {
	return uint(len(p.text))
}

// String returns the textual form of this pattern.
func (p *Pattern) String() string {
	return p.text
}

// MatchesBits checks this pattern against a given (non-negative) bit
// pattern.
func (p *Pattern) MatchesBits(bits *big.Int) bool {
	for i, ok := p.care.NextSet(0); ok; i, ok = p.care.NextSet(i + 1) {
		if (bits.Bit(int(i)) == 1) != p.bits.Test(i) {
			return false
		}
	}
	//
	return true
}

// Guard constructs the one-bit expression which is true exactly when this
// pattern matches a given value, namely ((x ^ bits) & care) == 0.  The
// pattern must have the value's exact width, which callers validate before
// guards are built.
func (p *Pattern) Guard(arg Value) Value {
	var (
		width = arg.Shape().Width
		care  big.Int
		bits  big.Int
	)
	//
	if width != p.Width() {
		panic("pattern width differs from operand width")
	}
	//
	for i, ok := p.care.NextSet(0); ok; i, ok = p.care.NextSet(i + 1) {
		care.SetBit(&care, int(i), 1)
	}
	//
	for i, ok := p.bits.NextSet(0); ok; i, ok = p.bits.NextSet(i + 1) {
		bits.SetBit(&bits, int(i), 1)
	}
	//
	return Eq(
		BitAnd(
			BitXor(arg, NewBigConstOf(&bits, UnsignedShape(width))),
			NewBigConstOf(&care, UnsignedShape(width))),
		NewConstOf(0, UnsignedShape(width)))
}

// Matches represents the one-bit test of a value against one or more
// patterns, true when any of them matches.  Every pattern's length must
// equal the width of the tested value.  The node is lowered away during
// elaboration, hence never appears in a finalised driver graph.
type Matches struct {
	operand  Value
	patterns []string
}

// NewMatches constructs the test of a given value against the given
// patterns.  The patterns themselves are validated during elaboration, not
// here.
func NewMatches(operand Value, patterns ...string) *Matches {
	return &Matches{operand, patterns}
}

// Operand returns the tested value.
func (p *Matches) Operand() Value {
	return p.operand
}

// Patterns returns the textual patterns being tested against.
func (p *Matches) Patterns() []string {
	return p.patterns
}

// Shape implementation for the Value interface.
func (p *Matches) Shape() Shape {
	return BoolShape()
}

// Children implementation for the Value interface.
func (p *Matches) Children() []Value {
	return []Value{p.operand}
}

// Lisp implementation for the Value interface.
func (p *Matches) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("(matches %s", p.operand.Lisp()))
	//
	for _, pattern := range p.patterns {
		builder.WriteString(fmt.Sprintf(" \"%s\"", pattern))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
