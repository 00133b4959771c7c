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

// OpKind identifies the operation performed by an operator node.
type OpKind uint

const (
	// ADD is 2's complement addition.
	ADD OpKind = iota
	// SUB is 2's complement subtraction.
	SUB
	// MUL is 2's complement multiplication.
	MUL
	// EQ is the equality comparison.
	EQ
	// NEQ is the disequality comparison.
	NEQ
	// LT is the (sign-aware) strictly-less-than comparison.
	LT
	// LTEQ is the (sign-aware) less-than-or-equal comparison.
	LTEQ
	// GT is the (sign-aware) strictly-greater-than comparison.
	GT
	// GTEQ is the (sign-aware) greater-than-or-equal comparison.
	GTEQ
	// AND is bitwise conjunction.
	AND
	// OR is bitwise disjunction.
	OR
	// XOR is bitwise exclusive disjunction.
	XOR
	// SHL shifts its first operand left by its second.
	SHL
	// SHR shifts its first operand right by its second.
	SHR
	// NEG is 2's complement negation.
	NEG
	// INV is bitwise inversion.
	INV
	// ANY reduces a value to one bit, true iff at least one bit is set.
	ANY
	// ALL reduces a value to one bit, true iff every bit is set.
	ALL
	// PARITY reduces a value to one bit, the exclusive-or of all its bits.
	PARITY
	// MUX selects its second operand when its first is true (i.e. non-zero),
	// and its third otherwise.
	MUX
)

// Operator represents the application of an operation to one or more operand
// values, with a shape derived from the operand shapes according to rules
// specific to the operation.
type Operator struct {
	kind     OpKind
	operands []Value
}

// Add constructs the sum of two values.
func Add(lhs Value, rhs Value) *Operator { return &Operator{ADD, []Value{lhs, rhs}} }

// Sub constructs the difference of two values.
func Sub(lhs Value, rhs Value) *Operator { return &Operator{SUB, []Value{lhs, rhs}} }

// Mul constructs the product of two values.
func Mul(lhs Value, rhs Value) *Operator { return &Operator{MUL, []Value{lhs, rhs}} }

// Eq constructs the equality of two values.
func Eq(lhs Value, rhs Value) *Operator { return &Operator{EQ, []Value{lhs, rhs}} }

// Neq constructs the disequality of two values.
func Neq(lhs Value, rhs Value) *Operator { return &Operator{NEQ, []Value{lhs, rhs}} }

// Lt constructs the strictly-less-than comparison of two values.
func Lt(lhs Value, rhs Value) *Operator { return &Operator{LT, []Value{lhs, rhs}} }

// Lteq constructs the less-than-or-equal comparison of two values.
func Lteq(lhs Value, rhs Value) *Operator { return &Operator{LTEQ, []Value{lhs, rhs}} }

// Gt constructs the strictly-greater-than comparison of two values.
func Gt(lhs Value, rhs Value) *Operator { return &Operator{GT, []Value{lhs, rhs}} }

// Gteq constructs the greater-than-or-equal comparison of two values.
func Gteq(lhs Value, rhs Value) *Operator { return &Operator{GTEQ, []Value{lhs, rhs}} }

// BitAnd constructs the bitwise conjunction of two values.
func BitAnd(lhs Value, rhs Value) *Operator { return &Operator{AND, []Value{lhs, rhs}} }

// BitOr constructs the bitwise disjunction of two values.
func BitOr(lhs Value, rhs Value) *Operator { return &Operator{OR, []Value{lhs, rhs}} }

// BitXor constructs the bitwise exclusive disjunction of two values.
func BitXor(lhs Value, rhs Value) *Operator { return &Operator{XOR, []Value{lhs, rhs}} }

// Shl constructs the left shift of one value by another.  The shift amount
// must be unsigned.
func Shl(lhs Value, rhs Value) *Operator { return &Operator{SHL, []Value{lhs, rhs}} }

// Shr constructs the right shift of one value by another.  The shift amount
// must be unsigned.  Signed values shift in their sign bit.
func Shr(lhs Value, rhs Value) *Operator { return &Operator{SHR, []Value{lhs, rhs}} }

// Neg constructs the 2's complement negation of a value.
func Neg(arg Value) *Operator { return &Operator{NEG, []Value{arg}} }

// Inv constructs the bitwise inversion of a value.
func Inv(arg Value) *Operator { return &Operator{INV, []Value{arg}} }

// Any constructs the one-bit "or of all bits" reduction of a value.  This is
// the implicit reduction applied to any value used as a condition.
func Any(arg Value) *Operator { return &Operator{ANY, []Value{arg}} }

// All constructs the one-bit "and of all bits" reduction of a value.
func All(arg Value) *Operator { return &Operator{ALL, []Value{arg}} }

// Parity constructs the one-bit "xor of all bits" reduction of a value.
func Parity(arg Value) *Operator { return &Operator{PARITY, []Value{arg}} }

// Mux constructs the selection of one of two values by a given condition,
// where a true (i.e. non-zero) condition selects the first.
func Mux(cond Value, ifTrue Value, ifFalse Value) *Operator {
	return &Operator{MUX, []Value{cond, ifTrue, ifFalse}}
}

// LogicalAnd constructs the one-bit conjunction of two conditions, each
// implicitly reduced to one bit beforehand.
func LogicalAnd(lhs Value, rhs Value) *Operator {
	return BitAnd(AsBool(lhs), AsBool(rhs))
}

// LogicalOr constructs the one-bit disjunction of two conditions, each
// implicitly reduced to one bit beforehand.
func LogicalOr(lhs Value, rhs Value) *Operator {
	return BitOr(AsBool(lhs), AsBool(rhs))
}

// LogicalNot constructs the one-bit negation of a condition.
func LogicalNot(arg Value) *Operator {
	return Eq(AsBool(arg), NewConstOf(0, BoolShape()))
}

// AsBool reduces an arbitrary value to a single unsigned bit which is true
// iff at least one bit of the value is set.  Values which are already of
// boolean shape are returned as is.
func AsBool(arg Value) Value {
	if arg.Shape() == BoolShape() {
		return arg
	}
	//
	return Any(arg)
}

// NewOperator constructs an operator of a given kind over the given
// operands.  Supplying the wrong number of operands for the kind is a
// programming error.
func NewOperator(kind OpKind, operands ...Value) *Operator {
	if len(operands) != kind.Arity() {
		panic(fmt.Sprintf("operator %s requires %d operands", kind, kind.Arity()))
	}
	//
	return &Operator{kind, operands}
}

// Arity returns the number of operands this operation requires.
func (p OpKind) Arity() int {
	switch p {
	case NEG, INV, ANY, ALL, PARITY:
		return 1
	case MUX:
		return 3
	default:
		return 2
	}
}

// Kind returns the operation performed by this operator.
func (p *Operator) Kind() OpKind {
	return p.kind
}

// Shape implementation for the Value interface.
func (p *Operator) Shape() Shape {
	switch p.kind {
	case ADD, SUB:
		return AddShape(p.operands[0].Shape(), p.operands[1].Shape())
	case MUL:
		return MulShape(p.operands[0].Shape(), p.operands[1].Shape())
	case EQ, NEQ, LT, LTEQ, GT, GTEQ, ANY, ALL, PARITY:
		return BoolShape()
	case AND, OR, XOR:
		return BitwiseShape(p.operands[0].Shape(), p.operands[1].Shape())
	case SHL:
		return shiftLeftShape(p.operands[0], p.operands[1])
	case SHR:
		lhs := p.operands[0].Shape()
		return Shape{lhs.Width, lhs.Signed}
	case NEG:
		arg := p.operands[0].Shape()
		return Shape{arg.Width + 1, true}
	case INV:
		return p.operands[0].Shape()
	case MUX:
		return CommonShape(p.operands[1].Shape(), p.operands[2].Shape())
	default:
		panic("unknown operator")
	}
}

// Children implementation for the Value interface.
func (p *Operator) Children() []Value {
	return p.operands
}

// Lisp implementation for the Value interface.
func (p *Operator) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(p.kind.String())
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

// String returns the concrete syntax of this operation.
func (p OpKind) String() string {
	switch p {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LT:
		return "<"
	case LTEQ:
		return "<="
	case GT:
		return ">"
	case GTEQ:
		return ">="
	case AND:
		return "&"
	case OR:
		return "|"
	case XOR:
		return "^"
	case SHL:
		return "<<"
	case SHR:
		return ">>"
	case NEG:
		return "neg"
	case INV:
		return "~"
	case ANY:
		return "any"
	case ALL:
		return "all"
	case PARITY:
		return "parity"
	case MUX:
		return "mux"
	default:
		panic(fmt.Sprintf("unknown operator (%d)", uint(p)))
	}
}

// shiftLeftShape determines the shape of a left shift.  When the shift
// amount is a known constant the result widens by exactly that amount;
// otherwise it widens by the largest amount the shift operand could express.
func shiftLeftShape(lhs Value, rhs Value) Shape {
	var (
		ls    = lhs.Shape()
		rs    = rhs.Shape()
		width = ls.Width
	)
	//
	if c, ok := rhs.(*Const); ok && c.Value().Sign() >= 0 && c.Value().IsUint64() {
		width += uint(c.Value().Uint64())
	} else {
		width += (uint(1) << rs.Width) - 1
	}
	//
	return Shape{width, ls.Signed}
}
