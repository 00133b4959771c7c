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

// EvalConst evaluates a value whose leaves are all constants, yielding its
// (signed) integer result.  Values which depend on a signal, or which are
// ill-formed, are not constant and yield false.
func EvalConst(val Value) (*big.Int, bool) {
	switch v := val.(type) {
	case *Const:
		return new(big.Int).Set(v.Value()), true
	case *Signal:
		return nil, false
	case *Operator:
		return evalOperator(v)
	case *Slice:
		return evalSlice(v)
	case *Cat:
		return evalCat(v.Children())
	case *Repl:
		operands := make([]Value, v.Count())
		for i := range operands {
			operands[i] = v.Operand()
		}
		//
		return evalCat(operands)
	case *ArrayRef:
		return evalArrayRef(v)
	case *Matches:
		return evalMatches(v)
	default:
		panic("unknown value")
	}
}

func evalOperator(op *Operator) (*big.Int, bool) {
	args := make([]*big.Int, len(op.Children()))
	//
	for i, child := range op.Children() {
		arg, ok := EvalConst(child)
		if !ok {
			return nil, false
		}
		//
		args[i] = arg
	}
	//
	var res = new(big.Int)
	//
	switch op.Kind() {
	case ADD:
		res.Add(args[0], args[1])
	case SUB:
		res.Sub(args[0], args[1])
	case MUL:
		res.Mul(args[0], args[1])
	case EQ:
		return evalBool(args[0].Cmp(args[1]) == 0), true
	case NEQ:
		return evalBool(args[0].Cmp(args[1]) != 0), true
	case LT:
		return evalBool(args[0].Cmp(args[1]) < 0), true
	case LTEQ:
		return evalBool(args[0].Cmp(args[1]) <= 0), true
	case GT:
		return evalBool(args[0].Cmp(args[1]) > 0), true
	case GTEQ:
		return evalBool(args[0].Cmp(args[1]) >= 0), true
	case AND, OR, XOR:
		return evalBitwise(op, args[0], args[1])
	case SHL:
		if args[1].Sign() < 0 || !args[1].IsUint64() {
			return nil, false
		}
		//
		res.Lsh(args[0], uint(args[1].Uint64()))
	case SHR:
		if args[1].Sign() < 0 || !args[1].IsUint64() {
			return nil, false
		}
		// NOTE: big.Int.Rsh floors, hence shifts in the sign bit.
		res.Rsh(args[0], uint(args[1].Uint64()))
	case NEG:
		res.Neg(args[0])
	case INV:
		shape := op.Children()[0].Shape()
		bits := toBits(args[0], shape.Width)
		bits.Xor(bits, mask(shape.Width))
		//
		return fromBits(bits, shape), true
	case ANY:
		return evalBool(args[0].Sign() != 0), true
	case ALL:
		width := op.Children()[0].Shape().Width
		bits := toBits(args[0], width)
		//
		return evalBool(bits.Cmp(mask(width)) == 0), true
	case PARITY:
		width := op.Children()[0].Shape().Width
		bits := toBits(args[0], width)
		parity := uint(0)
		//
		for i := 0; i < int(width); i++ {
			parity ^= bits.Bit(i)
		}
		//
		return evalBool(parity == 1), true
	case MUX:
		if args[0].Sign() != 0 {
			return args[1], true
		}
		//
		return args[2], true
	default:
		panic("unknown operator")
	}
	//
	return res, true
}

func evalBitwise(op *Operator, lhs *big.Int, rhs *big.Int) (*big.Int, bool) {
	var (
		shape = op.Shape()
		// Each operand extends to the common width according to its own
		// signedness, which toBits gives us for free.
		lbits = toBits(lhs, shape.Width)
		rbits = toBits(rhs, shape.Width)
		bits  = new(big.Int)
	)
	//
	switch op.Kind() {
	case AND:
		bits.And(lbits, rbits)
	case OR:
		bits.Or(lbits, rbits)
	case XOR:
		bits.Xor(lbits, rbits)
	default:
		panic("unreachable")
	}
	//
	return fromBits(bits, shape), true
}

func evalSlice(slice *Slice) (*big.Int, bool) {
	arg, ok := EvalConst(slice.Operand())
	if !ok {
		return nil, false
	}
	//
	indices, err := slice.Indices()
	if err != nil {
		return nil, false
	}
	//
	var (
		bits = toBits(arg, slice.Operand().Shape().Width)
		res  = new(big.Int)
	)
	//
	for i, index := range indices {
		res.SetBit(res, i, bits.Bit(int(index)))
	}
	//
	return res, true
}

func evalCat(operands []Value) (*big.Int, bool) {
	var (
		res    = new(big.Int)
		offset uint
	)
	// First operand occupies the least-significant group.
	for _, operand := range operands {
		arg, ok := EvalConst(operand)
		if !ok {
			return nil, false
		}
		//
		width := operand.Shape().Width
		bits := toBits(arg, width)
		res.Or(res, bits.Lsh(bits, offset))
		offset += width
	}
	//
	return res, true
}

func evalArrayRef(ref *ArrayRef) (*big.Int, bool) {
	index, ok := EvalConst(ref.Index())
	if !ok || index.Sign() < 0 || index.Cmp(big.NewInt(int64(len(ref.Elements())))) >= 0 {
		return nil, false
	}
	//
	return EvalConst(ref.Elements()[index.Int64()])
}

func evalMatches(m *Matches) (*big.Int, bool) {
	var (
		width = m.Operand().Shape().Width
	)
	//
	arg, ok := EvalConst(m.Operand())
	if !ok {
		return nil, false
	}
	//
	bits := toBits(arg, width)
	//
	for _, text := range m.Patterns() {
		pattern, err := ParsePattern(text)
		// Ill-formed patterns are caught during elaboration.
		if err != nil || pattern.Width() != width {
			return nil, false
		}
		//
		if pattern.MatchesBits(bits) {
			return evalBool(true), true
		}
	}
	//
	return evalBool(false), true
}

func evalBool(flag bool) *big.Int {
	if flag {
		return big.NewInt(1)
	}
	//
	return big.NewInt(0)
}

// toBits converts a (signed) value into its 2's complement bit pattern at a
// given width, which is always non-negative.
func toBits(val *big.Int, width uint) *big.Int {
	return new(big.Int).Mod(val, math.TwoPow(width))
}

// fromBits reinterprets a bit pattern according to a given shape.
func fromBits(bits *big.Int, shape Shape) *big.Int {
	res := new(big.Int).Set(bits)
	//
	if shape.Signed && res.Cmp(math.TwoPow(shape.Width-1)) >= 0 {
		res.Sub(res, math.TwoPow(shape.Width))
	}
	//
	return res
}

func mask(width uint) *big.Int {
	return new(big.Int).Sub(math.TwoPow(width), big.NewInt(1))
}
