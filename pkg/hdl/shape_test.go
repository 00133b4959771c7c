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
	"testing"
)

// ===================================================================
// Constant shapes
// ===================================================================

func Test_Shape_Const_01(t *testing.T) {
	checkShape(t, NewConst(0), "u1")
}

func Test_Shape_Const_02(t *testing.T) {
	checkShape(t, NewConst(1), "u1")
}

func Test_Shape_Const_03(t *testing.T) {
	checkShape(t, NewConst(10), "u4")
}

func Test_Shape_Const_04(t *testing.T) {
	checkShape(t, NewConst(-10), "s5")
}

func Test_Shape_Const_05(t *testing.T) {
	checkShape(t, NewConst(-1), "s1")
}

func Test_Shape_Const_06(t *testing.T) {
	checkShape(t, NewConstInRange(2, 0, 5), "u3")
}

func Test_Shape_Const_07(t *testing.T) {
	checkShape(t, NewConstInRange(3, -5, 11), "s5")
}

func Test_Shape_Const_08(t *testing.T) {
	// Values wrap into an explicitly requested shape.
	c := NewConstOf(255, SignedShape(8))
	//
	checkShape(t, c, "s8")
	//
	if c.Value().Int64() != -1 {
		t.Errorf("expected -1, got %s", c.Value())
	}
}

func Test_Shape_Enum_01(t *testing.T) {
	shape, err := EnumShape([]any{0, 1, 2, 3})
	//
	if err != nil {
		t.Fatal(err)
	} else if shape.String() != "u2" {
		t.Errorf("expected u2, got %s", shape)
	}
}

func Test_Shape_Enum_02(t *testing.T) {
	shape, err := EnumShape([]any{-3, 5})
	//
	if err != nil {
		t.Fatal(err)
	} else if shape.String() != "s4" {
		t.Errorf("expected s4, got %s", shape)
	}
}

func Test_Shape_Enum_03(t *testing.T) {
	_, err := EnumShape([]any{0, "one", 2})
	//
	if err == nil || err.Code != UNREPRESENTABLE_ENUM {
		t.Errorf("expected unrepresentable enum, got %v", err)
	}
}

// ===================================================================
// Signal shapes
// ===================================================================

func Test_Shape_Signal_01(t *testing.T) {
	// Default shape is a single unsigned bit.
	checkShape(t, NewBit(COMB, "x"), "u1")
}

func Test_Shape_Signal_02(t *testing.T) {
	checkShape(t, NewSignal(COMB, "x", SignedShape(12)), "s12")
}

// ===================================================================
// Promotion rules
// ===================================================================

func Test_Shape_Add_01(t *testing.T) {
	// u8 + u8 ==> u9
	checkShape(t, Add(unsigned(8), unsigned(8)), "u9")
}

func Test_Shape_Add_02(t *testing.T) {
	// s8 + s8 ==> s9
	checkShape(t, Add(signed(8), signed(8)), "s9")
}

func Test_Shape_Add_03(t *testing.T) {
	// u16 + s5 ==> s18
	checkShape(t, Add(unsigned(16), signed(5)), "s18")
}

func Test_Shape_Add_04(t *testing.T) {
	// s5 + u16 ==> s18
	checkShape(t, Add(signed(5), unsigned(16)), "s18")
}

func Test_Shape_Sub_01(t *testing.T) {
	// u4 - u2 ==> u5
	checkShape(t, Sub(unsigned(4), unsigned(2)), "u5")
}

func Test_Shape_Mul_01(t *testing.T) {
	// u4 * s3 ==> s7
	checkShape(t, Mul(unsigned(4), signed(3)), "s7")
}

func Test_Shape_Cmp_01(t *testing.T) {
	// comparisons are always a single unsigned bit
	checkShape(t, Eq(unsigned(16), signed(5)), "u1")
	checkShape(t, Lt(signed(3), signed(3)), "u1")
}

func Test_Shape_Bitwise_01(t *testing.T) {
	// u8 & u4 ==> u8
	checkShape(t, BitAnd(unsigned(8), unsigned(4)), "u8")
}

func Test_Shape_Bitwise_02(t *testing.T) {
	// mixed signedness is permitted, result signed only if both are
	checkShape(t, BitOr(unsigned(8), signed(4)), "u8")
	checkShape(t, BitXor(signed(8), signed(4)), "s8")
}

func Test_Shape_Shift_01(t *testing.T) {
	// u8 << 2 ==> u10
	checkShape(t, Shl(unsigned(8), NewConst(2)), "u10")
}

func Test_Shape_Shift_02(t *testing.T) {
	// u8 << u2 ==> u11 (widened by the largest expressible amount)
	checkShape(t, Shl(unsigned(8), unsigned(2)), "u11")
}

func Test_Shape_Shift_03(t *testing.T) {
	// s8 >> u2 ==> s8
	checkShape(t, Shr(signed(8), unsigned(2)), "s8")
}

func Test_Shape_Neg_01(t *testing.T) {
	checkShape(t, Neg(unsigned(8)), "s9")
}

func Test_Shape_Inv_01(t *testing.T) {
	checkShape(t, Inv(signed(8)), "s8")
}

func Test_Shape_Reduce_01(t *testing.T) {
	checkShape(t, Any(unsigned(8)), "u1")
	checkShape(t, All(unsigned(8)), "u1")
	checkShape(t, Parity(unsigned(8)), "u1")
}

func Test_Shape_Mux_01(t *testing.T) {
	// mux over u16 / s5 ==> s17
	checkShape(t, Mux(unsigned(1), unsigned(16), signed(5)), "s17")
}

// ===================================================================
// Composite shapes
// ===================================================================

func Test_Shape_Slice_01(t *testing.T) {
	// slices are always unsigned
	checkShape(t, NewSlice(signed(8), 0, 4), "u4")
}

func Test_Shape_Slice_02(t *testing.T) {
	// negative indices count from the most-significant end
	checkShape(t, NewSlice(unsigned(8), -4, 8), "u4")
	checkShape(t, Bit(unsigned(8), -1), "u1")
}

func Test_Shape_Slice_03(t *testing.T) {
	// every second bit
	checkShape(t, NewStridedSlice(unsigned(8), 0, 8, 2), "u4")
}

func Test_Shape_Cat_01(t *testing.T) {
	checkShape(t, NewCat(unsigned(8), signed(4)), "u12")
}

func Test_Shape_Repl_01(t *testing.T) {
	checkShape(t, NewRepl(unsigned(3), 3), "u9")
}

func Test_Shape_ArrayRef_01(t *testing.T) {
	checkShape(t, NewArrayRef(unsigned(2), unsigned(8), unsigned(8)), "u8")
}

func Test_Shape_Bounds_01(t *testing.T) {
	lo, hi := SignedShape(5).Bounds()
	//
	if lo.Int64() != -16 || hi.Int64() != 15 {
		t.Errorf("expected [-16,15], got [%s,%s]", lo, hi)
	}
}

func Test_Shape_Bounds_02(t *testing.T) {
	lo, hi := UnsignedShape(5).Bounds()
	//
	if lo.Int64() != 0 || hi.Int64() != 31 {
		t.Errorf("expected [0,31], got [%s,%s]", lo, hi)
	}
}

// ===================================================================
// Helpers
// ===================================================================

func checkShape(t *testing.T, val Value, expected string) {
	t.Helper()
	//
	if shape := val.Shape(); shape.String() != expected {
		t.Errorf("shape of %s was %s, expected %s", val.Lisp(), shape, expected)
	}
}

// unsigned constructs an anonymous unsigned signal of a given width.
func unsigned(width uint) *Signal {
	return NewSignal(COMB, "u", UnsignedShape(width))
}

// signed constructs an anonymous signed signal of a given width.
func signed(width uint) *Signal {
	return NewSignal(COMB, "s", SignedShape(width))
}
