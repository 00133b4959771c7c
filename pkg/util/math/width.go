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
package math

import "math/big"

// UnsignedBitWidth returns the minimal number of bits required to represent a
// given non-negative value as an unsigned integer.  Observe that zero still
// requires one bit.
func UnsignedBitWidth(val *big.Int) uint {
	if val.Sign() < 0 {
		panic("negative value has no unsigned width")
	}
	//
	return max(1, uint(val.BitLen()))
}

// SignedBitWidth returns the minimal number of bits required to represent a
// given value in 2's complement.  For example, 7 requires four bits (0111)
// whilst -8 requires only four (1000).
func SignedBitWidth(val *big.Int) uint {
	if val.Sign() >= 0 {
		return uint(val.BitLen()) + 1
	}
	// For a negative value v, the minimal width is determined by ^v (i.e.
	// -v-1) since 2's complement ranges are asymmetric.
	var not big.Int
	//
	not.Not(val)
	//
	return uint(not.BitLen()) + 1
}

// TwoPow returns 2^k as an arbitrary precision integer.
func TwoPow(k uint) *big.Int {
	var val big.Int
	//
	return val.Lsh(big.NewInt(1), k)
}
