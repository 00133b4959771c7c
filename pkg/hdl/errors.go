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

// ErrorCode distinguishes the various kinds of fatal diagnostic which can
// arise during elaboration.
type ErrorCode uint

const (
	// SHAPE_MISMATCH indicates operand widths or signedness were
	// incompatible under the rules of the operator in question.
	SHAPE_MISMATCH ErrorCode = iota
	// INVALID_PATTERN indicates a case pattern whose length differs from the
	// width of the matched expression, or which contains characters outside
	// the alphabet {0,1,-}.
	INVALID_PATTERN
	// INDEX_OUT_OF_RANGE indicates a constant array index or constant slice
	// bound lying outside its valid domain.
	INDEX_OUT_OF_RANGE
	// DUPLICATE_DRIVER indicates the same (domain, target bit) was driven
	// unconditionally more than once outside a priority chain.
	DUPLICATE_DRIVER
	// UNREPRESENTABLE_ENUM indicates an enumeration used for shape
	// derivation whose members are not all integers.
	UNREPRESENTABLE_ENUM
)

// String returns a human-readable name for this error code.
func (p ErrorCode) String() string {
	switch p {
	case SHAPE_MISMATCH:
		return "shape mismatch"
	case INVALID_PATTERN:
		return "invalid pattern"
	case INDEX_OUT_OF_RANGE:
		return "index out-of-range"
	case DUPLICATE_DRIVER:
		return "duplicate driver"
	case UNREPRESENTABLE_ENUM:
		return "unrepresentable enum"
	default:
		panic("unknown error code")
	}
}

// Error represents a fatal diagnostic arising during elaboration.  Every
// error identifies the offending node (or statement), and elaboration
// produces no output whatsoever once one has been raised.
type Error struct {
	// Code identifying the kind of this error.
	Code ErrorCode
	// Node (or statement) responsible for this error, which may be nil for
	// errors arising before any node exists (e.g. enum shape derivation).
	Node any
	// Message describing the problem.
	Message string
}

// NewError constructs a new error of a given kind against a given node.
func NewError(code ErrorCode, node any, format string, args ...any) *Error {
	return &Error{code, node, fmt.Sprintf(format, args...)}
}

// Error implementation for the error interface.
func (p *Error) Error() string {
	return fmt.Sprintf("%s: %s", p.Code.String(), p.Message)
}
