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

// Package hdl provides the expression and statement forms of an embedded
// hardware description.  Expressions form an immutable, cycle-free graph of
// values, each of which carries a compile-time shape (a bit width and a
// signedness) derived bottom-up by fixed promotion rules.  Statements
// describe conditional assignments over those values, and are turned into a
// conflict-free driver graph by the elab package.
package hdl

// Value represents a node in the expression graph.  Values are immutable
// once constructed and may be freely shared between expressions; cycles can
// never be constructed since every composite value references only values
// built before it.
type Value interface {
	// Shape returns the shape of this value, as determined bottom-up from
	// the shapes of its children.  This is total: for ill-formed values
	// (e.g. an array of mismatched elements) it returns a best-effort shape,
	// with the mismatch itself reported during elaboration.
	Shape() Shape
	// Children returns the immediate subexpressions of this value, which is
	// empty exactly for leaves (constants and signals).
	Children() []Value
	// Lisp returns a concise S-expression rendering of this value, intended
	// for diagnostics and debug output.
	Lisp() string
}

// Walk applies a given function to every node of the expression graph rooted
// at a given value, children before parents.  Shared nodes are visited once.
func Walk(root Value, fn func(Value)) {
	walk(root, fn, make(map[Value]bool))
}

func walk(node Value, fn func(Value), seen map[Value]bool) {
	if seen[node] {
		return
	}
	//
	seen[node] = true
	//
	for _, child := range node.Children() {
		walk(child, fn, seen)
	}
	//
	fn(node)
}
