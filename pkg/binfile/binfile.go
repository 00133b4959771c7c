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

// Package binfile provides a versioned file representation of a validated
// driver graph, so that backend collaborators (netlist generators,
// simulators) can consume elaboration output without linking against the
// elaborator itself.  The expression graph is flattened into a node table
// in bottom-up order, preserving shared subexpressions, with every node
// carrying its final shape.
package binfile

import "github.com/consensys/go-chisel/pkg/hdl"

// IDENT identifies a driver graph file.
const IDENT = "chisel"

// BINFILE_MAJOR_VERSION is incremented for incompatible format changes.
const BINFILE_MAJOR_VERSION uint = 1

// BINFILE_MINOR_VERSION is incremented for backwards-compatible additions.
const BINFILE_MINOR_VERSION uint = 0

// Header identifies the format and version of a driver graph file.
type Header struct {
	Ident string `json:"ident"`
	Major uint   `json:"major"`
	Minor uint   `json:"minor"`
}

// BinaryFile is the programmatic representation of a driver graph file.
type BinaryFile struct {
	// Header for this file.
	Header Header `json:"header"`
	// Nodes of the expression graph, in bottom-up order: every node
	// references only nodes stored before it.
	Nodes []Node `json:"nodes"`
	// Drivers making up the graph itself.
	Drivers []DriverRecord `json:"drivers"`
}

// Node is one flattened expression node.  Exactly which fields apply
// depends on the kind: constants carry a value, signals a name/domain/reset,
// composites the indices of their argument nodes.  Every node records its
// shape, allowing a reader to cross-check it against the recomputed one.
type Node struct {
	// Kind of this node: "const", "signal", "op", "slice", "cat" or "repl".
	Kind string `json:"kind"`
	// Width of this node's shape.
	Width uint `json:"width"`
	// Signed flag of this node's shape.
	Signed bool `json:"signed,omitempty"`
	// Value (decimal) for constant nodes.
	Value string `json:"value,omitempty"`
	// Name for signal nodes.
	Name string `json:"name,omitempty"`
	// Domain for signal nodes.
	Domain string `json:"domain,omitempty"`
	// Reset value (decimal) for signal nodes, where one was given.
	Reset string `json:"reset,omitempty"`
	// Op symbol for operator nodes.
	Op string `json:"op,omitempty"`
	// Args are the node indices of this node's children.
	Args []uint `json:"args,omitempty"`
	// Start bound for slice nodes.
	Start int `json:"start,omitempty"`
	// Stop bound for slice nodes.
	Stop int `json:"stop,omitempty"`
	// Stride for slice nodes.
	Stride int `json:"stride,omitempty"`
	// Index marks single-bit slice nodes.
	Index bool `json:"index,omitempty"`
	// Count for replication nodes.
	Count uint `json:"count,omitempty"`
}

// DriverRecord is one flattened driver.
type DriverRecord struct {
	// Domain this driver belongs to.
	Domain string `json:"domain"`
	// Target is the node index of the driven signal.
	Target uint `json:"target"`
	// Start of the driven bit range.
	Start uint `json:"start"`
	// End (exclusive) of the driven bit range.
	End uint `json:"end"`
	// Source is the node index of the driving expression.
	Source uint `json:"source"`
}

// opKinds maps operator symbols back to their kinds, for decoding.
var opKinds = map[string]hdl.OpKind{}

func init() {
	kinds := []hdl.OpKind{
		hdl.ADD, hdl.SUB, hdl.MUL,
		hdl.EQ, hdl.NEQ, hdl.LT, hdl.LTEQ, hdl.GT, hdl.GTEQ,
		hdl.AND, hdl.OR, hdl.XOR, hdl.SHL, hdl.SHR,
		hdl.NEG, hdl.INV, hdl.ANY, hdl.ALL, hdl.PARITY, hdl.MUX,
	}
	//
	for _, kind := range kinds {
		opKinds[kind.String()] = kind
	}
}
