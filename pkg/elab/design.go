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

// Package elab lowers a hardware description (an expression graph plus
// statement lists) into a conflict-free driver graph.  Elaboration is a
// single-threaded, side-effect-free, one-shot transformation: either it
// produces a complete driver graph in which every expression node carries
// its final shape, or it fails with one or more fatal diagnostics and
// produces nothing.
package elab

import "github.com/consensys/go-chisel/pkg/hdl"

// Process is an independent list of statements driving signals.  Statements
// within one process are applied in order, with later assignments to the
// same bits superseding earlier ones.  Distinct processes must drive
// disjoint bits: the same (domain, target bit) driven by two processes is a
// fatal conflict, since neither takes priority over the other.
type Process struct {
	stmts []hdl.Stmt
}

// Add appends statements to this process, returning the process.
func (p *Process) Add(stmts ...hdl.Stmt) *Process {
	p.stmts = append(p.stmts, stmts...)
	return p
}

// Stmts returns the statements of this process in order.
func (p *Process) Stmts() []hdl.Stmt {
	return p.stmts
}

// Design is the root of a hardware description: the collection of processes
// to be elaborated together.  Which statements a design contains is entirely
// the host's concern (e.g. it may have constructed different statements for
// different target platforms); elaboration never branches on anything beyond
// the design itself.
type Design struct {
	processes []*Process
}

// NewDesign constructs an empty design.
func NewDesign() *Design {
	return &Design{}
}

// Process adds a fresh process to this design, populated with the given
// statements.
func (p *Design) Process(stmts ...hdl.Stmt) *Process {
	proc := &Process{stmts}
	p.processes = append(p.processes, proc)
	//
	return proc
}

// Processes returns the processes of this design in creation order.
func (p *Design) Processes() []*Process {
	return p.processes
}
