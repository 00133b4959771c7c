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
package elab

import (
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-chisel/pkg/hdl"
)

// State identifies the phase an elaborator is in.  States advance strictly
// forwards; none is ever re-entered.
type State uint

const (
	// BUILDING is the initial state, during which the host constructs the
	// design.  No validation happens here.
	BUILDING State = iota
	// INFERRING is the bottom-up shape pass over every expression.
	INFERRING
	// RESOLVING merges per-branch assignments into drivers, per domain.
	RESOLVING
	// VALIDATED is the terminal success state.
	VALIDATED
	// FAILED is the terminal failure state.  There is no partial output:
	// a failed elaboration produces diagnostics and nothing else.
	FAILED
)

// String returns the name of this state.
func (p State) String() string {
	switch p {
	case BUILDING:
		return "building"
	case INFERRING:
		return "inferring"
	case RESOLVING:
		return "resolving"
	case VALIDATED:
		return "validated"
	case FAILED:
		return "failed"
	default:
		panic("unknown state")
	}
}

// Elaborator drives the one-shot transformation of a design into a driver
// graph.  Elaboration is deterministic and free of side effects; since a
// design is immutable once built, the same design may be elaborated any
// number of times by distinct elaborators (though a single elaborator runs
// exactly once).
type Elaborator struct {
	design *Design
	state  State
	graph  *Graph
	errs   []*hdl.Error
}

// NewElaborator constructs an elaborator for a given design.
func NewElaborator(design *Design) *Elaborator {
	return &Elaborator{design, BUILDING, nil, nil}
}

// State returns the current state of this elaborator.
func (p *Elaborator) State() State {
	return p.state
}

// Errors returns the diagnostics raised so far.
func (p *Elaborator) Errors() []*hdl.Error {
	return p.errs
}

// Elaborate runs the full transformation, yielding either a complete driver
// graph or the (non-empty) diagnostics explaining why none could be
// produced.  Calling this more than once on the same elaborator is a
// programming error.
func (p *Elaborator) Elaborate() (*Graph, []*hdl.Error) {
	if p.state != BUILDING {
		panic("elaboration already run")
	}
	// Shape pass.
	p.state = INFERRING
	log.Debugf("inferring shapes across %d processes", len(p.design.Processes()))
	//
	if p.errs = inferDesign(p.design); len(p.errs) > 0 {
		p.state = FAILED
		return nil, p.errs
	}
	// Driver resolution.
	p.state = RESOLVING
	//
	graph, errs := newResolver().resolveDesign(p.design)
	//
	if len(errs) > 0 {
		p.state, p.errs = FAILED, errs
		return nil, errs
	}
	//
	p.state, p.graph = VALIDATED, graph
	log.Debugf("resolved %d drivers across %d domains",
		len(graph.Drivers()), len(graph.Domains()))
	//
	return graph, nil
}

// Elaborate is a convenience for constructing an elaborator and running it.
func Elaborate(design *Design) (*Graph, []*hdl.Error) {
	return NewElaborator(design).Elaborate()
}
