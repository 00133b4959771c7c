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
	"fmt"
	"slices"

	"github.com/consensys/go-chisel/pkg/hdl"
)

// BitRange identifies the half-open range of target bits [Start, End) a
// driver applies to.
type BitRange struct {
	Start uint
	End   uint
}

// String returns a concise rendering of this range.
func (p BitRange) String() string {
	return fmt.Sprintf("[%d:%d]", p.Start, p.End)
}

// Driver is the finalised binding of a range of target bits to a fully
// shape-resolved source expression within a given domain.  Drivers exist
// only as the output of elaboration; they are never author-visible during
// construction.
type Driver struct {
	// Domain this driver belongs to.
	Domain hdl.Domain
	// Target signal being driven.
	Target *hdl.Signal
	// Range of target bits being driven.
	Range BitRange
	// Source expression, every node of which carries its final shape.
	Source hdl.Value
}

// String returns a concise rendering of this driver.
func (p Driver) String() string {
	return fmt.Sprintf("%s%s <= %s", p.Target.Name(), p.Range, p.Source.Lisp())
}

// Graph is a complete, validated driver graph: the sole output of a
// successful elaboration.  Every target bit is driven by at most one
// driver, and every expression node reachable from any source carries its
// final shape, hence no further inference is required downstream.
type Graph struct {
	drivers []Driver
}

// NewGraph reconstructs a graph from a list of drivers, e.g. one decoded
// from a file.  The drivers are assumed to have been validated already.
func NewGraph(drivers []Driver) *Graph {
	return &Graph{drivers}
}

// Drivers returns every driver of this graph.
func (p *Graph) Drivers() []Driver {
	return p.drivers
}

// DriversOf returns the drivers of this graph within a given domain.
func (p *Graph) DriversOf(domain hdl.Domain) []Driver {
	var drivers []Driver
	//
	for _, driver := range p.drivers {
		if driver.Domain == domain {
			drivers = append(drivers, driver)
		}
	}
	//
	return drivers
}

// Domains returns the (sorted) set of domains driven by this graph.
func (p *Graph) Domains() []hdl.Domain {
	var domains []hdl.Domain
	//
	for _, driver := range p.drivers {
		if !slices.Contains(domains, driver.Domain) {
			domains = append(domains, driver.Domain)
		}
	}
	//
	slices.Sort(domains)
	//
	return domains
}
