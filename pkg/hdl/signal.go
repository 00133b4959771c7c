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

import "math/big"

// Domain identifies the driver namespace a signal belongs to.  The
// combinational domain is stateless; any other domain names a synchronous
// (clocked) domain, whose signals hold their value between updates.
type Domain string

// COMB is the combinational domain.
const COMB Domain = "comb"

// Synchronous checks whether this domain is clocked or not.
func (p Domain) Synchronous() bool {
	return p != COMB
}

// Signal represents a mutable value of fixed shape.  Its shape and domain
// are fixed at creation; its value can change only by way of a driver
// produced during elaboration.  Signal identity is pointer identity, hence
// two signals with the same name remain distinct targets.
type Signal struct {
	name   string
	shape  Shape
	domain Domain
	reset  *big.Int
}

// NewSignal constructs a signal of a given shape within a given domain.
func NewSignal(domain Domain, name string, shape Shape) *Signal {
	return &Signal{name, shape, domain, nil}
}

// NewBit constructs a single-bit unsigned signal, the default shape for
// signals declared without one.
func NewBit(domain Domain, name string) *Signal {
	return NewSignal(domain, name, BoolShape())
}

// WithReset sets the reset value for this signal, returning the signal for
// chaining during construction.  The reset value is metadata for backends
// (and the default a combinational signal falls back to when only partially
// driven); signals without one reset to zero.
func (p *Signal) WithReset(val int64) *Signal {
	p.reset = big.NewInt(val)
	return p
}

// WithBigReset sets the reset value for this signal, returning the signal
// for chaining during construction.
func (p *Signal) WithBigReset(val *big.Int) *Signal {
	p.reset = val
	return p
}

// Name returns the name of this signal.
func (p *Signal) Name() string {
	return p.name
}

// Domain returns the domain this signal is driven in.
func (p *Signal) Domain() Domain {
	return p.domain
}

// Reset returns the reset value of this signal, defaulting to zero.
func (p *Signal) Reset() *big.Int {
	if p.reset == nil {
		return big.NewInt(0)
	}
	//
	return p.reset
}

// Shape implementation for the Value interface.
func (p *Signal) Shape() Shape {
	return p.shape
}

// Children implementation for the Value interface.
func (p *Signal) Children() []Value {
	return nil
}

// Lisp implementation for the Value interface.
func (p *Signal) Lisp() string {
	return p.name
}
