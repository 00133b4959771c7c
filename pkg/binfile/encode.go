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
package binfile

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/go-chisel/pkg/elab"
	"github.com/consensys/go-chisel/pkg/hdl"
)

// Encode serialises a validated driver graph as JSON.
func Encode(graph *elab.Graph) ([]byte, error) {
	var (
		enc  = encoder{make(map[hdl.Value]uint), nil}
		binf BinaryFile
	)
	//
	binf.Header = Header{IDENT, BINFILE_MAJOR_VERSION, BINFILE_MINOR_VERSION}
	//
	for _, driver := range graph.Drivers() {
		target, err := enc.node(driver.Target)
		if err != nil {
			return nil, err
		}
		//
		source, err := enc.node(driver.Source)
		if err != nil {
			return nil, err
		}
		//
		binf.Drivers = append(binf.Drivers, DriverRecord{
			Domain: string(driver.Domain),
			Target: target,
			Start:  driver.Range.Start,
			End:    driver.Range.End,
			Source: source,
		})
	}
	//
	binf.Nodes = enc.nodes
	//
	return json.MarshalIndent(binf, "", " ")
}

// encoder flattens the expression graph into a node table.  Sharing is
// preserved: each distinct node is stored once, children before parents.
type encoder struct {
	ids   map[hdl.Value]uint
	nodes []Node
}

func (p *encoder) node(value hdl.Value) (uint, error) {
	if id, ok := p.ids[value]; ok {
		return id, nil
	}
	//
	var (
		shape = value.Shape()
		node  = Node{Width: shape.Width, Signed: shape.Signed}
	)
	//
	switch v := value.(type) {
	case *hdl.Const:
		node.Kind = "const"
		node.Value = v.Value().String()
	case *hdl.Signal:
		node.Kind = "signal"
		node.Name = v.Name()
		node.Domain = string(v.Domain())
		//
		if reset := v.Reset(); reset.Sign() != 0 {
			node.Reset = reset.String()
		}
	case *hdl.Operator:
		node.Kind = "op"
		node.Op = v.Kind().String()
	case *hdl.Slice:
		node.Kind = "slice"
		node.Start, node.Stop, node.Stride = v.Bounds()
		node.Index = v.IsIndex()
	case *hdl.Cat:
		node.Kind = "cat"
	case *hdl.Repl:
		node.Kind = "repl"
		node.Count = v.Count()
	default:
		// Array lookups and pattern tests never survive elaboration.
		return 0, fmt.Errorf("unlowered node %s", value.Lisp())
	}
	//
	for _, child := range value.Children() {
		id, err := p.node(child)
		if err != nil {
			return 0, err
		}
		//
		node.Args = append(node.Args, id)
	}
	//
	id := uint(len(p.nodes))
	p.nodes = append(p.nodes, node)
	p.ids[value] = id
	//
	return id, nil
}
