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
	"math/big"

	"github.com/consensys/go-chisel/pkg/elab"
	"github.com/consensys/go-chisel/pkg/hdl"
)

// Decode reconstructs a driver graph from its JSON serialisation.  Beyond
// structural checks, every node's recorded shape is cross-checked against
// the shape recomputed from its children, so a decoded graph is known to be
// consistently shaped.
func Decode(data []byte) (*elab.Graph, error) {
	var binf BinaryFile
	//
	if err := json.Unmarshal(data, &binf); err != nil {
		return nil, err
	}
	//
	if binf.Header.Ident != IDENT {
		return nil, fmt.Errorf("not a driver graph file")
	} else if binf.Header.Major != BINFILE_MAJOR_VERSION {
		return nil, fmt.Errorf("unsupported version %d.%d", binf.Header.Major, binf.Header.Minor)
	}
	//
	values := make([]hdl.Value, len(binf.Nodes))
	//
	for i, node := range binf.Nodes {
		value, err := decodeNode(node, values[:i])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		// Cross-check recorded shape against recomputed shape.
		if shape := value.Shape(); shape.Width != node.Width || shape.Signed != node.Signed {
			return nil, fmt.Errorf("node %d: recorded shape %s, computed %s",
				i, hdl.Shape{Width: node.Width, Signed: node.Signed}, shape)
		}
		//
		values[i] = value
	}
	//
	drivers := make([]elab.Driver, len(binf.Drivers))
	//
	for i, record := range binf.Drivers {
		driver, err := decodeDriver(record, values)
		if err != nil {
			return nil, fmt.Errorf("driver %d: %w", i, err)
		}
		//
		drivers[i] = driver
	}
	//
	return elab.NewGraph(drivers), nil
}

func decodeNode(node Node, prior []hdl.Value) (hdl.Value, error) {
	if node.Width == 0 {
		return nil, fmt.Errorf("zero-width node")
	}
	//
	args := make([]hdl.Value, len(node.Args))
	//
	for i, arg := range node.Args {
		// Nodes are stored bottom-up, hence forward references are
		// malformed.
		if arg >= uint(len(prior)) {
			return nil, fmt.Errorf("forward reference to node %d", arg)
		}
		//
		args[i] = prior[arg]
	}
	//
	switch node.Kind {
	case "const":
		val, ok := new(big.Int).SetString(node.Value, 10)
		if !ok {
			return nil, fmt.Errorf("malformed constant \"%s\"", node.Value)
		}
		//
		return hdl.NewBigConstOf(val, hdl.NewShape(node.Width, node.Signed)), nil
	case "signal":
		signal := hdl.NewSignal(hdl.Domain(node.Domain), node.Name,
			hdl.NewShape(node.Width, node.Signed))
		//
		if node.Reset != "" {
			reset, ok := new(big.Int).SetString(node.Reset, 10)
			if !ok {
				return nil, fmt.Errorf("malformed reset \"%s\"", node.Reset)
			}
			//
			signal.WithBigReset(reset)
		}
		//
		return signal, nil
	case "op":
		kind, ok := opKinds[node.Op]
		if !ok {
			return nil, fmt.Errorf("unknown operator \"%s\"", node.Op)
		} else if len(args) != kind.Arity() {
			return nil, fmt.Errorf("operator \"%s\" requires %d operands", node.Op, kind.Arity())
		}
		//
		return hdl.NewOperator(kind, args...), nil
	case "slice":
		if len(args) != 1 {
			return nil, fmt.Errorf("slice requires one operand")
		}
		//
		var slice *hdl.Slice
		//
		if node.Index {
			slice = hdl.Bit(args[0], node.Start)
		} else {
			slice = hdl.NewStridedSlice(args[0], node.Start, node.Stop, node.Stride)
		}
		// Reject degenerate bounds outright, rather than relying on the
		// shape cross-check to trip over them.
		if _, err := slice.Indices(); err != nil {
			return nil, fmt.Errorf("malformed slice: %s", err.Message)
		}
		//
		return slice, nil
	case "cat":
		return hdl.NewCat(args...), nil
	case "repl":
		if len(args) != 1 {
			return nil, fmt.Errorf("replication requires one operand")
		}
		//
		return hdl.NewRepl(args[0], node.Count), nil
	default:
		return nil, fmt.Errorf("unknown node kind \"%s\"", node.Kind)
	}
}

func decodeDriver(record DriverRecord, values []hdl.Value) (elab.Driver, error) {
	var driver elab.Driver
	//
	if record.Target >= uint(len(values)) || record.Source >= uint(len(values)) {
		return driver, fmt.Errorf("dangling node reference")
	}
	//
	target, ok := values[record.Target].(*hdl.Signal)
	//
	if !ok {
		return driver, fmt.Errorf("target is not a signal")
	} else if record.Start >= record.End || record.End > target.Shape().Width {
		return driver, fmt.Errorf("malformed bit range [%d:%d]", record.Start, record.End)
	}
	//
	width := values[record.Source].Shape().Width
	//
	if width != record.End-record.Start {
		return driver, fmt.Errorf("%d-bit source for %d-bit range",
			width, record.End-record.Start)
	}
	//
	return elab.Driver{
		Domain: hdl.Domain(record.Domain),
		Target: target,
		Range:  elab.BitRange{Start: record.Start, End: record.End},
		Source: values[record.Source],
	}, nil
}
