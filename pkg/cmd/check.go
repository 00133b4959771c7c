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
package cmd

import (
	"fmt"
	"os"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-chisel/pkg/binfile"
	"github.com/consensys/go-chisel/pkg/elab"
	"github.com/consensys/go-chisel/pkg/hdl"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] graph_file",
	Short: "Check a driver graph file",
	Long: `Decode a driver graph file, cross-checking every recorded shape against its
	recomputed value, and check no target bit is driven twice.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Decoding recomputes and cross-checks every node shape.
		graph, err := binfile.Decode(bytes)
		if err != nil {
			fmt.Printf("malformed driver graph: %s\n", err)
			os.Exit(1)
		}
		// Check driven bits are disjoint across drivers.
		driven := make(map[*hdl.Signal]*bitset.BitSet)
		//
		for _, driver := range graph.Drivers() {
			mask, ok := driven[driver.Target]
			//
			if !ok {
				mask = bitset.New(driver.Target.Shape().Width)
				driven[driver.Target] = mask
			}
			//
			for i := driver.Range.Start; i < driver.Range.End; i++ {
				if mask.Test(i) {
					fmt.Printf("bit %d of %s driven twice\n", i, driver.Target.Name())
					os.Exit(1)
				}
				//
				mask.Set(i)
			}
		}
		//
		log.Debugf("checked %d nodes", countNodes(graph.Drivers()))
		fmt.Printf("ok: %d drivers across %d domains\n",
			len(graph.Drivers()), len(graph.Domains()))
	},
}

func countNodes(drivers []elab.Driver) int {
	seen := make(map[hdl.Value]bool)
	//
	for _, driver := range drivers {
		hdl.Walk(driver.Source, func(node hdl.Value) { seen[node] = true })
	}
	//
	return len(seen)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
