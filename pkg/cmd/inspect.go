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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] graph_file",
	Short: "Inspect a driver graph file",
	Long:  `Pretty-print the drivers of a driver graph file, grouped by domain.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		graph := ReadGraphFile(args[0])
		width := displayWidth()
		//
		for _, domain := range graph.Domains() {
			drivers := graph.DriversOf(domain)
			//
			fmt.Printf("domain %s (%d drivers):\n", domain, len(drivers))
			//
			for _, driver := range drivers {
				line := fmt.Sprintf("  %s %s", driver.Source.Shape(), driver.String())
				// Fit within the terminal where we have one.
				if width > 0 && len(line) > width {
					line = line[:width-3] + "..."
				}
				//
				fmt.Println(line)
			}
		}
	},
}

// displayWidth determines the width available for output, or zero when not
// writing to a terminal at all.
func displayWidth() int {
	if !term.IsTerminal(0) {
		return 0
	}
	//
	width, _, err := term.GetSize(0)
	if err != nil {
		return 0
	}
	//
	return width
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
