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

	"github.com/consensys/go-zkvm/pkg/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/shape"
	"github.com/spf13/cobra"
)

// shapesCmd enumerates the allowed proof shapes of the core machine.  Since
// the full enumeration is a cross-product over all chips, listing is bounded
// by a limit; counting is always exact (and cheap, as it never enumerates).
var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Enumerate the allowed proof shapes of the core machine.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			config  = shape.DefaultConfig[bls12_377.Element]()
			list    = getFlag(cmd, "list")
			limit   = getUint(cmd, "limit")
			printed = uint(0)
		)
		//
		if list {
			for enumerator := config.AllowedShapes(); enumerator.HasNext() && printed < limit; printed++ {
				fmt.Println(enumerator.Next().String())
			}
		}
		//
		fmt.Printf("%d allowed shapes in total\n", config.NumShapes())
	},
}

func init() {
	rootCmd.AddCommand(shapesCmd)
	shapesCmd.Flags().Bool("list", false, "list individual shapes (bounded by --limit)")
	shapesCmd.Flags().Uint("limit", 32, "maximum number of shapes to list")
}
