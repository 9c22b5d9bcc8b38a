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
	"math/rand"
	"os"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/machine"
	"github.com/consensys/go-zkvm/pkg/shape"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/spf13/cobra"
)

// checkCmd generates traces for a synthetic record and evaluates every chip's
// constraints against them directly.  This exercises the whole pipeline
// (shape fixing, trace generation, padding, constraint evaluation) without a
// proving backend.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Generate and check traces for a synthetic execution record.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			record = syntheticRecord(getUint(cmd, "events"), getUint(cmd, "seed"))
			config = shape.DefaultConfig[bls12_377.Element]()
			mach   = machine.Core[bls12_377.Element]()
			failed = false
		)
		// Freeze chip heights before any trace generation.
		if err := config.FixPreprocessedShape(record.Program); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if err := config.FixShape(record); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		for _, chip := range mach.Chips() {
			if !checkChip(chip, record) {
				failed = true
			}
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

// checkChip generates and checks the trace of a single chip, reporting its
// dimensions and any constraint violations.
func checkChip(chip air.Chip[bls12_377.Element], record *executor.Record) bool {
	var preprocessed trace.RowMajorTrace[bls12_377.Element]
	//
	main, err := chip.GenerateTrace(record)
	if err != nil {
		fmt.Printf("%s: %s\n", chip.Name(), err)
		return false
	}
	//
	if p, ok := chip.(air.PreprocessedChip[bls12_377.Element]); ok {
		if preprocessed, err = p.GeneratePreprocessedTrace(record.Program); err != nil {
			fmt.Printf("%s: %s\n", chip.Name(), err)
			return false
		}
	}
	//
	errs := air.CheckTrace(chip, main, preprocessed)
	//
	for _, err := range errs {
		fmt.Println(err)
	}
	//
	fmt.Printf("%s: %d x %d, %d constraint failures\n", chip.Name(), main.Height(), main.Width(), len(errs))
	//
	return len(errs) == 0
}

// syntheticRecord constructs a record with pseudo-random (but well-formed)
// events for every core chip.
func syntheticRecord(nevents uint, seed uint) *executor.Record {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(int64(seed)))
	//
	program := executor.NewProgram([]executor.Instruction{
		{PC: 0, Opcode: executor.OpAdd, B: 1, C: 2},
		{PC: 4, Opcode: executor.OpLt, B: 3, C: 4},
	})
	//
	record := executor.NewRecord(program)
	//
	for i := uint(0); i < nevents; i++ {
		var (
			b = rnd.Uint32() % (1 << 30)
			c = b + rnd.Uint32()%(1<<20) // keep |b - c| within the range parameter
		)
		//
		record.FieldLtEvents = append(record.FieldLtEvents, executor.FieldLtEvent{B: b, C: c, Lt: b < c})
		record.AddEvents = append(record.AddEvents, executor.AluEvent{Opcode: executor.OpAdd, A: b + c, B: b, C: c})
		record.InstructionCounts[i%2]++
	}
	//
	return record
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Uint("events", 64, "number of events to generate per chip")
	checkCmd.Flags().Uint("seed", 0, "seed for event generation")
}
