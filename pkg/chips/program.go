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
package chips

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field"
	"github.com/consensys/go-zkvm/pkg/trace"
)

// Column offsets within one preprocessed program row.
const (
	programPC     = 0
	programOpcode = 1
	programB      = 2
	programC      = 3
	// Total number of preprocessed columns.
	numProgramPreprocessedCols = 4
)

// ProgramChip commits to the static program.  Its preprocessed trace is the
// instruction table, derived from the program alone (hence its height is part
// of the preprocessed shape); its main trace is a single multiplicity column
// counting how often each instruction was executed.  Each instruction is
// offered on the program bus weighted by that multiplicity.
type ProgramChip[F field.Element[F]] struct{}

// Name implementation for the Chip interface.
func (p ProgramChip[F]) Name() string {
	return "Program"
}

// Width implementation for the Chip interface.
func (p ProgramChip[F]) Width() uint {
	return 1
}

// NaturalHeight implementation for the Chip interface.
func (p ProgramChip[F]) NaturalHeight(record *executor.Record) uint {
	return uint(len(record.Program.Instructions))
}

// PreprocessedWidth implementation for the PreprocessedChip interface.
func (p ProgramChip[F]) PreprocessedWidth() uint {
	return numProgramPreprocessedCols
}

// PreprocessedHeight implementation for the PreprocessedChip interface.
func (p ProgramChip[F]) PreprocessedHeight(program *executor.Program) uint {
	return uint(len(program.Instructions))
}

// GeneratePreprocessedTrace implementation for the PreprocessedChip
// interface.
func (p ProgramChip[F]) GeneratePreprocessedTrace(program *executor.Program) (trace.RowMajorTrace[F], error) {
	data := make([]F, len(program.Instructions)*numProgramPreprocessedCols)
	//
	for i, insn := range program.Instructions {
		row := data[i*numProgramPreprocessedCols:]
		row[programPC] = field.Uint64[F](uint64(insn.PC))
		row[programOpcode] = field.Uint64[F](uint64(insn.Opcode))
		row[programB] = field.Uint64[F](uint64(insn.B))
		row[programC] = field.Uint64[F](uint64(insn.C))
	}
	//
	tr := trace.NewRowMajorTrace(data, numProgramPreprocessedCols)
	//
	return tr.PadToPowerOfTwo(), nil
}

// GenerateTrace implementation for the Chip interface.
func (p ProgramChip[F]) GenerateTrace(record *executor.Record) (trace.RowMajorTrace[F], error) {
	if len(record.InstructionCounts) != len(record.Program.Instructions) {
		return trace.RowMajorTrace[F]{}, fmt.Errorf("%w: %d instruction counts for %d instructions",
			ErrMalformedEvent, len(record.InstructionCounts), len(record.Program.Instructions))
	}
	//
	data := make([]F, len(record.InstructionCounts))
	//
	for i, count := range record.InstructionCounts {
		data[i] = field.Uint64[F](count)
	}
	//
	tr := trace.NewRowMajorTrace(data, 1)
	//
	return tr.PadToPowerOfTwo(), nil
}

// Eval implementation for the Chip interface.
func (p ProgramChip[F]) Eval(builder air.Builder[F]) {
	preprocessed := builder.Preprocessed()
	// Offer each instruction with its execution multiplicity.
	builder.Send(air.ProgramBus, []F{
		preprocessed[programPC],
		preprocessed[programOpcode],
		preprocessed[programB],
		preprocessed[programC],
	}, builder.Row()[0])
}
