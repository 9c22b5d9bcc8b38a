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
package executor

import "fmt"

// Instruction is a single (static) instruction of a guest program.
type Instruction struct {
	// Program counter at which this instruction resides.
	PC uint32
	// Operation performed by this instruction.
	Opcode Opcode
	// First operand.
	B uint32
	// Second operand.
	C uint32
}

// Program is the static description of guest code.  Preprocessing-only chips
// (e.g. the program table) derive their traces from this alone, hence its
// shape can be fixed before any execution has happened.  The preprocessed
// shape must be fixed before the shape of any record derived from this
// program.
type Program struct {
	// Instructions making up this program.
	Instructions []Instruction
	// Preprocessed shape (set at most once).
	preprocessedShape ShapeCell
}

// NewProgram constructs a program from a given instruction sequence.
func NewProgram(instructions []Instruction) *Program {
	return &Program{Instructions: instructions}
}

// FixPreprocessedShape fixes the preprocessed shape of this program, exactly
// once.  Fixing it a second time is a protocol-ordering violation.
func (p *Program) FixPreprocessedShape(shape Shape) error {
	return p.preprocessedShape.Fix(fmt.Sprintf("program %p", p), shape)
}

// PreprocessedShape returns the preprocessed shape of this program (if fixed).
func (p *Program) PreprocessedShape() (Shape, bool) {
	return p.preprocessedShape.Get()
}
