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

// Record collects the events produced whilst executing a program, grouped by
// the chip responsible for proving them.  Events are appended exactly once by
// the executor; chips only ever read them.  The record additionally carries an
// optional shape, fixed at most once per proving run, which freezes every
// chip's padded trace height before trace generation.
type Record struct {
	// Program from which this record was produced.
	Program *Program
	// Events for the field less-than chip.
	FieldLtEvents []FieldLtEvent
	// Events for the add chip.
	AddEvents []AluEvent
	// Execution counts, indexed by instruction, for the program chip.
	InstructionCounts []uint64
	// Shape of this record (set at most once).
	shape ShapeCell
}

// NewRecord constructs an empty record for a given program.
func NewRecord(program *Program) *Record {
	return &Record{
		Program:           program,
		InstructionCounts: make([]uint64, len(program.Instructions)),
	}
}

// FixShape fixes the shape of this record, exactly once.  Fixing it a second
// time is a protocol-ordering violation.
func (p *Record) FixShape(shape Shape) error {
	return p.shape.Fix(fmt.Sprintf("record %p", p), shape)
}

// Shape returns the shape of this record (if fixed).
func (p *Record) Shape() (Shape, bool) {
	return p.shape.Get()
}
