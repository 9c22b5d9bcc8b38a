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
package machine

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/chips"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field"
)

// Machine is a closed enumeration of chips, in a fixed declaration order.
// All shape computations and trace generation walk this list; there is no
// dynamic chip registration.
type Machine[F field.Element[F]] struct {
	chips []air.Chip[F]
}

// NewMachine constructs a machine over a given chip list.
func NewMachine[F field.Element[F]](chips []air.Chip[F]) Machine[F] {
	return Machine[F]{chips}
}

// Core constructs the standard machine over all supported chips.
func Core[F field.Element[F]]() Machine[F] {
	return NewMachine([]air.Chip[F]{
		chips.ProgramChip[F]{},
		chips.ByteRangeChip[F]{},
		chips.AddChip[F]{},
		chips.FieldLtChip[F]{},
	})
}

// Chips returns every chip of this machine, in declaration order.
func (p Machine[F]) Chips() []air.Chip[F] {
	return p.chips
}

// Chip returns the chip with a given name (if any).
func (p Machine[F]) Chip(name string) (air.Chip[F], bool) {
	for _, chip := range p.chips {
		if chip.Name() == name {
			return chip, true
		}
	}
	//
	return nil, false
}

// ChipHeight pairs a chip name with a natural (unpadded) trace height.
type ChipHeight struct {
	// Name of the chip in question.
	Name string
	// Natural height of the chip's trace.
	Height uint
}

// Heights returns the natural trace height of every core (i.e. event-driven)
// chip for a given record, in declaration order.
func (p Machine[F]) Heights(record *executor.Record) []ChipHeight {
	var heights []ChipHeight
	//
	for _, chip := range p.chips {
		if _, ok := chip.(air.PreprocessedChip[F]); ok {
			continue
		}
		//
		heights = append(heights, ChipHeight{chip.Name(), chip.NaturalHeight(record)})
	}
	//
	return heights
}

// PreprocessedHeights returns the natural preprocessed trace height of every
// preprocessed chip for a given program, in declaration order.
func (p Machine[F]) PreprocessedHeights(program *executor.Program) []ChipHeight {
	var heights []ChipHeight
	//
	for _, chip := range p.chips {
		if preprocessed, ok := chip.(air.PreprocessedChip[F]); ok {
			heights = append(heights, ChipHeight{chip.Name(), preprocessed.PreprocessedHeight(program)})
		}
	}
	//
	return heights
}
