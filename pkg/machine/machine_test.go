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
	"testing"

	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func TestCoreChipNamesUnique(t *testing.T) {
	var (
		mach = Core[F]()
		seen = map[string]bool{}
	)
	//
	for _, chip := range mach.Chips() {
		assert.False(t, seen[chip.Name()], "duplicate chip name %s", chip.Name())
		seen[chip.Name()] = true
	}
}

func TestChipLookup(t *testing.T) {
	mach := Core[F]()
	//
	chip, ok := mach.Chip("FieldLt")
	require.True(t, ok)
	assert.Equal(t, "FieldLt", chip.Name())
	//
	_, ok = mach.Chip("Mul")
	assert.False(t, ok)
}

func TestHeightsSplitByKind(t *testing.T) {
	var (
		mach    = Core[F]()
		program = executor.NewProgram([]executor.Instruction{
			{PC: 0, Opcode: executor.OpAdd, B: 1, C: 2},
			{PC: 4, Opcode: executor.OpLt, B: 3, C: 4},
			{PC: 8, Opcode: executor.OpAdd, B: 5, C: 6},
		})
		record = executor.NewRecord(program)
	)
	//
	record.FieldLtEvents = make([]executor.FieldLtEvent, 9)
	record.AddEvents = make([]executor.AluEvent, 3)
	// Preprocessed chips are excluded from record heights.
	heights := mach.Heights(record)
	require.Len(t, heights, 2)
	// Three add events packed two to a row.
	assert.Equal(t, ChipHeight{"Add", 2}, heights[0])
	// Nine lt events packed four to a row, trailing partial group dropped.
	assert.Equal(t, ChipHeight{"FieldLt", 2}, heights[1])
	// Core chips are excluded from preprocessed heights.
	preprocessed := mach.PreprocessedHeights(program)
	require.Len(t, preprocessed, 2)
	assert.Equal(t, ChipHeight{"Program", 3}, preprocessed[0])
	assert.Equal(t, ChipHeight{"ByteRange", 256}, preprocessed[1])
}
