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
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTrace(t *testing.T) {
	record := addRecord(
		addEvent(1, 2),
		addEvent(0xff, 1),                // carry out of the low limb
		addEvent(0xffffffff, 1),          // wrap around zero
		addEvent(0x80000000, 0x80000000), // wrap on the top limb
	)
	//
	chip := AddChip[F]{}
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	// Four events at packing factor two.
	require.Equal(t, uint(2), tr.Height())
	//
	assert.Empty(t, air.CheckTrace[F](chip, tr, emptyTrace()))
	// 0xff + 1 = 0x100, so the low limb of a is zero with a carry.
	assert.True(t, tr.Cell(0, numAddCols+addA).IsZero())
	assert.True(t, tr.Cell(0, numAddCols+addCarry).IsOne())
}

func TestAddPartialGroupFlushed(t *testing.T) {
	// Three events at packing factor two yields two physical rows, the
	// second holding an inert tail.
	record := addRecord(addEvent(1, 1), addEvent(2, 2), addEvent(3, 3))
	//
	chip := AddChip[F]{}
	require.Equal(t, uint(2), chip.NaturalHeight(record))
	//
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	require.Equal(t, uint(2), tr.Height())
	//
	assert.True(t, tr.Cell(1, addIsReal).IsOne())
	assert.True(t, tr.Cell(1, numAddCols+addIsReal).IsZero())
	//
	assert.Empty(t, air.CheckTrace[F](chip, tr, emptyTrace()))
}

func TestAddMalformedEvent(t *testing.T) {
	// Claimed result disagrees with the operands.
	record := addRecord(executor.AluEvent{Opcode: executor.OpAdd, A: 4, B: 1, C: 2})
	//
	_, err := AddChip[F]{}.GenerateTrace(record)
	assert.ErrorIs(t, err, ErrMalformedEvent)
	// Wrong opcode is equally malformed.
	record = addRecord(executor.AluEvent{Opcode: executor.OpLt, A: 1, B: 0, C: 1})
	//
	_, err = AddChip[F]{}.GenerateTrace(record)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestAddInteractions(t *testing.T) {
	record := addRecord(addEvent(0x01020304, 0x10203040), addEvent(5, 6))
	//
	chip := AddChip[F]{}
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	//
	checker := air.NewRowChecker[F](tr.Row(0), nil)
	chip.Eval(checker)
	// Four byte range checks per logical sub-row.
	require.Len(t, checker.Sends(), 4*AddPacking)
	//
	for _, interaction := range checker.Sends() {
		assert.Equal(t, air.ByteBus, interaction.Bus)
	}
	// One ALU claim per logical sub-row.
	require.Len(t, checker.Receives(), AddPacking)
	//
	for _, interaction := range checker.Receives() {
		assert.Equal(t, air.AluBus, interaction.Bus)
		assert.Len(t, interaction.Values, 4)
	}
}

// ===================================================================
// Helpers
// ===================================================================

func addEvent(b uint32, c uint32) executor.AluEvent {
	return executor.AluEvent{Opcode: executor.OpAdd, A: b + c, B: b, C: c}
}

func addRecord(events ...executor.AluEvent) *executor.Record {
	record := executor.NewRecord(executor.NewProgram(nil))
	record.AddEvents = events
	//
	return record
}
