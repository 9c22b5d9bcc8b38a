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
	"github.com/consensys/go-zkvm/pkg/field"
	"github.com/consensys/go-zkvm/pkg/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func TestFieldLtAnchors(t *testing.T) {
	record := ltRecord(
		executor.FieldLtEvent{B: 5, C: 10, Lt: true},
		executor.FieldLtEvent{B: 10, C: 5, Lt: false},
		executor.FieldLtEvent{B: 7, C: 7, Lt: false},
		executor.FieldLtEvent{B: 0, C: 1, Lt: true},
	)
	//
	chip := FieldLtChip[F]{}
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	// One full group, already a power of two.
	require.Equal(t, uint(1), tr.Height())
	// b=5 < c=10, hence lt = 1
	assert.True(t, tr.Cell(0, fieldLtLt).IsOne())
	// b=10 >= c=5, hence lt = 0
	assert.True(t, tr.Cell(0, numFieldLtCols+fieldLtLt).IsZero())
	// All constraints hold.
	assert.Empty(t, air.CheckTrace[F](chip, tr, emptyTrace()))
}

// Round-trip decomposition: resumming the bits with powers of two reproduces
// b - c + 2^LtNumBits exactly, and the complement of the top bit is b < c.
func TestFieldLtDecomposition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000

	properties := gopter.NewProperties(parameters)
	properties.Property("bits resum to diff; top bit complement is b < c", prop.ForAll(
		func(b uint32, c uint32) bool {
			cols := make([]F, numFieldLtCols)
			//
			if err := fieldLtFillRow(cols, executor.FieldLtEvent{B: b, C: c, Lt: b < c}); err != nil {
				return false
			}
			// Resum the bits
			sum := field.Zero[F]()
			for i := 0; i <= LtNumBits; i++ {
				sum = sum.Add(cols[fieldLtDiffBits+i].Mul(field.TwoPowN[F](uint(i))))
			}
			//
			expected := field.Uint64[F](uint64(b - c + (1 << LtNumBits)))
			top := cols[fieldLtDiffBits+LtNumBits]
			//
			return sum.Cmp(expected) == 0 && top.IsOne() == (b >= c)
		},
		gen.UInt32Range(0, 1<<29-1),
		gen.UInt32Range(0, 1<<29-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFieldLtWitnessOverflow(t *testing.T) {
	// b - c = 2^31 does not fit LtNumBits+1 bits.
	record := ltRecord(
		executor.FieldLtEvent{B: 1 << 31, C: 0, Lt: false},
		executor.FieldLtEvent{},
		executor.FieldLtEvent{},
		executor.FieldLtEvent{},
	)
	//
	_, err := FieldLtChip[F]{}.GenerateTrace(record)
	assert.ErrorIs(t, err, ErrWitnessOverflow)
}

// With packing factor 4 and 10 events, the truncating chip emits exactly 2
// physical rows (dropping 2 events), whilst the flushing chip emits a third,
// zero-padded group.
func TestFieldLtPackingBoundary(t *testing.T) {
	events := make([]executor.FieldLtEvent, 10)
	for i := range events {
		events[i] = executor.FieldLtEvent{B: uint32(i), C: uint32(i + 1), Lt: true}
	}
	//
	record := ltRecord(events...)
	//
	truncating := FieldLtChip[F]{}
	flushing := FieldLtChip[F]{FlushPartialGroup: true}
	//
	assert.Equal(t, uint(2), truncating.NaturalHeight(record))
	assert.Equal(t, uint(3), flushing.NaturalHeight(record))
	//
	tr, err := truncating.GenerateTrace(record)
	require.NoError(t, err)
	assert.Equal(t, uint(2), tr.Height())
	//
	tr, err = flushing.GenerateTrace(record)
	require.NoError(t, err)
	// Three rows padded up to four.
	assert.Equal(t, uint(4), tr.Height())
	// The ninth and tenth events are real; the flushed tail is not.
	assert.True(t, tr.Cell(2, numFieldLtCols+fieldLtIsReal).IsOne())
	assert.True(t, tr.Cell(2, 2*numFieldLtCols+fieldLtIsReal).IsZero())
	// Both tables satisfy all constraints regardless of policy.
	assert.Empty(t, air.CheckTrace[F](truncating, mustTrace(t, truncating, record), emptyTrace()))
	assert.Empty(t, air.CheckTrace[F](flushing, tr, emptyTrace()))
}

// Padding rows satisfy every gated constraint trivially, independent of
// operand values, since is_real = 0.
func TestFieldLtPaddingInert(t *testing.T) {
	events := make([]executor.FieldLtEvent, 4)
	for i := range events {
		events[i] = executor.FieldLtEvent{B: uint32(i), C: 100, Lt: true}
	}
	// Five events: the second physical row holds one real sub-row and an
	// inert, zero-operand tail.
	record := ltRecord(append(events, executor.FieldLtEvent{B: 1, C: 2, Lt: true})...)
	chip := FieldLtChip[F]{FlushPartialGroup: true}
	//
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	require.Equal(t, uint(2), tr.Height())
	//
	assert.Empty(t, air.CheckTrace[F](chip, tr, emptyTrace()))
	// Padding sub-rows are flagged not-real.
	assert.True(t, tr.Cell(1, numFieldLtCols+fieldLtIsReal).IsZero())
}

func TestFieldLtInteractions(t *testing.T) {
	record := ltRecord(
		executor.FieldLtEvent{B: 5, C: 10, Lt: true},
		executor.FieldLtEvent{B: 10, C: 5, Lt: false},
		executor.FieldLtEvent{B: 1, C: 2, Lt: true},
		executor.FieldLtEvent{B: 2, C: 1, Lt: false},
	)
	//
	chip := FieldLtChip[F]{}
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	//
	checker := air.NewRowChecker[F](tr.Row(0), nil)
	chip.Eval(checker)
	// One receive per packed logical sub-row.
	receives := checker.Receives()
	require.Len(t, receives, FieldLtPacking)
	//
	for _, interaction := range receives {
		assert.Equal(t, air.FieldOpBus, interaction.Bus)
		assert.True(t, interaction.Multiplicity.IsOne())
		assert.Len(t, interaction.Values, 3)
	}
}

func TestFieldLtWidth(t *testing.T) {
	chip := FieldLtChip[F]{}
	// layout width x packing factor
	assert.Equal(t, uint(numFieldLtCols*FieldLtPacking), chip.Width())
	assert.Equal(t, "FieldLt", chip.Name())
}

// ===================================================================
// Helpers
// ===================================================================

func ltRecord(events ...executor.FieldLtEvent) *executor.Record {
	record := executor.NewRecord(executor.NewProgram(nil))
	record.FieldLtEvents = events
	//
	return record
}

func mustTrace(t *testing.T, chip FieldLtChip[F], record *executor.Record) trace.RowMajorTrace[F] {
	tr, err := chip.GenerateTrace(record)
	require.NoError(t, err)
	//
	return tr
}

func emptyTrace() trace.RowMajorTrace[F] {
	return trace.RowMajorTrace[F]{}
}
