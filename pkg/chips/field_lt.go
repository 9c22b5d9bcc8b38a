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
	"github.com/consensys/go-zkvm/pkg/util"
	log "github.com/sirupsen/logrus"
)

// LtNumBits is the range parameter of the less-than chip: the difference
// b - c + 2^LtNumBits must fit in LtNumBits+1 bits for the witness to be
// representable.
const LtNumBits = 29

// FieldLtPacking is the number of logical less-than rows packed into one
// physical trace row, amortising fixed per-row costs in the backend.
const FieldLtPacking = 4

// Column offsets within one logical less-than row.
const (
	// Result of the comparison b < c.
	fieldLtLt = 0
	// First operand.
	fieldLtB = 1
	// Second operand.
	fieldLtC = 2
	// Bits of b - c + 2^LtNumBits, in little-endian order (LtNumBits+1 of them).
	fieldLtDiffBits = 3
	// Flag distinguishing real rows from padding.
	fieldLtIsReal = fieldLtDiffBits + LtNumBits + 1
	// Total number of columns in one logical row.
	numFieldLtCols = fieldLtIsReal + 1
)

// FieldLtChip proves unsigned less-than comparisons.  Each comparison is
// witnessed by the bit decomposition of d = b - c + 2^LtNumBits (computed with
// wrapping 32bit arithmetic); the complement of the top bit of d is then the
// comparison result.  Other chips obtain comparison results by sending the
// corresponding tuple on the field-op bus, which this chip receives.
type FieldLtChip[F field.Element[F]] struct {
	// FlushPartialGroup determines what happens to a trailing group of fewer
	// than FieldLtPacking events.  When false (the historical behaviour),
	// the partial group is silently dropped, which loses events unless the
	// executor guarantees event counts are always multiples of the packing
	// factor.  When true, a final zero-padded group is emitted instead.
	FlushPartialGroup bool
}

// Name implementation for the Chip interface.
func (p FieldLtChip[F]) Name() string {
	return "FieldLt"
}

// Width implementation for the Chip interface.
func (p FieldLtChip[F]) Width() uint {
	return numFieldLtCols * FieldLtPacking
}

// NaturalHeight implementation for the Chip interface.
func (p FieldLtChip[F]) NaturalHeight(record *executor.Record) uint {
	n := uint(len(record.FieldLtEvents))
	//
	if p.FlushPartialGroup {
		return (n + FieldLtPacking - 1) / FieldLtPacking
	}
	// Historical behaviour: only complete groups are emitted.
	return n / FieldLtPacking
}

// GenerateTrace implementation for the Chip interface.  Groups of
// FieldLtPacking events are processed independently, in parallel, each
// producing one physical row.
func (p FieldLtChip[F]) GenerateTrace(record *executor.Record) (trace.RowMajorTrace[F], error) {
	var (
		stats  = util.NewPerfStats()
		events = record.FieldLtEvents
		nrows  = p.NaturalHeight(record)
	)
	// See FlushPartialGroup.
	if dropped := uint(len(events)) % FieldLtPacking; dropped != 0 && !p.FlushPartialGroup {
		log.Warnf("FieldLt dropping %d trailing events (count %d not a multiple of %d)",
			dropped, len(events), FieldLtPacking)
	}
	//
	tr, err := trace.FillRows(nrows, p.Width(), func(row uint, out []F) error {
		for i := uint(0); i < FieldLtPacking; i++ {
			index := row*FieldLtPacking + i
			// A flushed partial group leaves its tail as padding.
			if index >= uint(len(events)) {
				break
			}
			//
			if err := fieldLtFillRow(out[i*numFieldLtCols:(i+1)*numFieldLtCols], events[index]); err != nil {
				return err
			}
		}
		//
		return nil
	})
	//
	if err != nil {
		return trace.RowMajorTrace[F]{}, err
	}
	//
	stats.Log("generate FieldLt trace")
	// Pad the trace to a power of two.
	return tr.PadToPowerOfTwo(), nil
}

// fieldLtFillRow materialises a single event as one logical row.
func fieldLtFillRow[F field.Element[F]](cols []F, event executor.FieldLtEvent) error {
	// NOTE: wrapping 32bit arithmetic, matching the constraint over the field
	// for all representable witnesses.
	diff := event.B - event.C + (1 << LtNumBits)
	//
	if diff >= 1<<(LtNumBits+1) {
		return fmt.Errorf("%w: FieldLt difference %d exceeds %d bits (b=%d, c=%d)",
			ErrWitnessOverflow, diff, LtNumBits+1, event.B, event.C)
	}
	//
	cols[fieldLtLt] = field.FromBool[F](event.Lt)
	cols[fieldLtB] = field.Uint64[F](uint64(event.B))
	cols[fieldLtC] = field.Uint64[F](uint64(event.C))
	//
	for i := 0; i <= LtNumBits; i++ {
		cols[fieldLtDiffBits+i] = field.Uint64[F](uint64((diff >> i) & 1))
	}
	//
	cols[fieldLtIsReal] = field.One[F]()
	//
	return nil
}

// Eval implementation for the Chip interface.  Constraints are declared for
// each packed logical sub-row of the current physical row.
func (p FieldLtChip[F]) Eval(builder air.Builder[F]) {
	row := builder.Row()
	one := builder.Constant(1)
	//
	for i := 0; i < FieldLtPacking; i++ {
		local := row[i*numFieldLtCols : (i+1)*numFieldLtCols]
		//
		var (
			lt     = local[fieldLtLt]
			b      = local[fieldLtB]
			c      = local[fieldLtC]
			isReal = local[fieldLtIsReal]
		)
		// Dummy constraint for normalising to the backend's target degree.
		builder.AssertEqual(b.Mul(b).Mul(b), b.Mul(b).Mul(b))
		// Verify that lt is a boolean.
		builder.AssertBool(lt)
		// Verify that the diff bits are boolean.
		for j := 0; j <= LtNumBits; j++ {
			builder.AssertBool(local[fieldLtDiffBits+j])
		}
		// Verify the decomposition of b - c.
		diff := field.Zero[F]()
		//
		for j := 0; j <= LtNumBits; j++ {
			diff = diff.Add(local[fieldLtDiffBits+j].Mul(builder.Constant(1 << j)))
		}
		//
		builder.When(isReal).AssertEqual(b.Sub(c).Add(builder.Constant(1<<LtNumBits)), diff)
		// Assert that the output is correct.
		builder.When(isReal).AssertEqual(lt, one.Sub(local[fieldLtDiffBits+LtNumBits]))
		// Receive the field operation.
		builder.Receive(air.FieldOpBus, []F{lt, b, c}, isReal)
	}
}
