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
)

// AddPacking is the number of logical addition rows packed into one physical
// trace row.
const AddPacking = 2

// Column offsets within one logical addition row.
const (
	// Result limbs (little-endian bytes of a).
	addA = 0
	// First operand limbs.
	addB = 4
	// Second operand limbs.
	addC = 8
	// Carry bit out of each limb position.
	addCarry = 12
	// Flag distinguishing real rows from padding.
	addIsReal = 16
	// Total number of columns in one logical row.
	numAddCols = addIsReal + 1
)

// AddChip proves 32bit addition a = b + c (mod 2^32).  Operands are
// decomposed into byte limbs, with one carry bit per limb position; the
// output limbs are range-checked via the byte bus (received by the byte range
// chip), and the operation itself is offered on the ALU bus.  A trailing
// partial group of events is always flushed as a zero-padded group.
type AddChip[F field.Element[F]] struct{}

// Name implementation for the Chip interface.
func (p AddChip[F]) Name() string {
	return "Add"
}

// Width implementation for the Chip interface.
func (p AddChip[F]) Width() uint {
	return numAddCols * AddPacking
}

// NaturalHeight implementation for the Chip interface.
func (p AddChip[F]) NaturalHeight(record *executor.Record) uint {
	return (uint(len(record.AddEvents)) + AddPacking - 1) / AddPacking
}

// GenerateTrace implementation for the Chip interface.
func (p AddChip[F]) GenerateTrace(record *executor.Record) (trace.RowMajorTrace[F], error) {
	var (
		stats  = util.NewPerfStats()
		events = record.AddEvents
		nrows  = p.NaturalHeight(record)
	)
	//
	tr, err := trace.FillRows(nrows, p.Width(), func(row uint, out []F) error {
		for i := uint(0); i < AddPacking; i++ {
			index := row*AddPacking + i
			//
			if index >= uint(len(events)) {
				break
			}
			//
			if err := addFillRow(out[i*numAddCols:(i+1)*numAddCols], events[index]); err != nil {
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
	stats.Log("generate Add trace")
	//
	return tr.PadToPowerOfTwo(), nil
}

// addFillRow materialises a single event as one logical row.
func addFillRow[F field.Element[F]](cols []F, event executor.AluEvent) error {
	if event.Opcode != executor.OpAdd {
		return fmt.Errorf("%w: Add chip given %s event", ErrMalformedEvent, event.Opcode)
	} else if event.A != event.B+event.C {
		return fmt.Errorf("%w: %d + %d != %d", ErrMalformedEvent, event.B, event.C, event.A)
	}
	//
	carry := uint32(0)
	//
	for i := 0; i < 4; i++ {
		var (
			bByte = (event.B >> (8 * i)) & 0xff
			cByte = (event.C >> (8 * i)) & 0xff
			sum   = bByte + cByte + carry
		)
		//
		carry = sum >> 8
		//
		cols[addA+i] = field.Uint64[F](uint64(sum & 0xff))
		cols[addB+i] = field.Uint64[F](uint64(bByte))
		cols[addC+i] = field.Uint64[F](uint64(cByte))
		cols[addCarry+i] = field.Uint64[F](uint64(carry))
	}
	//
	cols[addIsReal] = field.One[F]()
	//
	return nil
}

// Eval implementation for the Chip interface.
func (p AddChip[F]) Eval(builder air.Builder[F]) {
	var (
		row  = builder.Row()
		base = builder.Constant(256)
	)
	//
	for i := 0; i < AddPacking; i++ {
		var (
			local  = row[i*numAddCols : (i+1)*numAddCols]
			isReal = local[addIsReal]
			when   = builder.When(isReal)
		)
		//
		builder.AssertBool(isReal)
		// Limb-wise addition with carries.
		for j := 0; j < 4; j++ {
			carryIn := field.Zero[F]()
			//
			if j != 0 {
				carryIn = local[addCarry+j-1]
			}
			//
			builder.AssertBool(local[addCarry+j])
			// b[j] + c[j] + carry[j-1] == a[j] + 256 * carry[j]
			when.AssertEqual(
				local[addB+j].Add(local[addC+j]).Add(carryIn),
				local[addA+j].Add(base.Mul(local[addCarry+j])))
			// Range check the output limb.
			builder.Send(air.ByteBus, []F{local[addA+j]}, isReal)
		}
		// Offer the operation on the ALU bus.
		builder.Receive(air.AluBus, []F{
			builder.Constant(uint64(executor.OpAdd)),
			recompose(builder, local[addA:addA+4]),
			recompose(builder, local[addB:addB+4]),
			recompose(builder, local[addC:addC+4]),
		}, isReal)
	}
}

// recompose folds four byte limbs (little-endian) back into a single value.
func recompose[F field.Element[F]](builder air.Builder[F], limbs []F) F {
	value := field.Zero[F]()
	//
	for i := 0; i < 4; i++ {
		value = value.Add(limbs[i].Mul(builder.Constant(1 << (8 * i))))
	}
	//
	return value
}
