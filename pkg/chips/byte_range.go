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
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field"
	"github.com/consensys/go-zkvm/pkg/trace"
)

// ByteRangeChip is the sink of all byte range checks.  Its preprocessed trace
// is the static table of all 256 byte values; its main trace holds, per byte,
// the number of times that byte was range-checked elsewhere in the machine.
// The multiset argument then balances every byte sent on the byte bus against
// this table.
type ByteRangeChip[F field.Element[F]] struct{}

// Name implementation for the Chip interface.
func (p ByteRangeChip[F]) Name() string {
	return "ByteRange"
}

// Width implementation for the Chip interface.
func (p ByteRangeChip[F]) Width() uint {
	return 1
}

// NaturalHeight implementation for the Chip interface.  The table is static,
// hence its height is independent of the record.
func (p ByteRangeChip[F]) NaturalHeight(*executor.Record) uint {
	return 256
}

// PreprocessedWidth implementation for the PreprocessedChip interface.
func (p ByteRangeChip[F]) PreprocessedWidth() uint {
	return 1
}

// PreprocessedHeight implementation for the PreprocessedChip interface.
func (p ByteRangeChip[F]) PreprocessedHeight(*executor.Program) uint {
	return 256
}

// GeneratePreprocessedTrace implementation for the PreprocessedChip
// interface.
func (p ByteRangeChip[F]) GeneratePreprocessedTrace(*executor.Program) (trace.RowMajorTrace[F], error) {
	data := make([]F, 256)
	//
	for i := range data {
		data[i] = field.Uint64[F](uint64(i))
	}
	//
	return trace.NewRowMajorTrace(data, 1), nil
}

// GenerateTrace implementation for the Chip interface.  The main trace is the
// multiplicity column, counting byte range checks performed by other chips
// (currently only the add chip's output limbs).
func (p ByteRangeChip[F]) GenerateTrace(record *executor.Record) (trace.RowMajorTrace[F], error) {
	var multiplicities [256]uint64
	//
	for _, event := range record.AddEvents {
		for i := 0; i < 4; i++ {
			multiplicities[(event.A>>(8*i))&0xff]++
		}
	}
	//
	data := make([]F, 256)
	//
	for i, m := range multiplicities {
		data[i] = field.Uint64[F](m)
	}
	//
	return trace.NewRowMajorTrace(data, 1), nil
}

// Eval implementation for the Chip interface.
func (p ByteRangeChip[F]) Eval(builder air.Builder[F]) {
	// Balance byte-bus sends against the static table.
	builder.Receive(air.ByteBus, []F{builder.Preprocessed()[0]}, builder.Row()[0])
}
