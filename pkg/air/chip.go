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
package air

import (
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field"
	"github.com/consensys/go-zkvm/pkg/trace"
)

// Chip is a self-contained constraint system responsible for one operation
// kind.  It owns a fixed column layout, knows how to materialise its rows from
// the events of an execution record, and declares the polynomial identities
// which every row (real or padding) must satisfy.  Chips never reference each
// other's traces directly; all cross-chip consistency goes through bus
// interactions (see Builder.Send / Builder.Receive).
type Chip[F field.Element[F]] interface {
	// Name returns a stable identifier for this chip, used as the key in
	// shape mappings.  Must be unique across all chips of a machine.
	Name() string

	// Width returns the number of field columns in one physical trace row
	// (logical column count multiplied by the packing factor).  Constant for
	// the lifetime of the chip.
	Width() uint

	// NaturalHeight returns the number of physical rows this chip requires
	// for a given record, before any padding.
	NaturalHeight(record *executor.Record) uint

	// GenerateTrace materialises this chip's events into a padded trace.  It
	// fails if any event yields an unrepresentable witness, which indicates a
	// malformed record with no partial or retry path.
	GenerateTrace(record *executor.Record) (trace.RowMajorTrace[F], error)

	// Eval declares the constraints of this chip over the current physical
	// row of the given builder.
	Eval(builder Builder[F])
}

// PreprocessedChip is implemented by chips whose trace is (partly) derived
// from the static program rather than from execution events, e.g. the program
// table.  Such chips participate in preprocessed shape fixing.
type PreprocessedChip[F field.Element[F]] interface {
	Chip[F]

	// PreprocessedWidth returns the number of columns in the preprocessed
	// part of this chip's trace.
	PreprocessedWidth() uint

	// PreprocessedHeight returns the number of preprocessed rows this chip
	// requires for a given program, before any padding.
	PreprocessedHeight(program *executor.Program) uint

	// GeneratePreprocessedTrace materialises the preprocessed part of this
	// chip's trace from the static program.
	GeneratePreprocessedTrace(program *executor.Program) (trace.RowMajorTrace[F], error)
}
