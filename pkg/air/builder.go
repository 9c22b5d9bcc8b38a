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
	"fmt"

	"github.com/consensys/go-zkvm/pkg/field"
)

// Bus identifies the logical meaning of an interaction, i.e. which virtual
// table a tuple is sent to (or received from).  The backend enforces, via a
// global multiset-equality argument, that every tuple sent on a bus is matched
// by a corresponding receive.
type Bus uint8

const (
	// FieldOpBus carries claims of the form "result = op(b, c)" over field
	// operands, e.g. the less-than chip's outputs.
	FieldOpBus Bus = iota
	// AluBus carries claims of the form "a = op(b, c)" over 32bit operands.
	AluBus
	// ByteBus carries byte range-check claims.
	ByteBus
	// ProgramBus carries instruction-fetch claims against the static program.
	ProgramBus
)

func (b Bus) String() string {
	switch b {
	case FieldOpBus:
		return "field-op"
	case AluBus:
		return "alu"
	case ByteBus:
		return "byte"
	case ProgramBus:
		return "program"
	}
	//
	return fmt.Sprintf("?(%d)", uint8(b))
}

// Interaction is a tuple of field values tagged with a bus and weighted by a
// multiplicity.  A zero multiplicity (e.g. on padding rows) removes the tuple
// from the multiset argument entirely.
type Interaction[F field.Element[F]] struct {
	// Bus on which this tuple travels.
	Bus Bus
	// Values making up the tuple.
	Values []F
	// Multiplicity with which the tuple is counted.
	Multiplicity F
}

// Builder is the constraint-builder abstraction against which chips declare
// their polynomial identities and interactions.  It is supplied by the
// proving backend and exposes exactly one physical row at a time; constraints
// are row-local.  This package provides RowChecker, a concrete builder which
// evaluates constraints directly (used for testing and trace validation).
type Builder[F field.Element[F]] interface {
	// Row returns the cells of the current physical row of the main trace.
	Row() []F

	// Preprocessed returns the cells of the current physical row of the
	// preprocessed trace (empty for chips without one).
	Preprocessed() []F

	// Constant embeds a small integer canonically into the field.
	Constant(val uint64) F

	// AssertZero asserts the given value is zero.
	AssertZero(val F)

	// AssertEqual asserts the two given values are equal.
	AssertEqual(lhs F, rhs F)

	// AssertBool asserts the given value is boolean, enforced as the identity
	// x*(x-1) = 0 rather than as any type-level guarantee.
	AssertBool(val F)

	// When returns a view of this builder in which every assertion is gated
	// by the given condition, i.e. multiplied through by it.  Rows where the
	// condition is zero (e.g. padding rows) satisfy gated assertions
	// trivially.
	When(condition F) Builder[F]

	// Send emits a tuple on the given bus with a given multiplicity.
	Send(bus Bus, values []F, multiplicity F)

	// Receive consumes a tuple from the given bus with a given multiplicity.
	Receive(bus Bus, values []F, multiplicity F)
}
