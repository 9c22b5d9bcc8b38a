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

// Opcode identifies the operation performed by an ALU event.
type Opcode uint8

const (
	// OpAdd represents 32bit addition (modulo 2^32).
	OpAdd Opcode = iota
	// OpLt represents unsigned 32bit comparison.
	OpLt
)

func (op Opcode) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpLt:
		return "LT"
	}
	//
	return fmt.Sprintf("?(%d)", uint8(op))
}

// FieldLtEvent is an immutable fact, produced during execution, that an
// unsigned comparison b < c was performed with a given outcome.  Events are
// appended exactly once by the executor and are read-only thereafter.
type FieldLtEvent struct {
	// First operand.
	B uint32
	// Second operand.
	C uint32
	// Holds true iff B < C.
	Lt bool
}

// AluEvent is an immutable fact that a 32bit ALU operation with operands b and
// c produced result a.
type AluEvent struct {
	// Operation performed.
	Opcode Opcode
	// Result of the operation.
	A uint32
	// First operand.
	B uint32
	// Second operand.
	C uint32
}
