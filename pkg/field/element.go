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
package field

import (
	"fmt"
	"math/big"
)

// An Element of a prime-order field.  All chip logic in this repository is
// generic over this interface, meaning chips can be instantiated for any field
// supported by an underlying implementation (e.g. gnark-crypto).
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y Operand) int
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// SetUint64 constructs an element from a given uint64.
	SetUint64(val uint64) Operand
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// FromBool constructs a field element representing either 0 or 1.
func FromBool[F Element[F]](val bool) F {
	var element F
	//
	if val {
		return element.SetUint64(1)
	}
	//
	return element
}

// TwoPowN constructs a field element representing 2^n
func TwoPowN[F Element[F]](n uint) F {
	var two F
	//
	return Pow(two.SetUint64(2), uint64(n))
}
