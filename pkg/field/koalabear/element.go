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
package koalabear

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/koalabear"
)

// Element wraps koalabear.Element to conform to the field.Element interface.
// KoalaBear is a 31-bit prime field (p = 2^31 - 2^24 + 1) and, hence, is
// considerably faster than a 256-bit field for trace generation.
type Element struct {
	koalabear.Element
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res koalabear.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res koalabear.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res koalabear.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Modulus returns the order of the KoalaBear field.
func (x Element) Modulus() *big.Int {
	return koalabear.Modulus()
}

// SetUint64 implementation for the Element interface
func (x Element) SetUint64(val uint64) Element {
	var res koalabear.Element
	//
	res.SetUint64(val)
	//
	return Element{res}
}

func (x Element) String() string {
	return x.Element.String()
}

// Text implementation for the Element interface
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}
