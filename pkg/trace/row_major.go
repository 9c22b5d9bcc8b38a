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
package trace

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/field"
)

// RowMajorTrace is a table of field elements laid out in row-major order with
// a fixed column width.  Every chip materialises its events into one of these,
// which the proving backend subsequently commits to.  Rows are either real
// (derived from an event) or padding (inert, appended to reach a power-of-two
// height).
type RowMajorTrace[F field.Element[F]] struct {
	// Values in row-major order, where len(data) is a multiple of width.
	data []F
	// Number of columns in each row.
	width uint
}

// NewRowMajorTrace constructs a trace from a flat array of values.
func NewRowMajorTrace[F field.Element[F]](data []F, width uint) RowMajorTrace[F] {
	if width == 0 {
		panic("trace must have non-zero width")
	} else if uint(len(data))%width != 0 {
		panic(fmt.Sprintf("trace data (%d values) not a multiple of width (%d)", len(data), width))
	}
	//
	return RowMajorTrace[F]{data, width}
}

// Width returns the number of columns in this trace.
func (p RowMajorTrace[F]) Width() uint {
	return p.width
}

// Height returns the number of rows in this trace.
func (p RowMajorTrace[F]) Height() uint {
	if p.width == 0 {
		return 0
	}
	//
	return uint(len(p.data)) / p.width
}

// Row returns the ith row of this trace.  The returned slice aliases the
// underlying data, hence writes to it are visible in the trace.
func (p RowMajorTrace[F]) Row(index uint) []F {
	start := index * p.width
	return p.data[start : start+p.width]
}

// Cell returns the value at a given row and column.
func (p RowMajorTrace[F]) Cell(row uint, col uint) F {
	return p.data[row*p.width+col]
}

// Data returns the underlying values of this trace in row-major order.
func (p RowMajorTrace[F]) Data() []F {
	return p.data
}

// PadToPowerOfTwo returns a trace whose height is the next power of two
// (minimum 1), with the original rows unchanged and any appended rows
// all-zero.  The result is allocated exactly once at its final size.
func (p RowMajorTrace[F]) PadToPowerOfTwo() RowMajorTrace[F] {
	var (
		height = p.Height()
		padded = NextPowerOfTwo(height)
	)
	// Check whether padding required
	if padded == height && height != 0 {
		return p
	}
	// NOTE: the zero value of F is the zero of the field, hence padding rows
	// require no further initialisation.
	data := make([]F, padded*p.width)
	copy(data, p.data)
	//
	return RowMajorTrace[F]{data, p.width}
}

// NextPowerOfTwo returns the least power of two greater than or equal to a
// given height, where the empty table is padded to a single row.
func NextPowerOfTwo(height uint) uint {
	result := uint(1)
	//
	for result < height {
		result <<= 1
	}
	//
	return result
}
