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

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/consensys/go-zkvm/pkg/util"
)

// ErrShapeAlreadyFixed indicates an attempt to fix the shape of a record (or
// program) whose shape was already fixed.  This is always a protocol-ordering
// violation by the caller, never a recoverable runtime condition.
var ErrShapeAlreadyFixed = errors.New("shape already fixed")

// Shape maps chip names to their chosen log2 trace height.  Fixing every
// chip's height to a small discrete set of candidates (rather than its exact
// natural height) bounds the number of distinct circuit layouts a recursive
// verifier must support.  Shapes are plain data, suitable for serialisation as
// configuration for the recursion precomputation pipeline.
type Shape struct {
	// Mapping from chip name to log2 height.  Chips which are unused (i.e.
	// have no events) simply have no entry.
	Inner map[string]uint `json:"inner"`
}

// NewShape constructs an empty shape.
func NewShape() Shape {
	return Shape{Inner: make(map[string]uint)}
}

// Insert records the log2 height for a given chip.
func (p Shape) Insert(name string, logHeight uint) {
	p.Inner[name] = logHeight
}

// LogHeight returns the log2 height assigned to a given chip (if any).
func (p Shape) LogHeight(name string) (uint, bool) {
	h, ok := p.Inner[name]
	return h, ok
}

// Len returns the number of chips present in this shape.
func (p Shape) Len() uint {
	return uint(len(p.Inner))
}

// Equals checks whether two shapes assign identical heights to identical
// chips.
func (p Shape) Equals(other Shape) bool {
	return maps.Equal(p.Inner, other.Inner)
}

// String returns a deterministic (sorted) rendering of this shape.
func (p Shape) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, name := range slices.Sorted(maps.Keys(p.Inner)) {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s: %d", name, p.Inner[name])
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// ShapeCell is a write-once container for a shape.  It has exactly two
// states, unset and fixed, and the only permitted transition is unset to
// fixed.  Attempting the transition twice yields ErrShapeAlreadyFixed.
type ShapeCell struct {
	shape util.Option[Shape]
}

// Fix transitions this cell from unset to fixed, or fails if it was fixed
// already.  The owner string identifies the enclosing object in the error.
func (p *ShapeCell) Fix(owner string, shape Shape) error {
	if p.shape.HasValue() {
		return fmt.Errorf("%w (%s, currently %s)", ErrShapeAlreadyFixed, owner, p.shape.Unwrap().String())
	}
	//
	p.shape = util.Some(shape)
	//
	return nil
}

// Get returns the fixed shape (if any).
func (p *ShapeCell) Get() (Shape, bool) {
	if p.shape.HasValue() {
		return p.shape.Unwrap(), true
	}
	//
	return Shape{}, false
}

// IsFixed checks whether this cell holds a shape yet.
func (p *ShapeCell) IsFixed() bool {
	return p.shape.HasValue()
}
