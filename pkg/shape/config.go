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
package shape

import (
	"errors"
	"fmt"

	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field"
	"github.com/consensys/go-zkvm/pkg/machine"
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
)

// ErrNoAllowedHeight indicates that a chip's natural height exceeds every
// allowed height configured for it.  The configured height table is
// insufficient for the observed workload, which requires a configuration fix
// rather than any runtime fallback.
var ErrNoAllowedHeight = errors.New("no allowed height")

// ErrPreprocessedShapeMissing indicates an attempt to fix a record's shape
// before the preprocessed shape of its program was fixed.
var ErrPreprocessedShapeMissing = errors.New("preprocessed shape not fixed")

// ErrUnknownChip indicates a chip for which no allowed heights were
// configured.
var ErrUnknownChip = errors.New("no allowed heights configured for chip")

// AllowedHeights gives the candidate log2 trace heights for a single chip.
type AllowedHeights struct {
	// Name of the chip in question.
	Name string
	// Ascending, duplicate-free candidate log2 heights.
	LogHeights []uint
}

// Config determines, for every chip of a machine, the discrete set of padded
// trace heights a proof may use.  Discretising heights bounds the number of
// distinct circuit shapes the recursive verifier must be precomputed for,
// trading some wasted padding for a tractable set of recursion circuits.  The
// allowed heights are fixed at construction time and never derived from
// runtime data.
type Config[F field.Element[F]] struct {
	machine machine.Machine[F]
	// Allowed heights, in a fixed chip order.
	allowed []AllowedHeights
}

// NewConfig constructs a shape configuration for a given machine, checking
// that every height list is ascending and duplicate-free, and that every
// named chip actually exists in the machine.
func NewConfig[F field.Element[F]](mach machine.Machine[F], allowed []AllowedHeights) (*Config[F], error) {
	for _, entry := range allowed {
		if _, ok := mach.Chip(entry.Name); !ok {
			return nil, fmt.Errorf("%w: %s (not in machine)", ErrUnknownChip, entry.Name)
		} else if len(entry.LogHeights) == 0 {
			return nil, fmt.Errorf("chip %s has no allowed heights", entry.Name)
		}
		//
		for i := 1; i < len(entry.LogHeights); i++ {
			if entry.LogHeights[i-1] >= entry.LogHeights[i] {
				return nil, fmt.Errorf("chip %s heights not strictly ascending (%v)", entry.Name, entry.LogHeights)
			}
		}
	}
	//
	return &Config[F]{mach, allowed}, nil
}

// DefaultConfig returns the standard shape configuration for the core
// machine.
func DefaultConfig[F field.Element[F]]() *Config[F] {
	config, err := NewConfig(machine.Core[F](), []AllowedHeights{
		{"Program", []uint{4, 10, 16, 21}},
		{"ByteRange", []uint{8}},
		{"Add", []uint{4, 10, 16, 20, 21, 22}},
		{"FieldLt", []uint{4, 10, 18, 20, 21, 22}},
	})
	// Configuration above is statically well-formed.
	if err != nil {
		panic(err)
	}
	//
	return config
}

// FixPreprocessedShape computes the natural preprocessed height of every
// preprocessing-only chip from the static program, discretises each to its
// smallest allowed height, and stores the resulting shape on the program.
// Fails if the program's preprocessed shape was already fixed, or if any chip
// does not fit its tallest allowed height.
func (p *Config[F]) FixPreprocessedShape(program *executor.Program) error {
	shape, err := p.selectShape(p.machine.PreprocessedHeights(program))
	//
	if err != nil {
		return err
	}
	//
	if err := program.FixPreprocessedShape(shape); err != nil {
		log.Warnf("preprocessed shape already fixed (program %p)", program)
		return err
	}
	//
	return nil
}

// FixShape discretises the natural height of every core chip for a given
// record and stores the resulting shape on the record.  The program's
// preprocessed shape must have been fixed beforehand; fixing a record's shape
// twice fails.
func (p *Config[F]) FixShape(record *executor.Record) error {
	if _, ok := record.Program.PreprocessedShape(); !ok {
		return fmt.Errorf("%w (program %p)", ErrPreprocessedShapeMissing, record.Program)
	}
	//
	shape, err := p.selectShape(p.machine.Heights(record))
	//
	if err != nil {
		return err
	}
	//
	if err := record.FixShape(shape); err != nil {
		log.Warnf("shape already fixed (record %p)", record)
		return err
	}
	//
	return nil
}

// selectShape discretises a set of natural chip heights.  Chips with no rows
// at all are simply dropped, matching their "absent" state in the shape
// enumeration.
func (p *Config[F]) selectShape(heights []machine.ChipHeight) (executor.Shape, error) {
	shape := executor.NewShape()
	//
	for _, entry := range heights {
		if entry.Height == 0 {
			continue
		}
		//
		logHeight, err := p.selectLogHeight(entry.Name, entry.Height)
		//
		if err != nil {
			return executor.Shape{}, err
		}
		//
		shape.Insert(entry.Name, logHeight)
	}
	//
	return shape, nil
}

// selectLogHeight returns the smallest allowed log2 height which can
// accommodate a given natural height.
func (p *Config[F]) selectLogHeight(name string, height uint) (uint, error) {
	for _, entry := range p.allowed {
		if entry.Name != name {
			continue
		}
		//
		for _, logHeight := range entry.LogHeights {
			if height <= 1<<logHeight {
				return logHeight, nil
			}
		}
		//
		max := entry.LogHeights[len(entry.LogHeights)-1]
		//
		return 0, fmt.Errorf("%w: chip %s at height %d (max allowed 2^%d = %d)",
			ErrNoAllowedHeight, name, height, max, 1<<max)
	}
	//
	return 0, fmt.Errorf("%w: %s", ErrUnknownChip, name)
}

// AllowedShapes enumerates every legal proof shape: the cross-product, over
// all configured chips, of "absent" and each allowed height, with absent
// entries dropped.  The sequence can be astronomically large, hence it is
// produced lazily; callers pull as many shapes as they need.  The enumerator
// is pure and independent, so any number may be created concurrently.
func (p *Config[F]) AllowedShapes() iter.Enumerator[executor.Shape] {
	var (
		names   = make([]string, len(p.allowed))
		domains = make([][]util.Option[uint], len(p.allowed))
	)
	//
	for i, entry := range p.allowed {
		names[i] = entry.Name
		domains[i] = make([]util.Option[uint], len(entry.LogHeights)+1)
		domains[i][0] = util.None[uint]()
		//
		for j, logHeight := range entry.LogHeights {
			domains[i][j+1] = util.Some(logHeight)
		}
	}
	//
	return iter.Project(iter.EnumerateProduct(domains),
		func(choices []util.Option[uint]) executor.Shape {
			shape := executor.NewShape()
			//
			for i, choice := range choices {
				if choice.HasValue() {
					shape.Insert(names[i], choice.Unwrap())
				}
			}
			//
			return shape
		})
}

// NumShapes returns the total number of shapes AllowedShapes would yield,
// without enumerating them.
func (p *Config[F]) NumShapes() uint64 {
	count := uint64(1)
	//
	for _, entry := range p.allowed {
		count *= uint64(len(entry.LogHeights) + 1)
	}
	//
	return count
}
