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
	"slices"
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/machine"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/collection/iter"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func TestNewConfigRejectsUnknownChip(t *testing.T) {
	_, err := NewConfig(machine.Core[F](), []AllowedHeights{
		{"Mul", []uint{4}},
	})
	assert.ErrorIs(t, err, ErrUnknownChip)
}

func TestNewConfigRejectsEmptyHeights(t *testing.T) {
	_, err := NewConfig(machine.Core[F](), []AllowedHeights{
		{"Add", nil},
	})
	assert.Error(t, err)
}

func TestNewConfigRejectsUnsortedHeights(t *testing.T) {
	_, err := NewConfig(machine.Core[F](), []AllowedHeights{
		{"Add", []uint{10, 4}},
	})
	assert.Error(t, err)
	//
	_, err = NewConfig(machine.Core[F](), []AllowedHeights{
		{"Add", []uint{4, 4, 10}},
	})
	assert.Error(t, err)
}

func TestDefaultConfigFixFlow(t *testing.T) {
	var (
		config  = DefaultConfig[F]()
		program = executor.NewProgram([]executor.Instruction{
			{PC: 0, Opcode: executor.OpAdd, B: 1, C: 2},
			{PC: 4, Opcode: executor.OpLt, B: 10, C: 5},
		})
		record = executor.NewRecord(program)
	)
	//
	record.AddEvents = []executor.AluEvent{
		{Opcode: executor.OpAdd, A: 3, B: 1, C: 2},
	}
	record.FieldLtEvents = make([]executor.FieldLtEvent, 64)
	//
	require.NoError(t, config.FixPreprocessedShape(program))
	require.NoError(t, config.FixShape(record))
	//
	preprocessed, ok := program.PreprocessedShape()
	require.True(t, ok)
	// Two instructions fit the smallest program height.
	assertLogHeight(t, preprocessed, "Program", 4)
	assertLogHeight(t, preprocessed, "ByteRange", 8)
	assert.Equal(t, uint(2), preprocessed.Len())
	//
	shape, ok := record.Shape()
	require.True(t, ok)
	assertLogHeight(t, shape, "Add", 4)
	// Sixteen packed rows fit 2^4 exactly.
	assertLogHeight(t, shape, "FieldLt", 4)
	assert.Equal(t, uint(2), shape.Len())
}

func TestFixShapeRequiresPreprocessedShape(t *testing.T) {
	var (
		config = DefaultConfig[F]()
		record = executor.NewRecord(executor.NewProgram(nil))
	)
	//
	err := config.FixShape(record)
	assert.ErrorIs(t, err, ErrPreprocessedShapeMissing)
}

func TestFixShapeExactlyOnce(t *testing.T) {
	var (
		config  = DefaultConfig[F]()
		program = executor.NewProgram(nil)
		record  = executor.NewRecord(program)
	)
	//
	require.NoError(t, config.FixPreprocessedShape(program))
	assert.ErrorIs(t, config.FixPreprocessedShape(program), executor.ErrShapeAlreadyFixed)
	//
	require.NoError(t, config.FixShape(record))
	assert.ErrorIs(t, config.FixShape(record), executor.ErrShapeAlreadyFixed)
}

func TestUnusedChipsDropped(t *testing.T) {
	var (
		config  = DefaultConfig[F]()
		program = executor.NewProgram(nil)
		record  = executor.NewRecord(program)
	)
	// No events at all, hence no core chip appears in the shape.
	require.NoError(t, config.FixPreprocessedShape(program))
	require.NoError(t, config.FixShape(record))
	//
	shape, ok := record.Shape()
	require.True(t, ok)
	assert.Equal(t, uint(0), shape.Len())
}

func TestNoAllowedHeight(t *testing.T) {
	var (
		mach    = fakeMachine("A", 1<<17)
		config  = mustConfig(t, mach, []AllowedHeights{{"A", []uint{4, 10, 16}}})
		program = executor.NewProgram(nil)
		record  = executor.NewRecord(program)
	)
	//
	require.NoError(t, config.FixPreprocessedShape(program))
	//
	err := config.FixShape(record)
	require.ErrorIs(t, err, ErrNoAllowedHeight)
	// Diagnostic must identify the offending chip and its height.
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "131072")
}

// Every selected height is the smallest allowed height which accommodates the
// natural height.
func TestSelectedHeightMinimal(t *testing.T) {
	var (
		parameters = gopter.DefaultTestParameters()
		allowed    = []uint{4, 10, 16}
	)
	//
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)
	//
	properties.Property("smallest accommodating height selected", prop.ForAll(
		func(natural uint32) bool {
			var (
				mach    = fakeMachine("A", uint(natural))
				config  = mustConfigUnchecked(mach, []AllowedHeights{{"A", allowed}})
				program = executor.NewProgram(nil)
				record  = executor.NewRecord(program)
			)
			//
			if err := config.FixPreprocessedShape(program); err != nil {
				return false
			} else if err := config.FixShape(record); err != nil {
				return false
			}
			//
			shape, _ := record.Shape()
			logHeight, ok := shape.LogHeight("A")
			//
			if !ok {
				return false
			} else if uint(natural) > 1<<logHeight {
				return false
			}
			// No smaller allowed height may fit.
			for _, candidate := range allowed {
				if candidate < logHeight && uint(natural) <= 1<<candidate {
					return false
				}
			}
			//
			return true
		},
		gen.UInt32Range(1, 1<<16),
	))
	//
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAllowedShapesComplete(t *testing.T) {
	var (
		mach   = fakeMachine2("A", "B")
		config = mustConfig(t, mach, []AllowedHeights{
			{"A", []uint{16, 20}},
			{"B", []uint{18}},
		})
	)
	// (absent + 2) * (absent + 1) shapes.
	require.Equal(t, uint64(6), config.NumShapes())
	//
	var (
		shapes   = iter.Take(config.AllowedShapes(), 10)
		got      = make([]string, len(shapes))
		expected = []string{
			"{}",
			"{A: 16}",
			"{A: 20}",
			"{B: 18}",
			"{A: 16, B: 18}",
			"{A: 20, B: 18}",
		}
	)
	//
	for i, shape := range shapes {
		got[i] = shape.String()
	}
	//
	slices.Sort(got)
	slices.Sort(expected)
	//
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected shapes (-want +got):\n%s", diff)
	}
}

// Enumeration must never materialise the full cross-product.
func TestAllowedShapesLazy(t *testing.T) {
	heights := make([]uint, 30)
	//
	for i := range heights {
		heights[i] = uint(i + 1)
	}
	// Four chips with 31 states each gives roughly a million shapes; pulling
	// five must be instantaneous.
	config := mustConfig(t, machine.Core[F](), []AllowedHeights{
		{"Program", heights}, {"ByteRange", heights}, {"Add", heights}, {"FieldLt", heights},
	})
	//
	require.Equal(t, uint64(31*31*31*31), config.NumShapes())
	assert.Len(t, iter.Take(config.AllowedShapes(), 5), 5)
}

func TestNumShapesMatchesEnumeration(t *testing.T) {
	config := mustConfig(t, fakeMachine2("A", "B"), []AllowedHeights{
		{"A", []uint{4, 10, 16}},
		{"B", []uint{8, 12}},
	})
	//
	assert.Equal(t, config.NumShapes(), uint64(iter.Count(config.AllowedShapes())))
}

// ===================================================================
// Helpers
// ===================================================================

// fakeChip is a minimal event-driven chip with a predetermined natural
// height, for exercising shape selection in isolation.
type fakeChip struct {
	name   string
	height uint
}

// Name implementation for the Chip interface.
func (p fakeChip) Name() string { return p.name }

// Width implementation for the Chip interface.
func (p fakeChip) Width() uint { return 1 }

// NaturalHeight implementation for the Chip interface.
func (p fakeChip) NaturalHeight(*executor.Record) uint { return p.height }

// GenerateTrace implementation for the Chip interface.
func (p fakeChip) GenerateTrace(*executor.Record) (trace.RowMajorTrace[F], error) {
	return trace.RowMajorTrace[F]{}, nil
}

// Eval implementation for the Chip interface.
func (p fakeChip) Eval(air.Builder[F]) {}

func fakeMachine(name string, height uint) machine.Machine[F] {
	return machine.NewMachine([]air.Chip[F]{fakeChip{name, height}})
}

func fakeMachine2(name1 string, name2 string) machine.Machine[F] {
	return machine.NewMachine([]air.Chip[F]{fakeChip{name1, 1}, fakeChip{name2, 1}})
}

func mustConfig(t *testing.T, mach machine.Machine[F], allowed []AllowedHeights) *Config[F] {
	config, err := NewConfig(mach, allowed)
	require.NoError(t, err)
	//
	return config
}

func mustConfigUnchecked(mach machine.Machine[F], allowed []AllowedHeights) *Config[F] {
	config, err := NewConfig(mach, allowed)
	//
	if err != nil {
		panic(err)
	}
	//
	return config
}

func assertLogHeight(t *testing.T, shape executor.Shape, name string, expected uint) {
	logHeight, ok := shape.LogHeight(name)
	require.True(t, ok, "chip %s missing from shape %s", name, shape.String())
	assert.Equal(t, expected, logHeight, "chip %s", name)
}
