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
	"github.com/consensys/go-zkvm/pkg/trace"
)

// RowChecker is a concrete Builder which evaluates every asserted identity
// immediately against a single physical row, recording any violation.  The
// proving backend turns the same assertions into polynomial identities
// instead; this checker exists for testing chips and validating traces
// without a backend.
type RowChecker[F field.Element[F]] struct {
	// Current row of the main trace.
	row []F
	// Current row of the preprocessed trace (if any).
	preprocessed []F
	// Descriptions of any violated assertions.
	failures []string
	// Tuples sent on some bus.
	sends []Interaction[F]
	// Tuples received on some bus.
	receives []Interaction[F]
}

// NewRowChecker constructs a checker for a given physical row.
func NewRowChecker[F field.Element[F]](row []F, preprocessed []F) *RowChecker[F] {
	return &RowChecker[F]{row: row, preprocessed: preprocessed}
}

// Row implementation for the Builder interface.
func (p *RowChecker[F]) Row() []F {
	return p.row
}

// Preprocessed implementation for the Builder interface.
func (p *RowChecker[F]) Preprocessed() []F {
	return p.preprocessed
}

// Constant implementation for the Builder interface.
func (p *RowChecker[F]) Constant(val uint64) F {
	return field.Uint64[F](val)
}

// AssertZero implementation for the Builder interface.
func (p *RowChecker[F]) AssertZero(val F) {
	if !val.IsZero() {
		p.failures = append(p.failures, fmt.Sprintf("expected zero, got %s", val.String()))
	}
}

// AssertEqual implementation for the Builder interface.
func (p *RowChecker[F]) AssertEqual(lhs F, rhs F) {
	if lhs.Cmp(rhs) != 0 {
		p.failures = append(p.failures, fmt.Sprintf("expected %s == %s", lhs.String(), rhs.String()))
	}
}

// AssertBool implementation for the Builder interface.
func (p *RowChecker[F]) AssertBool(val F) {
	// x * (x - 1) == 0
	p.AssertZero(val.Mul(val.Sub(field.One[F]())))
}

// When implementation for the Builder interface.
func (p *RowChecker[F]) When(condition F) Builder[F] {
	return &gatedBuilder[F]{p, condition}
}

// Send implementation for the Builder interface.
func (p *RowChecker[F]) Send(bus Bus, values []F, multiplicity F) {
	p.sends = append(p.sends, Interaction[F]{bus, values, multiplicity})
}

// Receive implementation for the Builder interface.
func (p *RowChecker[F]) Receive(bus Bus, values []F, multiplicity F) {
	p.receives = append(p.receives, Interaction[F]{bus, values, multiplicity})
}

// Failures returns descriptions of all violated assertions.
func (p *RowChecker[F]) Failures() []string {
	return p.failures
}

// Sends returns all tuples sent whilst evaluating this row.
func (p *RowChecker[F]) Sends() []Interaction[F] {
	return p.sends
}

// Receives returns all tuples received whilst evaluating this row.
func (p *RowChecker[F]) Receives() []Interaction[F] {
	return p.receives
}

// gatedBuilder is a view of another builder in which every assertion is
// multiplied through by a condition.
type gatedBuilder[F field.Element[F]] struct {
	parent    Builder[F]
	condition F
}

// Row implementation for the Builder interface.
func (p *gatedBuilder[F]) Row() []F {
	return p.parent.Row()
}

// Preprocessed implementation for the Builder interface.
func (p *gatedBuilder[F]) Preprocessed() []F {
	return p.parent.Preprocessed()
}

// Constant implementation for the Builder interface.
func (p *gatedBuilder[F]) Constant(val uint64) F {
	return p.parent.Constant(val)
}

// AssertZero implementation for the Builder interface.
func (p *gatedBuilder[F]) AssertZero(val F) {
	p.parent.AssertZero(p.condition.Mul(val))
}

// AssertEqual implementation for the Builder interface.
func (p *gatedBuilder[F]) AssertEqual(lhs F, rhs F) {
	p.parent.AssertZero(p.condition.Mul(lhs.Sub(rhs)))
}

// AssertBool implementation for the Builder interface.
func (p *gatedBuilder[F]) AssertBool(val F) {
	one := field.One[F]()
	p.parent.AssertZero(p.condition.Mul(val.Mul(val.Sub(one))))
}

// When implementation for the Builder interface.
func (p *gatedBuilder[F]) When(condition F) Builder[F] {
	return &gatedBuilder[F]{p.parent, p.condition.Mul(condition)}
}

// Send implementation for the Builder interface.
func (p *gatedBuilder[F]) Send(bus Bus, values []F, multiplicity F) {
	p.parent.Send(bus, values, p.condition.Mul(multiplicity))
}

// Receive implementation for the Builder interface.
func (p *gatedBuilder[F]) Receive(bus Bus, values []F, multiplicity F) {
	p.parent.Receive(bus, values, p.condition.Mul(multiplicity))
}

// CheckTrace evaluates a chip's constraints against every physical row of a
// generated trace, returning one error per violated assertion.  Constraint
// violations are normally detected by the backend's low-degree test; this
// direct evaluation serves tests and diagnostics.
func CheckTrace[F field.Element[F]](chip Chip[F], main trace.RowMajorTrace[F], preprocessed trace.RowMajorTrace[F]) []error {
	var errs []error
	//
	if preprocessed.Width() != 0 && preprocessed.Height() != main.Height() {
		return []error{fmt.Errorf("chip %s: preprocessed height %d does not match main height %d",
			chip.Name(), preprocessed.Height(), main.Height())}
	}
	//
	for row := uint(0); row < main.Height(); row++ {
		var preprocessedRow []F
		//
		if preprocessed.Width() != 0 {
			preprocessedRow = preprocessed.Row(row)
		}
		//
		checker := NewRowChecker(main.Row(row), preprocessedRow)
		chip.Eval(checker)
		//
		for _, failure := range checker.Failures() {
			errs = append(errs, fmt.Errorf("chip %s, row %d: %s", chip.Name(), row, failure))
		}
	}
	//
	return errs
}
