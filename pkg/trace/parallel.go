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
	"runtime"

	"github.com/consensys/go-zkvm/pkg/field"
	"golang.org/x/sync/errgroup"
)

// FillRows generates the rows of a trace in parallel.  Each row is produced by
// an independent invocation of the given generator, writing into a disjoint
// region of a single output array.  This suits trace generation, which is
// embarrassingly parallel across (groups of) events: there is no shared
// mutable state between rows, and the only synchronisation point is
// completion.  The first generator error (if any) aborts the fill.
func FillRows[F field.Element[F]](nrows uint, width uint, generator func(row uint, out []F) error) (RowMajorTrace[F], error) {
	var (
		group errgroup.Group
		data  = make([]F, nrows*width)
	)
	//
	group.SetLimit(runtime.NumCPU())
	// Dispatch each row
	for i := uint(0); i < nrows; i++ {
		group.Go(func() error {
			return generator(i, data[i*width:(i+1)*width])
		})
	}
	// Wait for all rows to complete
	if err := group.Wait(); err != nil {
		return RowMajorTrace[F]{}, err
	}
	//
	return NewRowMajorTrace(data, width), nil
}
