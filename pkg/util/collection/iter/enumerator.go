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
package iter

// Enumerator abstracts the process of iterating over a sequence of elements.
// Enumerators are pull-based: elements are only produced as they are
// requested, meaning combinatorially large sequences can be consumed
// incrementally without ever being materialised.
type Enumerator[T any] interface {
	// Check whether or not there are any items remaining to visit.
	HasNext() bool

	// Get the next item, and advanced the iterator.
	Next() T
}

// EnumerateProduct returns an enumerator over the cross-product of the given
// domains, where the ith position of every yielded array is drawn from the ith
// domain.  For example, if domains were [[A,B],[C]] then this yields
// [[A,C],[B,C]].  An empty domain makes the entire product empty.
func EnumerateProduct[E any](domains [][]E) Enumerator[[]E] {
	counters := make([]uint, len(domains))
	// Check for an empty domain
	for _, domain := range domains {
		if len(domain) == 0 {
			return &productEnumerator[E]{nil, domains}
		}
	}
	//
	return &productEnumerator[E]{counters, domains}
}

type productEnumerator[E any] struct {
	counters []uint
	domains  [][]E
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *productEnumerator[E]) HasNext() bool {
	return p.counters != nil
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *productEnumerator[E]) Next() []E {
	rs := make([]E, len(p.counters))
	// Copy over elements
	for i := 0; i < len(rs); i++ {
		rs[i] = p.domains[i][p.counters[i]]
	}
	//
	carry := true
	// Increment counters
	for i := 0; i < len(p.counters); i++ {
		ithp1 := p.counters[i] + 1
		// Check for overflow
		if ithp1 != uint(len(p.domains[i])) {
			// No overflow
			p.counters[i] = ithp1
			carry = false
			// Done incrementing
			break
		}
		// overflow
		p.counters[i] = 0
	}
	// Check whether finished
	if carry {
		// Yes, signal end of enumeration
		p.counters = nil
	}
	//
	return rs
}
