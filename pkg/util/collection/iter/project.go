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

type projectEnumerator[S, T any] struct {
	iter       Enumerator[S]
	projection func(S) T
}

// Project constructs an enumerator that is the projection of another under a
// given mapping.  The projection is applied lazily, as elements are pulled.
func Project[S, T any](iter Enumerator[S], projection func(S) T) Enumerator[T] {
	return &projectEnumerator[S, T]{iter, projection}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *projectEnumerator[S, T]) HasNext() bool {
	return p.iter.HasNext()
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *projectEnumerator[S, T]) Next() T {
	return p.projection(p.iter.Next())
}

// Take collects (up to) the first n items of an enumerator into an array.
// This mutates the enumerator.
func Take[T any](iter Enumerator[T], n uint) []T {
	items := make([]T, 0, n)
	//
	for uint(len(items)) < n && iter.HasNext() {
		items = append(items, iter.Next())
	}
	//
	return items
}

// Count returns the number of items left in an enumerator.  This drains the
// enumerator.
func Count[T any](iter Enumerator[T]) uint {
	count := uint(0)
	//
	for iter.HasNext() {
		iter.Next()
		count++
	}
	//
	return count
}
