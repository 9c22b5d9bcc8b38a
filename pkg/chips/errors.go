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
package chips

import "errors"

// ErrWitnessOverflow indicates that a value computed during trace generation
// exceeded its bit budget.  This means the record is malformed (or the range
// parameter mismatched) and the record cannot be proved; there is no partial
// or retry path.
var ErrWitnessOverflow = errors.New("witness overflow")

// ErrMalformedEvent indicates an event whose claimed result disagrees with
// the operation it records.  As with ErrWitnessOverflow, this is a fatal
// construction error reflecting a bug in event generation.
var ErrMalformedEvent = errors.New("malformed event")
