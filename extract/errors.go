// Copyright 2025 VTU Tools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import "errors"

// Per-document extraction failures. All of these are recovered at the batch
// level: the document is counted as failed and the batch continues.
var (
	// ErrIdentityNotFound is returned when no seat number could be located,
	// neither via the labeled pattern nor the positional fallback.
	ErrIdentityNotFound = errors.New("seat number not found in document")

	// ErrTermNotFound is returned when no labeled semester in [1,8] could be
	// located. A document without a term never yields a partial result.
	ErrTermNotFound = errors.New("semester not found in document")

	// ErrNoSubjectsFound is returned when identity and term were found but
	// the subject scan yielded zero entries.
	ErrNoSubjectsFound = errors.New("no subjects found in document")
)
