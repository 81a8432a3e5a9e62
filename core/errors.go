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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCohortTag indicates a cohort tag that is not a YYYY-YYYY
	// four-year admission span.
	ErrInvalidCohortTag = errors.New("invalid cohort tag")

	// ErrInvalidResult indicates an ExtractedResult failed validation.
	ErrInvalidResult = errors.New("invalid extracted result")

	// ErrInvalidUSN indicates a seat number that is not 10 alphanumerics.
	ErrInvalidUSN = errors.New("invalid seat number")

	// ErrInvalidSemester indicates a semester outside [1,8].
	ErrInvalidSemester = errors.New("semester must be between 1 and 8")

	// ErrNoSubjects indicates a result with an empty subject sequence.
	ErrNoSubjects = errors.New("result has no subjects")

	// ErrInvalidSubjectCode indicates a subject code that does not match the
	// letters+digits(+letter) shape.
	ErrInvalidSubjectCode = errors.New("invalid subject code")

	// ErrMarksOutOfRange indicates a total outside [0,200].
	ErrMarksOutOfRange = errors.New("total marks out of range")
)
