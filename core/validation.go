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

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const cohortSpanYears = 4

var (
	cohortTagRe  = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
	usnRe        = regexp.MustCompile(`^[A-Z0-9]{10}$`)
	subjectCodeRe = regexp.MustCompile(`^[A-Z]{2,6}\d{3}[A-Z]?$`)
)

// ValidateCohortTag checks a cohort tag against the YYYY-YYYY shape with a
// fixed four-year span and returns the trimmed canonical form.
//
// "2022-2026" is valid; "2022-2025" and "202-2026" are not.
func ValidateCohortTag(tag string) (string, error) {
	normalized := strings.TrimSpace(tag)
	if normalized == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCohortTag)
	}

	m := cohortTagRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", fmt.Errorf("%w: %q does not match YYYY-YYYY", ErrInvalidCohortTag, normalized)
	}

	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+cohortSpanYears {
		return "", fmt.Errorf("%w: %q is not a %d-year span", ErrInvalidCohortTag, normalized, cohortSpanYears)
	}

	return fmt.Sprintf("%d-%d", start, end), nil
}

// ValidateExtractedResult validates a freshly extracted result against domain
// rules before it may enter the ingestion pipeline.
//
// Validation rules:
//   - USN must be 10 uppercase alphanumerics
//   - Semester must be in [1,8]
//   - Subjects must be non-empty
//   - Every subject must pass ValidateSubjectEntry
func ValidateExtractedResult(r *ExtractedResult) error {
	if r == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidResult)
	}

	if !usnRe.MatchString(r.USN) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidResult, ErrInvalidUSN, r.USN)
	}

	if r.Semester < 1 || r.Semester > 8 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidResult, ErrInvalidSemester, r.Semester)
	}

	if len(r.Subjects) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidResult, ErrNoSubjects)
	}

	for i := range r.Subjects {
		if err := ValidateSubjectEntry(&r.Subjects[i]); err != nil {
			return fmt.Errorf("%w: subject %d: %w", ErrInvalidResult, i, err)
		}
	}

	return nil
}

// ValidateSubjectEntry validates one subject entry.
//
// Validation rules:
//   - Code must match letters+3digits with an optional trailing letter
//   - TotalMarks, when present, must be in [0,200]
func ValidateSubjectEntry(e *SubjectEntry) error {
	if !subjectCodeRe.MatchString(e.Code) {
		return fmt.Errorf("%w: %q", ErrInvalidSubjectCode, e.Code)
	}

	if e.TotalMarks != nil && (*e.TotalMarks < 0 || *e.TotalMarks > 200) {
		return fmt.Errorf("%w: %d", ErrMarksOutOfRange, *e.TotalMarks)
	}

	return nil
}

// IsValidUSN reports whether s is a well-formed 10-character seat number.
func IsValidUSN(s string) bool {
	return usnRe.MatchString(s)
}
