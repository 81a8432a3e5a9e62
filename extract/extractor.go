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

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/vtu-tools/automarks/core"
)

var (
	usnLabeledRe = regexp.MustCompile(`(?i)(?:university seat number|usn)\s*[:.]?\s*([A-Z0-9]{10})`)

	// Positional fallback: leading digit, 2-letter college code, 2-digit
	// admission year, 2-letter branch, 3-digit serial.
	usnShapeRe = regexp.MustCompile(`\b[1-4][A-Z]{2}\d{2}[A-Z]{2}\d{3}\b`)

	studentNameRe = regexp.MustCompile(`(?i)(?:student name|name)\s*[:.]?\s*([a-z .]+?)\s*(?:\n|semester)`)
	semesterRe    = regexp.MustCompile(`(?i)semester\s*[:.]?\s*(\d+)`)

	// "December-2024" or "Jan/Feb-2024"; en dash accepted before the year.
	examPeriodRe = regexp.MustCompile(`(?i)([a-z]+)[-/]?([a-z]+)?\s*[-–]\s*(\d{4})`)
)

// Extractor turns raw document text into an ExtractedResult.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates a field extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses one document's full text and returns its structured result.
//
// It fails with ErrIdentityNotFound, ErrTermNotFound or ErrNoSubjectsFound
// for unusable documents; any returned result has passed domain validation.
func (e *Extractor) Extract(content string) (*core.ExtractedResult, error) {
	usn, ok := findUSN(content)
	if !ok {
		return nil, fmt.Errorf("%w: content length %d", ErrIdentityNotFound, len(content))
	}

	semester, err := findSemester(content)
	if err != nil {
		return nil, err
	}

	result := &core.ExtractedResult{
		USN:         usn,
		StudentName: findStudentName(content),
		Semester:    semester,
	}
	result.ExamMonth, result.ExamYear = findExamPeriod(content)

	scanner := newSubjectScanner(e.logger)
	for _, line := range strings.Split(content, "\n") {
		scanner.feed(line)
	}
	result.Subjects = scanner.finish()

	if len(result.Subjects) == 0 {
		return nil, ErrNoSubjectsFound
	}

	if err := core.ValidateExtractedResult(result); err != nil {
		return nil, err
	}

	e.logger.Debug("extracted document", "usn", result.USN, "semester", result.Semester, "subjects", len(result.Subjects))
	return result, nil
}

// findUSN locates the seat number, first via the labeled pattern, then via
// the positional fallback shape.
func findUSN(content string) (string, bool) {
	if m := usnLabeledRe.FindStringSubmatch(content); m != nil {
		return strings.ToUpper(m[1]), true
	}
	if m := usnShapeRe.FindString(content); m != "" {
		return m, true
	}
	return "", false
}

// findStudentName locates a labeled student name; documents without one get
// a placeholder (the stored name is refreshed once a labeled document for
// the same student arrives).
func findStudentName(content string) string {
	m := studentNameRe.FindStringSubmatch(content)
	if m == nil {
		return core.UnknownStudentName
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return core.UnknownStudentName
	}
	return name
}

func findSemester(content string) (int, error) {
	m := semesterRe.FindStringSubmatch(content)
	if m == nil {
		return 0, ErrTermNotFound
	}
	semester, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrTermNotFound
	}
	if semester < 1 || semester > 8 {
		return 0, fmt.Errorf("%w: labeled value %d out of range", ErrTermNotFound, semester)
	}
	return semester, nil
}

// findExamPeriod extracts the exam month token(s) and 4-digit year.
// Absence is non-fatal; both values stay unset.
func findExamPeriod(content string) (string, int) {
	m := examPeriodRe.FindStringSubmatch(content)
	if m == nil {
		return "", 0
	}
	month := m[1]
	if m[2] != "" {
		month = m[1] + "/" + m[2]
	}
	year, _ := strconv.Atoi(m[3])
	return month, year
}
