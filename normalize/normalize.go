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


// Package normalize canonicalizes extracted result records before ingestion.
//
// All functions are pure: they take extractor output and return the
// canonical form the persistence layer stores. Subjects whose code is empty
// after stripping are dropped entirely (skip-and-continue, never fatal).
package normalize

import (
	"regexp"
	"strings"

	"github.com/vtu-tools/automarks/core"
)

var (
	nonAlnumRe      = regexp.MustCompile(`[^A-Z0-9]`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)

	// Wider repair list than the extractor's: by the time records reach
	// normalization the name may have been assembled from several lines,
	// so more title words are recognized.
	strayLeadingLetterRe = regexp.MustCompile(`(?i)^[a-z](introduction|principles|fundamentals|engineering|mathematics|physics|chemistry|programming|computer|digital|data|design|analysis|networks|systems|electronics)`)

	// Seat-number shape: leading digit, 2-3 letter college code, 2-digit
	// admission year, 2-3 letter branch, remaining digits.
	usnBranchRe = regexp.MustCompile(`^\d[A-Z]{2,3}\d{2}([A-Z]{2,3})\d{3,}$`)
)

var longFormStatus = map[string]core.StatusCode{
	"PASS":            core.StatusPass,
	"FAIL":            core.StatusFail,
	"ABSENT":          core.StatusAbsent,
	"WITHHELD":        core.StatusWithheld,
	"NOT_ELIGIBLE_X":  core.StatusNotEligible,
	"NOT ELIGIBLE X":  core.StatusNotEligible,
	"NOT_ELIGIBLE_NE": core.StatusNotEnrolled,
	"NOT ELIGIBLE NE": core.StatusNotEnrolled,
}

// SubjectCode uppercases a subject code and strips every non-alphanumeric
// character. An empty result means the entry should be dropped.
func SubjectCode(code string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(code)), "")
}

// SubjectName collapses whitespace runs and repairs the stray-leading-letter
// glitch. Case is preserved.
func SubjectName(name string) string {
	n := strings.TrimSpace(whitespaceRunRe.ReplaceAllString(name, " "))
	if len(n) >= 10 && strayLeadingLetterRe.MatchString(n) {
		n = strings.TrimLeft(n[1:], " ")
	}
	return n
}

// Status maps a raw status value onto the closed code set. Short codes pass
// through; known long forms are mapped; anything else is returned unchanged
// so it can be stored for audit, and stays excluded from pass/fail logic
// because it is not a Known code.
func Status(value string) core.StatusCode {
	val := strings.ToUpper(strings.TrimSpace(value))
	if code := core.StatusCode(val); code.Known() {
		return code
	}
	if code, ok := longFormStatus[val]; ok {
		return code
	}
	return core.StatusCode(val)
}

// BranchFromUSN derives the 2-3 letter branch code embedded in a seat
// number, e.g. "1SV22AD005" -> "AD". Returns "" when the shape does not
// match.
func BranchFromUSN(usn string) string {
	m := usnBranchRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(usn)))
	if m == nil {
		return ""
	}
	return m[1]
}

// Entry canonicalizes one subject entry. ok is false when the entry must be
// dropped (empty code after stripping).
func Entry(e core.SubjectEntry) (out core.SubjectEntry, ok bool) {
	out = e
	out.Code = SubjectCode(e.Code)
	if out.Code == "" {
		return out, false
	}

	out.Name = SubjectName(e.Name)
	if out.Name == "" {
		out.Name = out.Code
	}

	out.Status = Status(string(e.Status))
	return out, true
}

// Result canonicalizes a whole extracted result: every surviving subject is
// normalized and un-normalizable subjects are dropped. The input is not
// modified.
func Result(r *core.ExtractedResult) *core.ExtractedResult {
	out := &core.ExtractedResult{
		USN:         strings.ToUpper(strings.TrimSpace(r.USN)),
		StudentName: strings.TrimSpace(r.StudentName),
		Semester:    r.Semester,
		ExamMonth:   r.ExamMonth,
		ExamYear:    r.ExamYear,
		Subjects:    make([]core.SubjectEntry, 0, len(r.Subjects)),
	}

	for _, s := range r.Subjects {
		if entry, ok := Entry(s); ok {
			out.Subjects = append(out.Subjects, entry)
		}
	}
	return out
}
