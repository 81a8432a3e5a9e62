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


package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtu-tools/automarks/core"
)

func TestSubjectCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bad401", "BAD401"},
		{" BAD401 ", "BAD401"},
		{"BAD-401", "BAD401"},
		{"BESCK104D", "BESCK104D"},
		{"***", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SubjectCode(tt.in), "code %q", tt.in)
	}
}

func TestSubjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MODERN   DATABASE\tPRACTICE", "MODERN DATABASE PRACTICE"},
		{"DINTRODUCTION TO C", "INTRODUCTION TO C"},
		{"XENGINEERING MECHANICS", "ENGINEERING MECHANICS"},
		// Short strings never trigger the repair.
		{"XDATA", "XDATA"},
		// A legitimate name starting with a title word is untouched.
		{"PHYSICS FOR CSE STREAM", "PHYSICS FOR CSE STREAM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SubjectName(tt.in), "name %q", tt.in)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		in   string
		want core.StatusCode
	}{
		{"P", core.StatusPass},
		{"p", core.StatusPass},
		{"PASS", core.StatusPass},
		{"FAIL", core.StatusFail},
		{"ABSENT", core.StatusAbsent},
		{"WITHHELD", core.StatusWithheld},
		{"NOT_ELIGIBLE_X", core.StatusNotEligible},
		{"NOT ELIGIBLE NE", core.StatusNotEnrolled},
		{"NE", core.StatusNotEnrolled},
		// Unrecognized values pass through for audit, uppercased.
		{"pending", core.StatusCode("PENDING")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.in), "status %q", tt.in)
	}
	assert.False(t, Status("pending").Known())
}

func TestBranchFromUSN(t *testing.T) {
	tests := []struct {
		usn  string
		want string
	}{
		{"1SV22AD005", "AD"},
		{"1rv23cs117", "CS"},
		{"4MC21ECE42", ""},
		{"not-a-usn", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BranchFromUSN(tt.usn), "usn %q", tt.usn)
	}
}

func TestEntryDropsEmptyCode(t *testing.T) {
	_, ok := Entry(core.SubjectEntry{Code: "???", Name: "MYSTERY", Status: core.StatusPass})
	assert.False(t, ok)
}

func TestEntryNameFallsBackToCode(t *testing.T) {
	entry, ok := Entry(core.SubjectEntry{Code: "bad401", Name: "  ", Status: "PASS"})
	require.True(t, ok)
	assert.Equal(t, "BAD401", entry.Code)
	assert.Equal(t, "BAD401", entry.Name)
	assert.Equal(t, core.StatusPass, entry.Status)
}

func TestResultDropsUnnormalizableSubjects(t *testing.T) {
	total := 87
	in := &core.ExtractedResult{
		USN:         " 1sv22ad005 ",
		StudentName: " MOHIT KUMAR ",
		Semester:    4,
		ExamMonth:   "December",
		ExamYear:    2024,
		Subjects: []core.SubjectEntry{
			{Code: "BAD401", Name: "NEURAL MODELS", TotalMarks: &total, Status: "P"},
			{Code: "---", Name: "GARBAGE", Status: "P"},
		},
	}

	out := Result(in)
	assert.Equal(t, "1SV22AD005", out.USN)
	assert.Equal(t, "MOHIT KUMAR", out.StudentName)
	require.Len(t, out.Subjects, 1)
	assert.Equal(t, "BAD401", out.Subjects[0].Code)

	// Input untouched.
	assert.Len(t, in.Subjects, 2)
	assert.Equal(t, " 1sv22ad005 ", in.USN)
}
