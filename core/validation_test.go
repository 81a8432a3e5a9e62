package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCohortTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    string
		wantErr bool
	}{
		{name: "valid span", tag: "2022-2026", want: "2022-2026"},
		{name: "valid with whitespace", tag: "  2021-2025 ", want: "2021-2025"},
		{name: "wrong span", tag: "2022-2025", wantErr: true},
		{name: "short start year", tag: "202-2026", wantErr: true},
		{name: "empty", tag: "", wantErr: true},
		{name: "not a range", tag: "2022", wantErr: true},
		{name: "letters", tag: "20AB-2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCohortTag(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCohortTag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateExtractedResult(t *testing.T) {
	valid := func() *ExtractedResult {
		total := 90
		return &ExtractedResult{
			USN:         "1SV22AD005",
			StudentName: "MOHIT KUMAR",
			Semester:    4,
			Subjects: []SubjectEntry{
				{Code: "BCS401", Name: "ANALYSIS OF ALGORITHMS", TotalMarks: &total, Status: StatusPass},
			},
		}
	}

	t.Run("valid result", func(t *testing.T) {
		require.NoError(t, ValidateExtractedResult(valid()))
	})

	t.Run("nil result", func(t *testing.T) {
		assert.ErrorIs(t, ValidateExtractedResult(nil), ErrInvalidResult)
	})

	t.Run("bad usn", func(t *testing.T) {
		r := valid()
		r.USN = "1SV22AD05" // 9 chars
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrInvalidUSN)
	})

	t.Run("semester out of range", func(t *testing.T) {
		r := valid()
		r.Semester = 9
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrInvalidSemester)

		r.Semester = 0
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrInvalidSemester)
	})

	t.Run("no subjects", func(t *testing.T) {
		r := valid()
		r.Subjects = nil
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrNoSubjects)
	})

	t.Run("bad subject code", func(t *testing.T) {
		r := valid()
		r.Subjects[0].Code = "101BCS"
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrInvalidSubjectCode)
	})

	t.Run("total marks out of range", func(t *testing.T) {
		r := valid()
		over := 201
		r.Subjects[0].TotalMarks = &over
		assert.ErrorIs(t, ValidateExtractedResult(r), ErrMarksOutOfRange)
	})
}

func TestValidateSubjectEntry_TrailingLetterCode(t *testing.T) {
	total := 100
	e := &SubjectEntry{Code: "BESCK104D", TotalMarks: &total, Status: StatusPass}
	require.NoError(t, ValidateSubjectEntry(e))
}

func TestStatusCode_Known(t *testing.T) {
	for _, s := range []StatusCode{StatusPass, StatusFail, StatusAbsent, StatusWithheld, StatusNotEligible, StatusNotEnrolled} {
		assert.True(t, s.Known(), string(s))
	}
	assert.False(t, StatusCode("PASS").Known())
	assert.False(t, StatusCode("").Known())
}

func TestBatchStatus(t *testing.T) {
	assert.Equal(t, "pending", BatchPending.String())
	assert.Equal(t, "processing", BatchProcessing.String())
	assert.Equal(t, "completed", BatchCompleted.String())
	assert.Equal(t, "failed", BatchFailed.String())

	assert.False(t, BatchProcessing.Terminal())
	assert.True(t, BatchCompleted.Terminal())
	assert.True(t, BatchFailed.Terminal())
}

func TestBatchLog_Percentage(t *testing.T) {
	b := &BatchLog{TotalFiles: 3, ProcessedFiles: 1, FailedFiles: 1}
	assert.Equal(t, 66, b.Percentage(), "percentage is floored")

	b = &BatchLog{TotalFiles: 0}
	assert.Equal(t, 0, b.Percentage())

	b = &BatchLog{TotalFiles: 4, ProcessedFiles: 4}
	assert.Equal(t, 100, b.Percentage())
}

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("1SV22AD005")
	b := IDFromContent("1SV22AD005")
	c := IDFromContent("1SV22AD006")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}
