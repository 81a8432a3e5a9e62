package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtu-tools/automarks/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("1SV22AD005")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalStudent(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	student := &core.Student{
		Id:         core.IDFromContent("1SV22AD005"),
		USN:        "1SV22AD005",
		Name:       "MOHIT KUMAR",
		Cohort:     "2022-2026",
		Branch:     "AD",
		InsertedAt: now,
		UpdatedAt:  now,
	}

	decoded, err := UnmarshalStudent(MarshalStudent(student))
	require.NoError(t, err)
	assert.Equal(t, student, decoded)
}

func TestMarshalUnmarshalTerm(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	term := &core.Term{
		Id:         core.IDFromContent(core.TermTuple(4, "December", 2024)),
		Semester:   4,
		ExamMonth:  "December",
		ExamYear:   2024,
		InsertedAt: now,
	}

	decoded, err := UnmarshalTerm(MarshalTerm(term))
	require.NoError(t, err)
	assert.Equal(t, term, decoded)
}

func TestMarshalUnmarshalSubject(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	credits := 4

	tests := []struct {
		name    string
		subject *core.Subject
	}{
		{
			name: "without credits",
			subject: &core.Subject{
				Id:         core.IDFromContent("BAD401"),
				Code:       "BAD401",
				Name:       "ARTIFICIAL NEURAL NETWORK MODELS",
				InsertedAt: now,
			},
		},
		{
			name: "with credits",
			subject: &core.Subject{
				Id:         core.IDFromContent("BAD402"),
				Code:       "BAD402",
				Name:       "MODERN DATABASE PRACTICE",
				Credits:    &credits,
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalSubject(MarshalSubject(tt.subject))
			require.NoError(t, err)
			assert.Equal(t, tt.subject, decoded)
		})
	}
}

func TestMarshalUnmarshalResult(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	announced := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	internal, external, total := 32, 55, 87

	result := &core.Result{
		Id:            core.ID(7),
		StudentId:     core.IDFromContent("1SV22AD005"),
		TermId:        core.ID(2),
		SubjectId:     core.ID(3),
		InternalMarks: &internal,
		ExternalMarks: &external,
		TotalMarks:    &total,
		Status:        core.StatusPass,
		AnnouncedDate: announced,
		UploadBatchId: "9f1c2c1e-0000-4000-8000-000000000000",
		InsertedAt:    now,
		UpdatedAt:     now,
	}

	decoded, err := UnmarshalResult(MarshalResult(result))
	require.NoError(t, err)
	assert.Equal(t, result, decoded)
}

func TestMarshalUnmarshalBatchLog(t *testing.T) {
	started := time.Now().UTC().Truncate(time.Microsecond)

	log := &core.BatchLog{
		BatchId:          "9f1c2c1e-0000-4000-8000-000000000000",
		TotalFiles:       12,
		ProcessedFiles:   10,
		FailedFiles:      2,
		CurrentFile:      "1SV22AD011.txt",
		CurrentFileIndex: 12,
		Status:           core.BatchCompleted,
		Errors:           []string{"1SV22AD003.txt: semester not found in document"},
		StartedAt:        started,
		CompletedAt:      started.Add(3 * time.Second),
	}

	decoded, err := UnmarshalBatchLog(MarshalBatchLog(log))
	require.NoError(t, err)
	assert.Equal(t, log, decoded)
}
