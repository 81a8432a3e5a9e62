package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Result carries the optional fields the encoding has to get right: nil vs
// zero marks and a possibly-zero announced date.
func TestResultMUS_OptionalFields(t *testing.T) {
	external := 45
	total := 45
	announced := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	in := Result{
		Id:            IDFromContent("result"),
		StudentId:     IDFromContent("student"),
		TermId:        IDFromContent("term"),
		SubjectId:     IDFromContent("subject"),
		InternalMarks: nil, // zero-mark sentinel normalized to absent
		ExternalMarks: &external,
		TotalMarks:    &total,
		Status:        StatusPass,
		AnnouncedDate: announced,
		UploadBatchId: "3f1d9a1e-0000-0000-0000-000000000000",
		InsertedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, ResultMUS.Size(in))
	n := ResultMUS.Marshal(in, bs)
	require.Equal(t, len(bs), n)

	out, n, err := ResultMUS.Unmarshal(bs)
	require.NoError(t, err)
	require.Equal(t, len(bs), n)

	assert.Nil(t, out.InternalMarks)
	require.NotNil(t, out.ExternalMarks)
	assert.Equal(t, external, *out.ExternalMarks)
	assert.Equal(t, StatusPass, out.Status)
	assert.True(t, announced.Equal(out.AnnouncedDate))
	assert.True(t, out.UpdatedAt.IsZero(), "absent timestamp stays zero")
	assert.Equal(t, in.UploadBatchId, out.UploadBatchId)
}

func TestBatchLogMUS_Errors(t *testing.T) {
	in := BatchLog{
		BatchId:        "b-1",
		TotalFiles:     3,
		ProcessedFiles: 2,
		FailedFiles:    1,
		Status:         BatchFailed,
		Errors:         []string{"b.txt: semester not found"},
		StartedAt:      time.Now().UTC().Truncate(time.Microsecond),
		CompletedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, BatchLogMUS.Size(in))
	require.Equal(t, len(bs), BatchLogMUS.Marshal(in, bs))

	out, _, err := BatchLogMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, in.Errors, out.Errors)
	assert.Equal(t, BatchFailed, out.Status)
	assert.True(t, in.StartedAt.Equal(out.StartedAt))
}
