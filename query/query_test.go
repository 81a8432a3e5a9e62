package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
	"github.com/vtu-tools/automarks/storage/badger"
)

func seedGateway(t *testing.T) storage.Gateway {
	t.Helper()
	gw, backend, err := badger.NewMemoryGateway()
	require.NoError(t, err)
	t.Cleanup(func() {
		gw.Close()
		backend.Close()
	})

	total1, total2, total3 := 87, 34, 72
	docs := []storage.PendingResult{
		{
			Extracted: &core.ExtractedResult{
				USN:         "1SV22AD005",
				StudentName: "MOHIT KUMAR",
				Semester:    4,
				ExamMonth:   "December",
				ExamYear:    2024,
				Subjects: []core.SubjectEntry{
					{Code: "BAD401", Name: "NEURAL MODELS", TotalMarks: &total1, Status: core.StatusPass},
					{Code: "BAD402", Name: "MODERN DATABASES", TotalMarks: &total2, Status: core.StatusFail},
				},
			},
			Cohort:  "2022-2026",
			Branch:  "AD",
			BatchID: "batch-1",
		},
		{
			Extracted: &core.ExtractedResult{
				USN:         "1RV23CS117",
				StudentName: "ANITA RAO",
				Semester:    1,
				ExamMonth:   "June",
				ExamYear:    2024,
				Subjects: []core.SubjectEntry{
					{Code: "BPHYS102", Name: "PHYSICS FOR CSE STREAM", TotalMarks: &total3, Status: core.StatusPass},
				},
			},
			Cohort:  "2023-2027",
			Branch:  "CS",
			BatchID: "batch-1",
		},
	}
	require.NoError(t, gw.SaveBatch(context.Background(), docs))
	return gw
}

func TestResults_NoFilter(t *testing.T) {
	svc := NewService(seedGateway(t))

	rows, err := svc.Results(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Sorted by USN, semester, subject code.
	assert.Equal(t, "1RV23CS117", rows[0].USN)
	assert.Equal(t, "BAD401", rows[1].SubjectCode)
	assert.Equal(t, "BAD402", rows[2].SubjectCode)
	assert.Equal(t, "MOHIT KUMAR", rows[1].StudentName)
	assert.Equal(t, "December", rows[1].ExamMonth)
}

func TestResults_ByUSN(t *testing.T) {
	svc := NewService(seedGateway(t))

	rows, err := svc.Results(context.Background(), Filter{USN: "1sv22ad005"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "1SV22AD005", row.USN)
	}

	// Unknown seat number is an empty listing, not an error.
	rows, err = svc.Results(context.Background(), Filter{USN: "1XX00XX000"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestResults_ByStatusLegacyForm(t *testing.T) {
	svc := NewService(seedGateway(t))

	short, err := svc.Results(context.Background(), Filter{Status: "F"})
	require.NoError(t, err)
	require.Len(t, short, 1)
	assert.Equal(t, "BAD402", short[0].SubjectCode)

	// Long-form value matches the same stored rows.
	long, err := svc.Results(context.Background(), Filter{Status: "FAIL"})
	require.NoError(t, err)
	assert.Equal(t, short, long)
}

func TestResults_BySemesterCohortBranch(t *testing.T) {
	svc := NewService(seedGateway(t))

	rows, err := svc.Results(context.Background(), Filter{Semester: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BPHYS102", rows[0].SubjectCode)

	rows, err = svc.Results(context.Background(), Filter{Cohort: "2022-2026", Branch: "AD"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Results(context.Background(), Filter{ExamYear: 2024, ExamMonth: "june"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1RV23CS117", rows[0].USN)
}

func TestResults_BySubjectCodeFallback(t *testing.T) {
	svc := NewService(seedGateway(t))

	// The stream-letter variant resolves to the stored base code.
	rows, err := svc.Results(context.Background(), Filter{SubjectCode: "BPHYS102P"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BPHYS102", rows[0].SubjectCode)

	rows, err = svc.Results(context.Background(), Filter{SubjectCode: "BNONE000"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestResults_Pagination(t *testing.T) {
	svc := NewService(seedGateway(t))

	rows, err := svc.Results(context.Background(), Filter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BAD401", rows[0].SubjectCode)

	rows, err = svc.Results(context.Background(), Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
