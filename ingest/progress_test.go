package ingest

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtu-tools/automarks/core"
)

func TestWriterSink_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	require.NoError(t, sink.Publish(Event{BatchID: "b1", Status: "processing", Total: 3}))
	require.NoError(t, sink.Publish(Event{
		BatchID:     "b1",
		Status:      "failed",
		Total:       3,
		Processed:   2,
		Failed:      1,
		Percentage:  100,
		FailedFiles: []FileError{{File: "x.txt", Message: "no subjects found in document"}},
		Summary:     "processed 2 of 3 documents (1 failed)",
	}))

	dec := json.NewDecoder(&buf)

	var first Event
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "b1", first.BatchID)
	assert.Equal(t, "processing", first.Status)

	// Decoded raw so the wire keys themselves are pinned down.
	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, float64(100), second["percentage"])
	failed, ok := second["failed_files"].([]any)
	require.True(t, ok)
	require.Len(t, failed, 1)
	assert.Equal(t, map[string]any{
		"filename": "x.txt",
		"error":    "no subjects found in document",
	}, failed[0])
}

func TestNewEventFromBatchLog(t *testing.T) {
	log := &core.BatchLog{
		BatchId:          "b1",
		TotalFiles:       3,
		ProcessedFiles:   1,
		FailedFiles:      1,
		CurrentFile:      "b.txt",
		CurrentFileIndex: 2,
		Status:           core.BatchProcessing,
	}

	event := newEvent(log, []FileError{{File: "b.txt", Message: "boom"}}, "boom", "")
	assert.Equal(t, "b1", event.BatchID)
	assert.Equal(t, "b.txt", event.CurrentFile)
	assert.Equal(t, 2, event.CurrentFileIndex)
	assert.Equal(t, 66, event.Percentage) // floor of 2/3
	assert.Equal(t, "processing", event.Status)
	assert.Equal(t, "boom", event.Error)
}

func TestJobLifecycle(t *testing.T) {
	j := newJob("b1", 2)
	assert.Equal(t, core.BatchPending, j.snapshot().Status)

	j.setStatus(core.BatchProcessing)
	j.beginFile("a.txt", 1)
	j.recordSuccess()
	j.beginFile("b.txt", 2)
	j.recordFailure("b.txt", assert.AnError)

	snap := j.snapshot()
	assert.Equal(t, 1, snap.ProcessedFiles)
	assert.Equal(t, 1, snap.FailedFiles)
	assert.Equal(t, "b.txt", snap.CurrentFile)

	j.finish()
	final := j.snapshot()
	assert.Equal(t, core.BatchFailed, final.Status)
	assert.True(t, final.Status.Terminal())
	assert.False(t, final.CompletedAt.IsZero())
	assert.Empty(t, final.CurrentFile)

	// Snapshots are copies: mutating one does not touch the job.
	final.Errors[0] = "mutated"
	assert.NotEqual(t, "mutated", j.snapshot().Errors[0])
}
