package ingest

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/vtu-tools/automarks/core"
)

// FileError is one failed document within a batch.
type FileError struct {
	File    string `json:"filename"`
	Message string `json:"error"`
}

// Event is one progress update for a batch. Events are emitted when
// processing starts, after every document, and once more when the batch
// reaches a terminal state.
type Event struct {
	BatchID          string      `json:"batch_id"`
	CurrentFile      string      `json:"current_file,omitempty"`
	CurrentFileIndex int         `json:"current_file_index"`
	Processed        int         `json:"processed"`
	Failed           int         `json:"failed"`
	Total            int         `json:"total"`
	Percentage       int         `json:"percentage"`
	Status           string      `json:"status"`
	FailedFiles      []FileError `json:"failed_files,omitempty"`
	Error            string      `json:"error,omitempty"`
	Summary          string      `json:"summary,omitempty"`
}

// Sink receives progress events. Publish must be safe for concurrent use;
// a sink error is logged by the coordinator but never fails the batch.
type Sink interface {
	Publish(event Event) error
}

// WriterSink publishes events as JSON lines to a writer, typically stdout
// for CLI consumers tailing batch progress.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ Sink = (*WriterSink)(nil)

// NewWriterSink creates a sink writing one JSON object per line.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Publish writes the event as a JSON line.
func (s *WriterSink) Publish(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(event)
}

// nopSink discards events. Used when no sink is configured.
type nopSink struct{}

func (nopSink) Publish(Event) error { return nil }

// newEvent builds an event from a batch log snapshot.
func newEvent(log *core.BatchLog, failed []FileError, errMsg, summary string) Event {
	return Event{
		BatchID:          log.BatchId,
		CurrentFile:      log.CurrentFile,
		CurrentFileIndex: log.CurrentFileIndex,
		Processed:        log.ProcessedFiles,
		Failed:           log.FailedFiles,
		Total:            log.TotalFiles,
		Percentage:       log.Percentage(),
		Status:           log.Status.String(),
		FailedFiles:      failed,
		Error:            errMsg,
		Summary:          summary,
	}
}
