package ingest

import (
	"slices"
	"sync"
	"time"

	"github.com/vtu-tools/automarks/core"
)

// job is the in-memory state of one running batch. All mutation goes through
// the mutex; the drain loop writes, Status readers snapshot concurrently.
type job struct {
	mu     sync.RWMutex
	log    core.BatchLog
	failed []FileError
}

func newJob(batchID string, total int) *job {
	return &job{
		log: core.BatchLog{
			BatchId:    batchID,
			TotalFiles: total,
			Status:     core.BatchPending,
			StartedAt:  time.Now().UTC(),
		},
	}
}

func (j *job) setStatus(status core.BatchStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log.Status = status
}

// beginFile records the document the batch is currently working on.
func (j *job) beginFile(name string, index int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log.CurrentFile = name
	j.log.CurrentFileIndex = index
}

func (j *job) recordSuccess() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log.ProcessedFiles++
}

func (j *job) recordFailure(name string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log.FailedFiles++
	j.log.Errors = append(j.log.Errors, name+": "+err.Error())
	j.failed = append(j.failed, FileError{File: name, Message: err.Error()})
}

// finish moves the job to its terminal state: Completed when every document
// succeeded, Failed otherwise.
func (j *job) finish() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.log.FailedFiles == 0 {
		j.log.Status = core.BatchCompleted
	} else {
		j.log.Status = core.BatchFailed
	}
	j.log.CurrentFile = ""
	j.log.CurrentFileIndex = 0
	j.log.CompletedAt = time.Now().UTC()
}

// abort moves the job to Failed with a batch-level error.
func (j *job) abort(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log.Status = core.BatchFailed
	j.log.Errors = append(j.log.Errors, err.Error())
	j.log.CompletedAt = time.Now().UTC()
}

// snapshot returns a copy of the batch log safe to hand out.
func (j *job) snapshot() *core.BatchLog {
	j.mu.RLock()
	defer j.mu.RUnlock()
	log := j.log
	log.Errors = slices.Clone(j.log.Errors)
	return &log
}

// event builds a progress event from the current state.
func (j *job) event(errMsg, summary string) Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	log := j.log
	return newEvent(&log, slices.Clone(j.failed), errMsg, summary)
}
