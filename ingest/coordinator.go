package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/extract"
	"github.com/vtu-tools/automarks/normalize"
	"github.com/vtu-tools/automarks/storage"
)

// defaultFlushSize is how many successful documents accumulate before a bulk
// flush to storage.
const defaultFlushSize = 10

// Coordinator runs ingestion batches. It extracts documents concurrently on
// a worker pool, consumes outcomes in completion order, and flushes buffered
// successes to the gateway in bulk transactions.
type Coordinator struct {
	gateway         storage.Gateway
	extractor       *extract.Extractor
	pool            *ants.Pool
	sink            Sink
	errlog          *slog.Logger
	logger          *slog.Logger
	flushSize       int
	removeProcessed bool

	mu   sync.RWMutex
	jobs map[string]*job
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithSink sets the progress event sink. Default discards events.
func WithSink(sink Sink) Option {
	return func(c *Coordinator) error {
		if sink == nil {
			sink = nopSink{}
		}
		c.sink = sink
		return nil
	}
}

// WithFlushSize sets how many successful documents are buffered before a
// bulk flush. Default is 10; minimum is 1.
func WithFlushSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		c.flushSize = size
		return nil
	}
}

// WithErrorLog enables the rotating failed-document log at the given path.
func WithErrorLog(path string) Option {
	return func(c *Coordinator) error {
		c.errlog = newErrorLogger(path)
		return nil
	}
}

// WithRemoveProcessed makes the coordinator delete each source file once its
// outcome is known, whether the document parsed or not. Deletion failures are
// logged and never affect the batch.
func WithRemoveProcessed() Option {
	return func(c *Coordinator) error {
		c.removeProcessed = true
		return nil
	}
}

// NewCoordinator creates a batch ingestion coordinator.
func NewCoordinator(gateway storage.Gateway, opts ...Option) (*Coordinator, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		gateway:   gateway,
		pool:      pool,
		sink:      nopSink{},
		errlog:    newErrorLogger(""),
		logger:    slog.Default(),
		flushSize: defaultFlushSize,
		jobs:      make(map[string]*job),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	// Built after options so it picks up the final logger.
	c.extractor = extract.NewExtractor(extract.WithLogger(c.logger))

	return c, nil
}

// IngestBatch processes a set of document files as one batch for a cohort
// and blocks until the batch reaches a terminal state.
//
// The cohort tag is validated before any batch state is created: an invalid
// tag fails fast with no batch to report on. Individual document failures
// are counted and logged without stopping the batch; a storage flush failure
// aborts it.
func (c *Coordinator) IngestBatch(ctx context.Context, cohortTag string, files []string) (*core.BatchLog, error) {
	cohort, err := core.ValidateCohortTag(cohortTag)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	batchID := uuid.NewString()
	j := newJob(batchID, len(files))
	c.addJob(j)

	if err := c.gateway.PutBatchLog(ctx, j.snapshot()); err != nil {
		return nil, fmt.Errorf("persisting batch log: %w", err)
	}
	j.setStatus(core.BatchProcessing)
	if err := c.gateway.PutBatchLog(ctx, j.snapshot()); err != nil {
		return c.abortBatch(ctx, j, fmt.Errorf("persisting batch log: %w", err))
	}
	c.publish(j.event("", ""))
	c.logger.Info("batch started", "batch_id", batchID, "cohort", cohort, "files", len(files))

	type outcome struct {
		path   string
		index  int
		result *core.ExtractedResult
		err    error
	}

	// Buffered so a failed Submit can record its outcome without a reader.
	outcomes := make(chan outcome, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		path := path
		wg.Add(1)
		index := i + 1
		submitErr := c.pool.Submit(func() {
			defer wg.Done()
			result, err := c.extractFile(path)
			outcomes <- outcome{path: path, index: index, result: result, err: err}
		})
		if submitErr != nil {
			wg.Done()
			outcomes <- outcome{path: path, index: index, err: submitErr}
		}
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	buffer := make([]storage.PendingResult, 0, c.flushSize)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := c.gateway.SaveBatch(ctx, buffer); err != nil {
			return err
		}
		buffer = buffer[:0]
		return nil
	}

	var batchErr error
	for out := range outcomes {
		// The consumed file is released on every outcome, parsed or not,
		// even when the rest of the batch has already been aborted.
		if c.removeProcessed {
			if err := os.Remove(out.path); err != nil {
				c.logger.Warn("removing consumed file", "file", out.path, "err", err)
			}
		}

		if batchErr != nil {
			continue // drain remaining outcomes after an abort
		}
		if err := ctx.Err(); err != nil {
			batchErr = err
			continue
		}

		name := filepath.Base(out.path)
		j.beginFile(name, out.index)

		if out.err != nil {
			j.recordFailure(name, out.err)
			c.errlog.Error("document failed", "batch_id", batchID, "file", out.path, "err", out.err)
			c.publish(j.event(out.err.Error(), ""))
			continue
		}

		normalized := normalize.Result(out.result)
		buffer = append(buffer, storage.PendingResult{
			Extracted: normalized,
			Cohort:    cohort,
			Branch:    normalize.BranchFromUSN(normalized.USN),
			BatchID:   batchID,
		})
		j.recordSuccess()
		c.publish(j.event("", ""))

		if len(buffer) >= c.flushSize {
			if err := flush(); err != nil {
				batchErr = fmt.Errorf("flushing batch: %w", err)
			}
		}
	}

	if batchErr == nil {
		if err := flush(); err != nil {
			batchErr = fmt.Errorf("flushing batch: %w", err)
		}
	}
	if batchErr != nil {
		return c.abortBatch(ctx, j, batchErr)
	}

	j.finish()
	final := j.snapshot()
	if err := c.gateway.PutBatchLog(ctx, final); err != nil {
		return c.abortBatch(ctx, j, fmt.Errorf("persisting batch log: %w", err))
	}
	c.publish(j.event("", summarize(final)))
	c.logger.Info("batch finished",
		"batch_id", batchID,
		"status", final.Status.String(),
		"processed", final.ProcessedFiles,
		"failed", final.FailedFiles)
	return final, nil
}

// IngestOne extracts and persists a single document outside any batch.
// Returns the normalized extraction on success.
func (c *Coordinator) IngestOne(ctx context.Context, cohortTag, path string) (*core.ExtractedResult, error) {
	cohort, err := core.ValidateCohortTag(cohortTag)
	if err != nil {
		return nil, err
	}

	result, err := c.extractFile(path)
	if err != nil {
		return nil, err
	}

	normalized := normalize.Result(result)
	pending := []storage.PendingResult{{
		Extracted: normalized,
		Cohort:    cohort,
		Branch:    normalize.BranchFromUSN(normalized.USN),
		BatchID:   uuid.NewString(),
	}}
	if err := c.gateway.SaveBatch(ctx, pending); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Status returns the current state of a batch. Batches started by this
// coordinator are served from memory; older batches fall back to the
// persisted log.
func (c *Coordinator) Status(ctx context.Context, batchID string) (*core.BatchLog, error) {
	c.mu.RLock()
	j, ok := c.jobs[batchID]
	c.mu.RUnlock()
	if ok {
		return j.snapshot(), nil
	}

	log, err := c.gateway.GetBatchLog(ctx, batchID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return log, nil
}

// Release releases the worker pool. The coordinator should not be used after
// calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// abortBatch moves a batch to Failed with a batch-level cause, persists the
// final log best-effort, and emits a terminal event.
func (c *Coordinator) abortBatch(ctx context.Context, j *job, cause error) (*core.BatchLog, error) {
	j.abort(cause)
	final := j.snapshot()
	if err := c.gateway.PutBatchLog(ctx, final); err != nil {
		c.logger.Error("persisting aborted batch log", "batch_id", final.BatchId, "err", err)
	}
	c.publish(j.event(cause.Error(), ""))
	c.logger.Error("batch aborted", "batch_id", final.BatchId, "err", cause)
	return final, cause
}

func (c *Coordinator) extractFile(path string) (*core.ExtractedResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return c.extractor.Extract(string(content))
}

func (c *Coordinator) addJob(j *job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[j.log.BatchId] = j
}

func (c *Coordinator) publish(event Event) {
	if err := c.sink.Publish(event); err != nil {
		c.logger.Warn("publishing progress event", "batch_id", event.BatchID, "err", err)
	}
}

func summarize(log *core.BatchLog) string {
	return fmt.Sprintf("processed %d of %d documents (%d failed)",
		log.ProcessedFiles, log.TotalFiles, log.FailedFiles)
}
