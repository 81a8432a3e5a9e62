// Package ingest orchestrates concurrent batch ingestion of result documents.
//
// The Coordinator manages the workflow for an upload batch:
//   - extracting documents concurrently on a worker pool
//   - normalizing and buffering successful extractions
//   - flushing the buffer to storage in bulk transactions
//   - tracking per-batch progress and publishing events to a sink
//
// One failed document never fails the batch: it is counted, logged to the
// rotating error log, and processing continues with the remaining files.
package ingest
