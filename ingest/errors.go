package ingest

import "errors"

var (
	// ErrGatewayRequired is returned when a storage gateway is not provided.
	ErrGatewayRequired = errors.New("storage gateway required")

	// ErrBatchNotFound is returned when no batch exists for the given ID.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrNoFiles is returned when a batch is started with zero files.
	ErrNoFiles = errors.New("no files to ingest")
)
