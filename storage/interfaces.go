package storage

import (
	"context"

	"github.com/vtu-tools/automarks/core"
)

// PendingResult is one extracted, normalized document waiting to be
// persisted. SaveBatch turns a slice of these into upserts inside a single
// transaction.
type PendingResult struct {
	// Extracted is the normalized extraction output for one document.
	Extracted *core.ExtractedResult
	// Cohort is the canonical admission cohort tag, e.g. "2022-2026".
	Cohort string
	// Branch is the branch code derived from the seat number, may be empty.
	Branch string
	// BatchID identifies the upload batch the document arrived in.
	BatchID string
}

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// StudentRepository provides operations for managing student records.
type StudentRepository interface {
	Repository
	// UpsertStudent creates or updates a student keyed by seat number.
	// Uses content-based IDs (IDFromContent of the USN), so repeated upserts
	// for the same USN converge on one record. The stored name is refreshed
	// whenever the incoming name is a real one; cohort and branch are
	// backfilled only when the stored value is empty.
	UpsertStudent(ctx context.Context, usn, name, cohort, branch string) (*core.Student, error)

	// GetStudent retrieves a single student by ID.
	// Returns ErrNotFound if the student doesn't exist.
	GetStudent(ctx context.Context, id core.ID) (*core.Student, error)

	// GetStudentByUSN retrieves a student by seat number.
	// Returns ErrNotFound if no such student exists.
	GetStudentByUSN(ctx context.Context, usn string) (*core.Student, error)
}

// TermRepository provides operations for managing examination terms.
type TermRepository interface {
	Repository
	// UpsertTerm creates or returns the term for a (semester, month, year)
	// tuple. Uses content-based IDs (IDFromContent of the tuple).
	UpsertTerm(ctx context.Context, semester int, examMonth string, examYear int) (*core.Term, error)

	// GetTerm retrieves a single term by ID.
	// Returns ErrNotFound if the term doesn't exist.
	GetTerm(ctx context.Context, id core.ID) (*core.Term, error)
}

// SubjectRepository provides operations for managing the subject catalog.
type SubjectRepository interface {
	Repository
	// UpsertSubject creates or returns the subject for a code. An unknown
	// code whose trailing stream letter hides an existing base code
	// (BPHYS102P -> BPHYS102) resolves to the base subject rather than
	// creating a duplicate. A stored placeholder name (empty, or the code
	// itself) is upgraded when a document carries a real name; a real
	// stored name is never overwritten.
	UpsertSubject(ctx context.Context, code, name string) (*core.Subject, error)

	// GetSubject retrieves a single subject by ID.
	// Returns ErrNotFound if the subject doesn't exist.
	GetSubject(ctx context.Context, id core.ID) (*core.Subject, error)

	// GetSubjectByCode retrieves a subject by exact code, falling back to
	// the code stripped of a trailing stream letter (BPHYS102P -> BPHYS102)
	// when the exact code is absent.
	// Returns ErrNotFound if neither form exists.
	GetSubjectByCode(ctx context.Context, code string) (*core.Subject, error)

	// SetSubjectCredits attaches a credit value to an existing subject.
	// Returns ErrNotFound if the subject doesn't exist.
	SetSubjectCredits(ctx context.Context, code string, credits int) error
}

// ResultRepository provides operations for managing per-subject results.
type ResultRepository interface {
	Repository
	// UpsertResult stores a result keyed by its (student, term, subject)
	// tuple. An existing result for the same tuple is overwritten with the
	// incoming marks; its InsertedAt is preserved and UpdatedAt refreshed.
	UpsertResult(ctx context.Context, result *core.Result) (*core.Result, error)

	// GetResult retrieves a single result by ID.
	// Returns ErrNotFound if the result doesn't exist.
	GetResult(ctx context.Context, id core.ID) (*core.Result, error)

	// ForEachResult streams every stored result to fn in key order.
	// Iteration stops at the first error fn returns.
	ForEachResult(ctx context.Context, fn func(*core.Result) error) error
}

// BatchLogRepository provides operations for persisted batch progress logs.
type BatchLogRepository interface {
	Repository
	// PutBatchLog stores or replaces the log for a batch.
	PutBatchLog(ctx context.Context, log *core.BatchLog) error

	// GetBatchLog retrieves the log for a batch ID.
	// Returns ErrNotFound if no log exists for the ID.
	GetBatchLog(ctx context.Context, batchID string) (*core.BatchLog, error)
}

// Gateway is the full persistence surface: all repositories plus the bulk
// flush used by ingestion.
type Gateway interface {
	StudentRepository
	TermRepository
	SubjectRepository
	ResultRepository
	BatchLogRepository

	// SaveBatch persists a buffer of extracted documents in one
	// transaction: per document it upserts the student, the term, every
	// subject, and one result per subject entry. Either the whole buffer
	// commits or none of it does.
	SaveBatch(ctx context.Context, pending []PendingResult) error
}
