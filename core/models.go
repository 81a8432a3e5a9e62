package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is derived from the entity's natural key via content-based hashing,
// which makes every upsert keyed by a stable identity tuple idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// StatusCode is a result status for one subject.
// Documents carry the short codes; long-form values from older documents are
// mapped onto these by the normalizer. Unrecognized values are stored as-is
// but excluded from pass/fail aggregation.
type StatusCode string

const (
	StatusPass        StatusCode = "P"
	StatusFail        StatusCode = "F"
	StatusAbsent      StatusCode = "A"
	StatusWithheld    StatusCode = "W"
	StatusNotEligible StatusCode = "X"
	StatusNotEnrolled StatusCode = "NE"
)

// Known reports whether s is one of the closed set of status codes.
func (s StatusCode) Known() bool {
	switch s {
	case StatusPass, StatusFail, StatusAbsent, StatusWithheld, StatusNotEligible, StatusNotEnrolled:
		return true
	}
	return false
}

// SubjectEntry is one course's marks/status/date record within a document.
// Internal and external marks are nil when the document used 0 as a
// "not applicable" sentinel.
type SubjectEntry struct {
	Code          string
	Name          string
	InternalMarks *int
	ExternalMarks *int
	TotalMarks    *int
	Status        StatusCode
	AnnouncedDate time.Time // zero when the marks row carried no parseable date
}

// ExtractedResult is the structured output of extracting one document.
// It is constructed once per successfully parsed document and immutable
// thereafter.
type ExtractedResult struct {
	USN         string
	StudentName string
	Semester    int
	ExamMonth   string // e.g. "December" or "Jan/Feb"; empty when not found
	ExamYear    int    // 0 when not found
	Subjects    []SubjectEntry
}

// UnknownStudentName is the placeholder stored for documents that carry no
// labeled student name. Upserts never overwrite a real name with it, and a
// later labeled document replaces it.
const UnknownStudentName = "Unknown"

// Student is the canonical student entity, identified by seat number.
type Student struct {
	Id         ID
	USN        string
	Name       string
	Cohort     string // admission span, e.g. "2022-2026"; backfilled, never overwritten
	Branch     string // derived from the USN; backfilled, never overwritten
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Term identifies one examination cycle.
type Term struct {
	Id         ID
	Semester   int
	ExamMonth  string
	ExamYear   int
	InsertedAt time.Time
}

// Tuple returns the identity tuple of the term, used for deterministic IDs
// and index keys.
func (t *Term) Tuple() string {
	return fmt.Sprintf("(%d,%s,%d)", t.Semester, t.ExamMonth, t.ExamYear)
}

// TermTuple builds the identity tuple without constructing a Term.
func TermTuple(semester int, examMonth string, examYear int) string {
	return fmt.Sprintf("(%d,%s,%d)", semester, examMonth, examYear)
}

// Subject is the canonical subject entity, identified by normalized code.
type Subject struct {
	Id         ID
	Code       string
	Name       string
	Credits    *int // CBCS credit value; nil until assigned, never overwritten by ingestion
	InsertedAt time.Time
}

// Result is one stored (student, term, subject) row. The triple is unique;
// re-ingestion overwrites marks/status/date rather than duplicating.
type Result struct {
	Id            ID
	StudentId     ID
	TermId        ID
	SubjectId     ID
	InternalMarks *int
	ExternalMarks *int
	TotalMarks    *int
	Status        StatusCode
	AnnouncedDate time.Time
	UploadBatchId string // batch that last wrote this row
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// ResultTuple builds the identity tuple for a result row.
func ResultTuple(studentId, termId, subjectId ID) string {
	return fmt.Sprintf("(%d,%d,%d)", studentId, termId, subjectId)
}

// BatchStatus is the lifecycle state of an ingestion batch.
// Pending -> Processing -> {Completed | Failed}; terminal states never change.
type BatchStatus int

const (
	// BatchPending means the batch exists but no work has started.
	BatchPending BatchStatus = iota + 1
	// BatchProcessing means extraction tasks are running.
	BatchProcessing
	// BatchCompleted means every document was processed with no failures.
	BatchCompleted
	// BatchFailed means at least one document failed, or the batch aborted.
	BatchFailed
)

// String returns the lowercase wire form used in progress events.
func (s BatchStatus) String() string {
	switch s {
	case BatchPending:
		return "pending"
	case BatchProcessing:
		return "processing"
	case BatchCompleted:
		return "completed"
	case BatchFailed:
		return "failed"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Terminal reports whether the status is Completed or Failed.
func (s BatchStatus) Terminal() bool {
	return s == BatchCompleted || s == BatchFailed
}

// BatchLog is the persisted state of one ingestion batch.
// It is mutated exclusively by the ingestion coordinator.
type BatchLog struct {
	BatchId          string
	TotalFiles       int
	ProcessedFiles   int
	FailedFiles      int
	CurrentFile      string
	CurrentFileIndex int
	Status           BatchStatus
	Errors           []string // one "filename: message" entry per failed document
	StartedAt        time.Time
	CompletedAt      time.Time // zero until the batch reaches a terminal state
}

// Percentage returns floor((processed+failed)/total*100), or 0 for an empty
// batch.
func (b *BatchLog) Percentage() int {
	if b.TotalFiles <= 0 {
		return 0
	}
	return (b.ProcessedFiles + b.FailedFiles) * 100 / b.TotalFiles
}
