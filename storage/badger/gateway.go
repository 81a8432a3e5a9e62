package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// Gateway implements storage.Gateway for BadgerDB.
type Gateway struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.Gateway = (*Gateway)(nil)

// NewGateway creates a new Gateway on an open backend.
func NewGateway(backend *Backend) (storage.Gateway, error) {
	return &Gateway{
		backend: backend,
		logger:  backend.logger,
	}, nil
}

// Close releases resources. The backend is owned by the caller.
func (g *Gateway) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (g *Gateway) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return g.backend.WithTransaction(ctx, fn)
}

// SaveBatch persists a buffer of extracted documents in one transaction.
func (g *Gateway) SaveBatch(ctx context.Context, pending []storage.PendingResult) error {
	if len(pending) == 0 {
		return nil
	}
	return g.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, p := range pending {
			if err := saveDocumentTx(tx, p, now); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// saveDocumentTx upserts one document's student, term, subjects and results
// inside an open write transaction.
func saveDocumentTx(tx *badger.Txn, p storage.PendingResult, now time.Time) error {
	student, err := upsertStudentTx(tx, p.Extracted.USN, p.Extracted.StudentName, p.Cohort, p.Branch, now)
	if err != nil {
		return err
	}

	term, err := upsertTermTx(tx, p.Extracted.Semester, p.Extracted.ExamMonth, p.Extracted.ExamYear, now)
	if err != nil {
		return err
	}

	for _, entry := range p.Extracted.Subjects {
		subject, err := upsertSubjectTx(tx, entry.Code, entry.Name, now)
		if err != nil {
			return err
		}

		result := &core.Result{
			StudentId:     student.Id,
			TermId:        term.Id,
			SubjectId:     subject.Id,
			InternalMarks: entry.InternalMarks,
			ExternalMarks: entry.ExternalMarks,
			TotalMarks:    entry.TotalMarks,
			Status:        entry.Status,
			AnnouncedDate: entry.AnnouncedDate,
			UploadBatchId: p.BatchID,
		}
		if _, err := upsertResultTx(tx, result, now); err != nil {
			return err
		}
	}
	return nil
}
