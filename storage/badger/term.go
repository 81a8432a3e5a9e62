package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// UpsertTerm creates or returns the term for a (semester, month, year) tuple.
func (g *Gateway) UpsertTerm(ctx context.Context, semester int, examMonth string, examYear int) (*core.Term, error) {
	var term *core.Term
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		term, err = upsertTermTx(tx, semester, examMonth, examYear, time.Now().UTC())
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return term, nil
}

// GetTerm retrieves a single term by ID.
func (g *Gateway) GetTerm(ctx context.Context, id core.ID) (*core.Term, error) {
	var term *core.Term
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		term, err = readTerm(tx, makeTermKey(id))
		if err != nil {
			return err
		}
		if term == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return term, nil
}

// upsertTermTx performs the term upsert inside an open write transaction.
// The ID is derived from the identity tuple, so no tuple index is needed:
// lookups recompute the same ID from the same tuple.
func upsertTermTx(tx *badger.Txn, semester int, examMonth string, examYear int, now time.Time) (*core.Term, error) {
	id := core.IDFromContent(core.TermTuple(semester, examMonth, examYear))
	key := makeTermKey(id)

	term, err := readTerm(tx, key)
	if err != nil {
		return nil, err
	}
	if term != nil {
		return term, nil
	}

	term = &core.Term{
		Id:         id,
		Semester:   semester,
		ExamMonth:  examMonth,
		ExamYear:   examYear,
		InsertedAt: now,
	}
	if err := tx.Set(key, storage.MarshalTerm(term)); err != nil {
		return nil, err
	}
	return term, nil
}

// readTerm reads a term from the transaction. Missing keys yield (nil, nil).
func readTerm(tx *badger.Txn, key []byte) (*core.Term, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var term *core.Term
	err = item.Value(func(val []byte) error {
		var err error
		term, err = storage.UnmarshalTerm(val)
		return err
	})
	return term, err
}
