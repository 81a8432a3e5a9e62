package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// UpsertResult stores a result keyed by its (student, term, subject) tuple.
func (g *Gateway) UpsertResult(ctx context.Context, result *core.Result) (*core.Result, error) {
	var stored *core.Result
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		stored, err = upsertResultTx(tx, result, time.Now().UTC())
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetResult retrieves a single result by ID.
func (g *Gateway) GetResult(ctx context.Context, id core.ID) (*core.Result, error) {
	var result *core.Result
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readResult(tx, makeResultKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForEachResult streams every stored result to fn in key order.
func (g *Gateway) ForEachResult(ctx context.Context, fn func(*core.Result) error) error {
	return g.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(resultRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var result *core.Result
			err := iter.Item().Value(func(val []byte) error {
				var err error
				result, err = storage.UnmarshalResult(val)
				return err
			})
			if err != nil {
				return err
			}
			if result == nil {
				continue
			}
			if err := fn(result); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// upsertResultTx performs the result upsert inside an open write
// transaction. The identity tuple decides the ID; an existing row keeps its
// InsertedAt and has everything else overwritten by the incoming marks.
func upsertResultTx(tx *badger.Txn, result *core.Result, now time.Time) (*core.Result, error) {
	result.Id = core.IDFromContent(core.ResultTuple(result.StudentId, result.TermId, result.SubjectId))
	key := makeResultKey(result.Id)

	old, err := readResult(tx, key)
	if err != nil {
		return nil, err
	}
	if old != nil {
		result.InsertedAt = old.InsertedAt
	} else {
		result.InsertedAt = now
	}
	result.UpdatedAt = now

	if err := tx.Set(key, storage.MarshalResult(result)); err != nil {
		return nil, err
	}
	return result, nil
}

// readResult reads a result from the transaction. Missing keys yield
// (nil, nil).
func readResult(tx *badger.Txn, key []byte) (*core.Result, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var result *core.Result
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalResult(val)
		return err
	})
	return result, err
}
