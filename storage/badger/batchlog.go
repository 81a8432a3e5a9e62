package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// PutBatchLog stores or replaces the log for a batch.
func (g *Gateway) PutBatchLog(ctx context.Context, log *core.BatchLog) error {
	return g.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeBatchLogKey(log.BatchId), storage.MarshalBatchLog(log)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetBatchLog retrieves the log for a batch ID.
func (g *Gateway) GetBatchLog(ctx context.Context, batchID string) (*core.BatchLog, error) {
	var log *core.BatchLog
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBatchLogKey(batchID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			log, err = storage.UnmarshalBatchLog(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return log, nil
}
