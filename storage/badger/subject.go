package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// UpsertSubject creates or returns the subject for a code.
func (g *Gateway) UpsertSubject(ctx context.Context, code, name string) (*core.Subject, error) {
	var subject *core.Subject
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		subject, err = upsertSubjectTx(tx, code, name, time.Now().UTC())
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// GetSubject retrieves a single subject by ID.
func (g *Gateway) GetSubject(ctx context.Context, id core.ID) (*core.Subject, error) {
	var subject *core.Subject
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		subject, err = readSubject(tx, makeSubjectKey(id))
		if err != nil {
			return err
		}
		if subject == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// GetSubjectByCode retrieves a subject by exact code, falling back to the
// code without its trailing stream letter.
func (g *Gateway) GetSubjectByCode(ctx context.Context, code string) (*core.Subject, error) {
	subject, err := g.getSubjectByExactCode(code)
	if err == nil {
		return subject, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	if base := stripTrailingStreamLetter(code); base != "" {
		return g.getSubjectByExactCode(base)
	}
	return nil, storage.ErrNotFound
}

// SetSubjectCredits attaches a credit value to an existing subject.
func (g *Gateway) SetSubjectCredits(ctx context.Context, code string, credits int) error {
	return g.backend.WithTx(func(tx *badger.Txn) error {
		id, err := subjectIDByCode(tx, code)
		if err != nil {
			return err
		}

		key := makeSubjectKey(id)
		subject, err := readSubject(tx, key)
		if err != nil {
			return err
		}
		if subject == nil {
			return storage.ErrNotFound
		}

		subject.Credits = &credits
		if err := tx.Set(key, storage.MarshalSubject(subject)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (g *Gateway) getSubjectByExactCode(code string) (*core.Subject, error) {
	var subject *core.Subject
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		id, err := subjectIDByCode(tx, code)
		if err != nil {
			return err
		}

		subject, err = readSubject(tx, makeSubjectKey(id))
		if err != nil {
			return err
		}
		if subject == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// subjectIDByCode resolves a code to an ID via the code index.
func subjectIDByCode(tx *badger.Txn, code string) (core.ID, error) {
	item, err := tx.Get(makeSubjectCodeKey(code))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// stripTrailingStreamLetter removes the stream suffix from codes like
// BPHYS102P. Returns "" when the code carries no such suffix.
func stripTrailingStreamLetter(code string) string {
	n := len(code)
	if n < 2 {
		return ""
	}
	last, prev := code[n-1], code[n-2]
	if last >= 'A' && last <= 'Z' && prev >= '0' && prev <= '9' {
		return code[:n-1]
	}
	return ""
}

// upsertSubjectTx performs the subject upsert inside an open write
// transaction. An unknown code whose trailing stream letter hides an
// existing base code resolves to that base subject instead of creating a
// duplicate. An existing subject's name is upgraded only while it is a
// placeholder (empty or the code itself); credits are never touched here.
func upsertSubjectTx(tx *badger.Txn, code, name string, now time.Time) (*core.Subject, error) {
	id := core.IDFromContent(code)
	key := makeSubjectKey(id)

	subject, err := readSubject(tx, key)
	if err != nil {
		return nil, err
	}

	if subject == nil {
		if base := stripTrailingStreamLetter(code); base != "" {
			baseKey := makeSubjectKey(core.IDFromContent(base))
			baseSubject, err := readSubject(tx, baseKey)
			if err != nil {
				return nil, err
			}
			if baseSubject != nil {
				subject, key = baseSubject, baseKey
			}
		}
	}

	if subject == nil {
		if name == "" {
			name = code
		}
		subject = &core.Subject{
			Id:         id,
			Code:       code,
			Name:       name,
			InsertedAt: now,
		}
		if err := tx.Set(key, storage.MarshalSubject(subject)); err != nil {
			return nil, err
		}
		if err := tx.Set(makeSubjectCodeKey(code), storage.MarshalID(id)); err != nil {
			return nil, err
		}
		return subject, nil
	}

	if (subject.Name == "" || subject.Name == subject.Code) && name != "" && name != subject.Name {
		subject.Name = name
		if err := tx.Set(key, storage.MarshalSubject(subject)); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

// readSubject reads a subject from the transaction. Missing keys yield
// (nil, nil).
func readSubject(tx *badger.Txn, key []byte) (*core.Subject, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var subject *core.Subject
	err = item.Value(func(val []byte) error {
		var err error
		subject, err = storage.UnmarshalSubject(val)
		return err
	})
	return subject, err
}
