package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/storage"
)

// UpsertStudent creates or updates the student for a seat number.
func (g *Gateway) UpsertStudent(ctx context.Context, usn, name, cohort, branch string) (*core.Student, error) {
	var student *core.Student
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		student, err = upsertStudentTx(tx, usn, name, cohort, branch, time.Now().UTC())
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent retrieves a single student by ID.
func (g *Gateway) GetStudent(ctx context.Context, id core.ID) (*core.Student, error) {
	var student *core.Student
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		student, err = readStudent(tx, makeStudentKey(id))
		if err != nil {
			return err
		}
		if student == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudentByUSN retrieves a student by seat number via the USN index.
func (g *Gateway) GetStudentByUSN(ctx context.Context, usn string) (*core.Student, error) {
	var student *core.Student
	err := g.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStudentUSNKey(usn))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		err = item.Value(func(val []byte) error {
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		student, err = readStudent(tx, makeStudentKey(id))
		if err != nil {
			return err
		}
		if student == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// upsertStudentTx performs the student upsert inside an open write
// transaction. The ID is derived from the USN, so the same seat number
// always converges on one record. An existing record's name is refreshed
// when the incoming name is a real one; cohort and branch are backfilled
// only while empty.
func upsertStudentTx(tx *badger.Txn, usn, name, cohort, branch string, now time.Time) (*core.Student, error) {
	id := core.IDFromContent(usn)
	key := makeStudentKey(id)

	student, err := readStudent(tx, key)
	if err != nil {
		return nil, err
	}

	if student == nil {
		if name == "" {
			name = core.UnknownStudentName
		}
		student = &core.Student{
			Id:         id,
			USN:        usn,
			Name:       name,
			Cohort:     cohort,
			Branch:     branch,
			InsertedAt: now,
			UpdatedAt:  now,
		}
		if err := tx.Set(key, storage.MarshalStudent(student)); err != nil {
			return nil, err
		}
		if err := tx.Set(makeStudentUSNKey(usn), storage.MarshalID(id)); err != nil {
			return nil, err
		}
		return student, nil
	}

	changed := false
	if name != "" && name != core.UnknownStudentName && name != student.Name {
		student.Name = name
		changed = true
	}
	if student.Cohort == "" && cohort != "" {
		student.Cohort = cohort
		changed = true
	}
	if student.Branch == "" && branch != "" {
		student.Branch = branch
		changed = true
	}

	if changed {
		student.UpdatedAt = now
		if err := tx.Set(key, storage.MarshalStudent(student)); err != nil {
			return nil, err
		}
	}
	return student, nil
}

// readStudent reads a student from the transaction. Missing keys yield
// (nil, nil).
func readStudent(tx *badger.Txn, key []byte) (*core.Student, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var student *core.Student
	err = item.Value(func(val []byte) error {
		var err error
		student, err = storage.UnmarshalStudent(val)
		return err
	})
	return student, err
}
