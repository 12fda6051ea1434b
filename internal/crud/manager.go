package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Manager is the generic store-backed CRUD primitive for one record type.
// It carries no authorization logic; entity services layer that on top.
type Manager[T any] struct {
	db   *gorm.DB
	kind string
}

func NewManager[T any](db *gorm.DB, kind string) *Manager[T] {
	return &Manager[T]{db: db, kind: kind}
}

func (m *Manager[T]) Kind() string {
	return m.kind
}

func (m *Manager[T]) Create(ctx context.Context, record *T) (*T, error) {
	if err := m.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, translate(m.kind, "create", err)
	}
	return record, nil
}

func (m *Manager[T]) GetAll(ctx context.Context) ([]*T, error) {
	return m.Get(ctx, nil)
}

// Get returns every record matching pred, ordered by id. No match is an
// empty slice, not an error.
func (m *Manager[T]) Get(ctx context.Context, pred Predicate) ([]*T, error) {
	records, err := find[T](m.db.WithContext(ctx), pred)
	if err != nil {
		return nil, translate(m.kind, "read", err)
	}
	return records, nil
}

// Lookup returns the record with the given id or nil when it does not exist.
func (m *Manager[T]) Lookup(ctx context.Context, id int64) (*T, error) {
	var record T
	err := m.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(m.kind, "read", err)
	}
	return &record, nil
}

// Update assigns fields on every record matching pred. Nil field values
// are skipped; an update with nothing left to assign is a no-op.
func (m *Manager[T]) Update(ctx context.Context, pred Predicate, fields Fields) error {
	return translate(m.kind, "update", update[T](m.db.WithContext(ctx), pred, fields))
}

// Delete removes every record matching pred. Matching nothing is not an error.
func (m *Manager[T]) Delete(ctx context.Context, pred Predicate) error {
	return translate(m.kind, "delete", remove[T](m.db.WithContext(ctx), pred))
}

// UpdateChecked loads the matching records, runs check over all of them and
// only then applies the update, inside a single transaction. A failing check
// leaves the store untouched.
func (m *Manager[T]) UpdateChecked(ctx context.Context, pred Predicate, check func([]*T) error, fields Fields) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := find[T](tx, pred)
		if err != nil {
			return err
		}
		if err := check(records); err != nil {
			return err
		}
		return update[T](tx, pred, fields)
	})
	return translate(m.kind, "update", err)
}

// DeleteChecked is the delete counterpart of UpdateChecked.
func (m *Manager[T]) DeleteChecked(ctx context.Context, pred Predicate, check func([]*T) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := find[T](tx, pred)
		if err != nil {
			return err
		}
		if err := check(records); err != nil {
			return err
		}
		return remove[T](tx, pred)
	})
	return translate(m.kind, "delete", err)
}

func find[T any](db *gorm.DB, pred Predicate) ([]*T, error) {
	records := make([]*T, 0)
	q := db.Model(new(T))
	if pred != nil {
		q = q.Scopes(pred)
	}
	if err := q.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func update[T any](db *gorm.DB, pred Predicate, fields Fields) error {
	values := fields.Compact()
	if len(values) == 0 {
		return nil
	}
	q := db.Model(new(T))
	if pred != nil {
		q = q.Scopes(pred)
	}
	return q.Updates(values).Error
}

func remove[T any](db *gorm.DB, pred Predicate) error {
	q := db
	if pred != nil {
		q = q.Scopes(pred)
	}
	return q.Delete(new(T)).Error
}
