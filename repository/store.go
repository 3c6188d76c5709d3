// Package repository wraps gorm with the typed queries the services need.
// Every read filters on the soft-delete flag; nothing is ever hard deleted.
package repository

import (
	"context"
	"errors"

	"github.com/ariebrainware/therapist-booking/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an active row does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the credential and data store. A Store obtained inside
// Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for infrastructure such as the security logger.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction runs fn in a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// expectOne turns a zero-row update into ErrNotFound.
func expectOne(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func active(db *gorm.DB, table string) *gorm.DB {
	if table == "" {
		return db.Where("status = ?", model.StatusActive)
	}
	return db.Where(table+".status = ?", model.StatusActive)
}
