package store

import (
	"context"
	"errors"

	"seratus-studio/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the gorm-backed persistence adapter. Every service repository
// interface is satisfied by it.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

type txKey struct{}

// WithinTx runs fn in a database transaction carried by ctx. Nested calls
// join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// wrapErrorWithDetails maps gorm errors onto the application taxonomy.
// what names the entity for NotFound and duplicate messages.
func wrapErrorWithDetails(err error, operation, what string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation("%s already exists", what)
	}

	return apperr.Internal(operation, err)
}

// checkID rejects ids that cannot name a row. Primary keys are uuid columns
// and postgres refuses to compare them with malformed text.
func checkID(id, what string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(what)
	}
	return nil
}

// affected turns a zero-row write into NotFound.
func affected(res *gorm.DB, operation, what string) error {
	if res.Error != nil {
		return wrapErrorWithDetails(res.Error, operation, what)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(what)
	}
	return nil
}
