package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/shared"
)

// txKey carries the transaction handle through the context so every
// repository call inside a TxManager.Do block joins the same
// transaction and reads its own writes.
type txKey struct{}

// GormTxManager implements shared.TxManager on a GORM connection
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GORM transaction manager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do runs fn inside a transaction. A nested Do joins the transaction
// already in the context instead of opening a second one.
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction handle embedded in the context, or the
// repository's base handle outside a transaction.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

// findErr maps gorm's missing-row error to the domain error the
// application layer branches on; other driver errors pass through
// wrapped.
func findErr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	return fmt.Errorf("failed to find %s: %w", resource, err)
}
