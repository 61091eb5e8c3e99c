package shared

import "context"

// TxManager runs fn inside a single storage transaction. Repository
// calls made with the ctx passed to fn join that transaction; an error
// rolls everything back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
