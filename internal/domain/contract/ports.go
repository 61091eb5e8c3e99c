package contract

import "context"

// ContractRepository defines contract persistence operations
type ContractRepository interface {
	FindByID(ctx context.Context, contractID string) (*Contract, error)
	FindOpen(ctx context.Context) ([]*Contract, error)
	FindActive(ctx context.Context) ([]*Contract, error) // open + accepted
	FindByPoster(ctx context.Context, posterID string) ([]*Contract, error)
	FindByAcceptor(ctx context.Context, playerID string) ([]*Contract, error)
	CountOpenByPoster(ctx context.Context, posterID string) (int64, error)
	Add(ctx context.Context, contract *Contract) error
	Update(ctx context.Context, contract *Contract) error
	DeleteActive(ctx context.Context) error
}
