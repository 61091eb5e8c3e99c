package unit

import "context"

// UnitRepository defines unit persistence operations
type UnitRepository interface {
	FindByID(ctx context.Context, unitID string) (*Unit, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Unit, error)
	FindByAssignment(ctx context.Context, assignmentID string) ([]*Unit, error)
	FindForSale(ctx context.Context, zoneID string) ([]*Unit, error)
	FindAll(ctx context.Context) ([]*Unit, error)
	Add(ctx context.Context, unit *Unit) error
	Update(ctx context.Context, unit *Unit) error
	Delete(ctx context.Context, unitID string) error
	DeleteAll(ctx context.Context) error
}
