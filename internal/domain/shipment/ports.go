package shipment

import "context"

// ShipmentRepository defines shipment persistence operations
type ShipmentRepository interface {
	FindByID(ctx context.Context, shipmentID string) (*Shipment, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Shipment, error)
	FindInTransit(ctx context.Context) ([]*Shipment, error)
	Add(ctx context.Context, shipment *Shipment) error
	Update(ctx context.Context, shipment *Shipment) error
	DeleteAll(ctx context.Context) error
}
