package market

import (
	"context"

	"burnrate/internal/domain/shared"
)

// OrderRepository defines market order persistence operations
type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (*Order, error)
	FindOpen(ctx context.Context) ([]*Order, error)
	FindOpenByZone(ctx context.Context, zoneID string) ([]*Order, error)
	FindOpenByOwner(ctx context.Context, ownerID string) ([]*Order, error)
	CountOpenByOwner(ctx context.Context, ownerID string) (int64, error)
	NextSeq(ctx context.Context) (int64, error)
	Add(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	DeleteAll(ctx context.Context) error
}

// TradeRepository defines trade history persistence operations
type TradeRepository interface {
	Add(ctx context.Context, trade *Trade) error
	FindByZoneResource(ctx context.Context, zoneID string, resource shared.Resource, limit int) ([]*Trade, error)
}

// LastPriceRepository defines last-trade price persistence operations
type LastPriceRepository interface {
	Get(ctx context.Context, zoneID string, resource shared.Resource) (*LastPrice, error)
	FindAll(ctx context.Context) ([]*LastPrice, error)
	Save(ctx context.Context, price *LastPrice) error
	DeleteAll(ctx context.Context) error
}
