package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

// GormTradeRepository implements TradeRepository using GORM
type GormTradeRepository struct {
	db *gorm.DB
}

// NewGormTradeRepository creates a new GORM trade repository
func NewGormTradeRepository(db *gorm.DB) *GormTradeRepository {
	return &GormTradeRepository{db: db}
}

// Add persists an executed trade
func (r *GormTradeRepository) Add(ctx context.Context, t *market.Trade) error {
	result := dbFrom(ctx, r.db).Create(r.tradeToModel(t))
	if result.Error != nil {
		return fmt.Errorf("failed to add trade: %w", result.Error)
	}
	return nil
}

// FindByZoneResource retrieves the most recent trades for a market,
// newest first
func (r *GormTradeRepository) FindByZoneResource(ctx context.Context, zoneID string, resource shared.Resource, limit int) ([]*market.Trade, error) {
	var models []TradeModel
	result := dbFrom(ctx, r.db).
		Where("zone_id = ? AND resource = ?", zoneID, string(resource)).
		Order("tick DESC, id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trades: %w", result.Error)
	}
	trades := make([]*market.Trade, 0, len(models))
	for i := range models {
		trades = append(trades, r.modelToTrade(&models[i]))
	}
	return trades, nil
}

// modelToTrade converts database model to domain entity
func (r *GormTradeRepository) modelToTrade(model *TradeModel) *market.Trade {
	return &market.Trade{
		ID:          model.ID,
		ZoneID:      model.ZoneID,
		Resource:    shared.Resource(model.Resource),
		BuyOrderID:  model.BuyOrderID,
		SellOrderID: model.SellOrderID,
		BuyerID:     model.BuyerID,
		SellerID:    model.SellerID,
		Price:       model.Price,
		Quantity:    model.Quantity,
		Tick:        model.Tick,
	}
}

// tradeToModel converts domain entity to database model
func (r *GormTradeRepository) tradeToModel(t *market.Trade) *TradeModel {
	return &TradeModel{
		ID:          t.ID,
		ZoneID:      t.ZoneID,
		Resource:    string(t.Resource),
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		BuyerID:     t.BuyerID,
		SellerID:    t.SellerID,
		Price:       t.Price,
		Quantity:    t.Quantity,
		Tick:        t.Tick,
	}
}
