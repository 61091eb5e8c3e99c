package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

// GormLastPriceRepository implements LastPriceRepository using GORM
type GormLastPriceRepository struct {
	db *gorm.DB
}

// NewGormLastPriceRepository creates a new GORM last-price repository
func NewGormLastPriceRepository(db *gorm.DB) *GormLastPriceRepository {
	return &GormLastPriceRepository{db: db}
}

// Get retrieves the last trade price of a market
func (r *GormLastPriceRepository) Get(ctx context.Context, zoneID string, resource shared.Resource) (*market.LastPrice, error) {
	var model LastPriceModel
	result := dbFrom(ctx, r.db).
		Where("zone_id = ? AND resource = ?", zoneID, string(resource)).
		First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "last_price", zoneID+"/"+string(resource))
	}
	return r.modelToPrice(&model), nil
}

// FindAll retrieves every recorded last price
func (r *GormLastPriceRepository) FindAll(ctx context.Context) ([]*market.LastPrice, error) {
	var models []LastPriceModel
	result := dbFrom(ctx, r.db).Order("zone_id, resource").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list last prices: %w", result.Error)
	}
	prices := make([]*market.LastPrice, 0, len(models))
	for i := range models {
		prices = append(prices, r.modelToPrice(&models[i]))
	}
	return prices, nil
}

// Save upserts the last trade price of a market
func (r *GormLastPriceRepository) Save(ctx context.Context, p *market.LastPrice) error {
	result := dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(r.priceToModel(p))
	if result.Error != nil {
		return fmt.Errorf("failed to save last price: %w", result.Error)
	}
	return nil
}

// DeleteAll wipes the table at season reset
func (r *GormLastPriceRepository) DeleteAll(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&LastPriceModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete last prices: %w", result.Error)
	}
	return nil
}

func (r *GormLastPriceRepository) modelToPrice(model *LastPriceModel) *market.LastPrice {
	return &market.LastPrice{
		ZoneID:   model.ZoneID,
		Resource: shared.Resource(model.Resource),
		Price:    model.Price,
		Tick:     model.Tick,
	}
}

func (r *GormLastPriceRepository) priceToModel(p *market.LastPrice) *LastPriceModel {
	return &LastPriceModel{
		ZoneID:   p.ZoneID,
		Resource: string(p.Resource),
		Price:    p.Price,
		Tick:     p.Tick,
	}
}
