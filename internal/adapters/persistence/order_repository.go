package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/market"
	"burnrate/internal/domain/shared"
)

// orderSeqCounter names the counters row backing the book arrival
// sequence.
const orderSeqCounter = "order_seq"

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID string) (*market.Order, error) {
	var model OrderModel
	result := dbFrom(ctx, r.db).Where("id = ?", orderID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "order", orderID)
	}
	return r.modelToOrder(&model), nil
}

// FindOpen retrieves every open order
func (r *GormOrderRepository) FindOpen(ctx context.Context) ([]*market.Order, error) {
	return r.findWhere(ctx, "status = ?", string(market.StatusOpen))
}

// FindOpenByZone retrieves a zone's open orders
func (r *GormOrderRepository) FindOpenByZone(ctx context.Context, zoneID string) ([]*market.Order, error) {
	return r.findWhere(ctx, "status = ? AND zone_id = ?", string(market.StatusOpen), zoneID)
}

// FindOpenByOwner retrieves a player's open orders
func (r *GormOrderRepository) FindOpenByOwner(ctx context.Context, ownerID string) ([]*market.Order, error) {
	return r.findWhere(ctx, "status = ? AND owner_id = ?", string(market.StatusOpen), ownerID)
}

// CountOpenByOwner counts a player's open orders for the tier cap
func (r *GormOrderRepository) CountOpenByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where("status = ? AND owner_id = ?", string(market.StatusOpen), ownerID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count open orders: %w", result.Error)
	}
	return count, nil
}

// NextSeq increments and returns the book arrival sequence. Called
// inside the placing transaction, so concurrent placements serialize on
// the counter row.
func (r *GormOrderRepository) NextSeq(ctx context.Context) (int64, error) {
	db := dbFrom(ctx, r.db)
	result := db.Model(&CounterModel{}).
		Where("name = ?", orderSeqCounter).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to advance order sequence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		counter := CounterModel{Name: orderSeqCounter, Value: 1}
		if err := db.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to seed order sequence: %w", err)
		}
		return 1, nil
	}
	var counter CounterModel
	if err := db.Where("name = ?", orderSeqCounter).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to read order sequence: %w", err)
	}
	return counter.Value, nil
}

// Add persists a new order
func (r *GormOrderRepository) Add(ctx context.Context, o *market.Order) error {
	result := dbFrom(ctx, r.db).Create(r.orderToModel(o))
	if result.Error != nil {
		return fmt.Errorf("failed to add order: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing order
func (r *GormOrderRepository) Update(ctx context.Context, o *market.Order) error {
	result := dbFrom(ctx, r.db).Save(r.orderToModel(o))
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	return nil
}

// DeleteAll wipes the table at season reset
func (r *GormOrderRepository) DeleteAll(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&OrderModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete orders: %w", result.Error)
	}
	return nil
}

func (r *GormOrderRepository) findWhere(ctx context.Context, cond string, args ...any) ([]*market.Order, error) {
	var models []OrderModel
	result := dbFrom(ctx, r.db).Where(cond, args...).Order("seq").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list orders: %w", result.Error)
	}
	orders := make([]*market.Order, 0, len(models))
	for i := range models {
		orders = append(orders, r.modelToOrder(&models[i]))
	}
	return orders, nil
}

// modelToOrder converts database model to domain entity
func (r *GormOrderRepository) modelToOrder(model *OrderModel) *market.Order {
	return &market.Order{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		ZoneID:          model.ZoneID,
		Resource:        shared.Resource(model.Resource),
		Side:            market.Side(model.Side),
		Type:            market.OrderType(model.Type),
		Price:           model.Price,
		Remaining:       model.Remaining,
		Original:        model.Original,
		EscrowedCredits: model.EscrowedCredits,
		Status:          market.OrderStatus(model.Status),
		TriggerOp:       market.TriggerOp(model.TriggerOp),
		TriggerPrice:    model.TriggerPrice,
		Armed:           model.Armed,
		TotalQuantity:   model.TotalQuantity,
		SlicePerTick:    model.SlicePerTick,
		TicksRemaining:  model.TicksRemaining,
		ParentOrderID:   model.ParentOrderID,
		CreatedAtTick:   model.CreatedAtTick,
		Seq:             model.Seq,
	}
}

// orderToModel converts domain entity to database model
func (r *GormOrderRepository) orderToModel(o *market.Order) *OrderModel {
	return &OrderModel{
		ID:              o.ID,
		OwnerID:         o.OwnerID,
		ZoneID:          o.ZoneID,
		Resource:        string(o.Resource),
		Side:            string(o.Side),
		Type:            string(o.Type),
		Price:           o.Price,
		Remaining:       o.Remaining,
		Original:        o.Original,
		EscrowedCredits: o.EscrowedCredits,
		Status:          string(o.Status),
		TriggerOp:       string(o.TriggerOp),
		TriggerPrice:    o.TriggerPrice,
		Armed:           o.Armed,
		TotalQuantity:   o.TotalQuantity,
		SlicePerTick:    o.SlicePerTick,
		TicksRemaining:  o.TicksRemaining,
		ParentOrderID:   o.ParentOrderID,
		CreatedAtTick:   o.CreatedAtTick,
		Seq:             o.Seq,
	}
}
