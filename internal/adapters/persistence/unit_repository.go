package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/unit"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GORM unit repository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID retrieves a unit by ID
func (r *GormUnitRepository) FindByID(ctx context.Context, unitID string) (*unit.Unit, error) {
	var model UnitModel
	result := dbFrom(ctx, r.db).Where("id = ?", unitID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "unit", unitID)
	}
	return r.modelToUnit(&model), nil
}

// FindByOwner retrieves a player's units
func (r *GormUnitRepository) FindByOwner(ctx context.Context, ownerID string) ([]*unit.Unit, error) {
	return r.findWhere(ctx, "owner_id = ?", ownerID)
}

// FindByAssignment retrieves the units escorting a shipment or raiding a
// route
func (r *GormUnitRepository) FindByAssignment(ctx context.Context, assignmentID string) ([]*unit.Unit, error) {
	return r.findWhere(ctx, "assignment_id = ?", assignmentID)
}

// FindForSale retrieves listed units at a zone
func (r *GormUnitRepository) FindForSale(ctx context.Context, zoneID string) ([]*unit.Unit, error) {
	return r.findWhere(ctx, "zone_id = ? AND for_sale_price > 0", zoneID)
}

// FindAll retrieves every unit, ordered by ID for deterministic
// iteration in the tick pipeline
func (r *GormUnitRepository) FindAll(ctx context.Context) ([]*unit.Unit, error) {
	return r.findWhere(ctx, "1 = 1")
}

// Add persists a new unit
func (r *GormUnitRepository) Add(ctx context.Context, u *unit.Unit) error {
	result := dbFrom(ctx, r.db).Create(r.unitToModel(u))
	if result.Error != nil {
		return fmt.Errorf("failed to add unit: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing unit
func (r *GormUnitRepository) Update(ctx context.Context, u *unit.Unit) error {
	result := dbFrom(ctx, r.db).Save(r.unitToModel(u))
	if result.Error != nil {
		return fmt.Errorf("failed to update unit: %w", result.Error)
	}
	return nil
}

// Delete removes a destroyed or repossessed unit
func (r *GormUnitRepository) Delete(ctx context.Context, unitID string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", unitID).Delete(&UnitModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete unit: %w", result.Error)
	}
	return nil
}

// DeleteAll wipes the table at season reset
func (r *GormUnitRepository) DeleteAll(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&UnitModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete units: %w", result.Error)
	}
	return nil
}

func (r *GormUnitRepository) findWhere(ctx context.Context, cond string, args ...any) ([]*unit.Unit, error) {
	var models []UnitModel
	result := dbFrom(ctx, r.db).Where(cond, args...).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list units: %w", result.Error)
	}
	units := make([]*unit.Unit, 0, len(models))
	for i := range models {
		units = append(units, r.modelToUnit(&models[i]))
	}
	return units, nil
}

func (r *GormUnitRepository) modelToUnit(model *UnitModel) *unit.Unit {
	return &unit.Unit{
		ID:            model.ID,
		OwnerID:       model.OwnerID,
		Kind:          unit.Kind(model.Kind),
		ZoneID:        model.ZoneID,
		Strength:      model.Strength,
		Speed:         model.Speed,
		Maintenance:   model.Maintenance,
		AssignmentID:  model.AssignmentID,
		ForSalePrice:  model.ForSalePrice,
		CreatedAtTick: model.CreatedAtTick,
	}
}

func (r *GormUnitRepository) unitToModel(u *unit.Unit) *UnitModel {
	return &UnitModel{
		ID:            u.ID,
		OwnerID:       u.OwnerID,
		Kind:          string(u.Kind),
		ZoneID:        u.ZoneID,
		Strength:      u.Strength,
		Speed:         u.Speed,
		Maintenance:   u.Maintenance,
		AssignmentID:  u.AssignmentID,
		ForSalePrice:  u.ForSalePrice,
		CreatedAtTick: u.CreatedAtTick,
	}
}
