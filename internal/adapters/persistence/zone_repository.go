package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// GormZoneRepository implements ZoneRepository using GORM
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GORM zone repository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// FindByID retrieves a zone by ID
func (r *GormZoneRepository) FindByID(ctx context.Context, zoneID string) (*world.Zone, error) {
	var model ZoneModel
	result := dbFrom(ctx, r.db).Where("id = ?", zoneID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "zone", zoneID)
	}
	return r.modelToZone(&model)
}

// FindAll retrieves every zone, ordered by ID for deterministic
// iteration in the tick pipeline
func (r *GormZoneRepository) FindAll(ctx context.Context) ([]*world.Zone, error) {
	var models []ZoneModel
	result := dbFrom(ctx, r.db).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list zones: %w", result.Error)
	}
	return r.modelsToZones(models)
}

// FindByOwner retrieves all zones held by a faction
func (r *GormZoneRepository) FindByOwner(ctx context.Context, factionID string) ([]*world.Zone, error) {
	var models []ZoneModel
	result := dbFrom(ctx, r.db).Where("owner_faction_id = ?", factionID).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list owned zones: %w", result.Error)
	}
	return r.modelsToZones(models)
}

// Add persists a new zone
func (r *GormZoneRepository) Add(ctx context.Context, zone *world.Zone) error {
	model, err := r.zoneToModel(zone)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add zone: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing zone
func (r *GormZoneRepository) Update(ctx context.Context, zone *world.Zone) error {
	model, err := r.zoneToModel(zone)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update zone: %w", result.Error)
	}
	return nil
}

func (r *GormZoneRepository) modelsToZones(models []ZoneModel) ([]*world.Zone, error) {
	zones := make([]*world.Zone, 0, len(models))
	for i := range models {
		z, err := r.modelToZone(&models[i])
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// modelToZone converts database model to domain entity
func (r *GormZoneRepository) modelToZone(model *ZoneModel) (*world.Zone, error) {
	inventory := shared.NewInventory()
	if err := fromJSON(model.Inventory, &inventory); err != nil {
		return nil, err
	}

	return &world.Zone{
		ID:                 model.ID,
		Name:               model.Name,
		Kind:               world.ZoneKind(model.Kind),
		OwnerFactionID:     model.OwnerFactionID,
		Status:             world.ZoneStatus(model.Status),
		SupplyLevel:        model.SupplyLevel,
		BurnRate:           model.BurnRate,
		ComplianceStreak:   model.ComplianceStreak,
		SUStockpile:        model.SUStockpile,
		Inventory:          inventory,
		ProductionCapacity: model.ProductionCapacity,
		GarrisonLevel:      model.GarrisonLevel,
		DepthMultiplier:    model.DepthMultiplier,
		MedkitStockpile:    model.MedkitStockpile,
		CommsStockpile:     model.CommsStockpile,
		FieldResource:      shared.Resource(model.FieldResource),
		CreatedAtTick:      model.CreatedAtTick,
	}, nil
}

// zoneToModel converts domain entity to database model
func (r *GormZoneRepository) zoneToModel(z *world.Zone) (*ZoneModel, error) {
	inventory, err := toJSON(z.Inventory)
	if err != nil {
		return nil, err
	}

	return &ZoneModel{
		ID:                 z.ID,
		Name:               z.Name,
		Kind:               string(z.Kind),
		OwnerFactionID:     z.OwnerFactionID,
		Status:             string(z.Status),
		SupplyLevel:        z.SupplyLevel,
		BurnRate:           z.BurnRate,
		ComplianceStreak:   z.ComplianceStreak,
		SUStockpile:        z.SUStockpile,
		Inventory:          inventory,
		ProductionCapacity: z.ProductionCapacity,
		GarrisonLevel:      z.GarrisonLevel,
		DepthMultiplier:    z.DepthMultiplier,
		MedkitStockpile:    z.MedkitStockpile,
		CommsStockpile:     z.CommsStockpile,
		FieldResource:      string(z.FieldResource),
		CreatedAtTick:      z.CreatedAtTick,
	}, nil
}
