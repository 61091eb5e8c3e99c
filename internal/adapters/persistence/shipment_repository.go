package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
)

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GORM shipment repository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID retrieves a shipment by ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, shipmentID string) (*shipment.Shipment, error) {
	var model ShipmentModel
	result := dbFrom(ctx, r.db).Where("id = ?", shipmentID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "shipment", shipmentID)
	}
	return r.modelToShipment(&model)
}

// FindByOwner retrieves a player's shipments, newest first
func (r *GormShipmentRepository) FindByOwner(ctx context.Context, ownerID string) ([]*shipment.Shipment, error) {
	var models []ShipmentModel
	result := dbFrom(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at_tick DESC, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", result.Error)
	}
	return r.modelsToShipments(models)
}

// FindInTransit retrieves every moving shipment, ordered by ID for
// deterministic iteration in the tick pipeline
func (r *GormShipmentRepository) FindInTransit(ctx context.Context) ([]*shipment.Shipment, error) {
	var models []ShipmentModel
	result := dbFrom(ctx, r.db).
		Where("status = ?", string(shipment.StatusInTransit)).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list in-transit shipments: %w", result.Error)
	}
	return r.modelsToShipments(models)
}

// Add persists a new shipment
func (r *GormShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	model, err := r.shipmentToModel(s)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add shipment: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing shipment
func (r *GormShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	model, err := r.shipmentToModel(s)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update shipment: %w", result.Error)
	}
	return nil
}

// DeleteAll wipes the table at season reset
func (r *GormShipmentRepository) DeleteAll(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&ShipmentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete shipments: %w", result.Error)
	}
	return nil
}

func (r *GormShipmentRepository) modelsToShipments(models []ShipmentModel) ([]*shipment.Shipment, error) {
	shipments := make([]*shipment.Shipment, 0, len(models))
	for i := range models {
		s, err := r.modelToShipment(&models[i])
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

// modelToShipment converts database model to domain entity
func (r *GormShipmentRepository) modelToShipment(model *ShipmentModel) (*shipment.Shipment, error) {
	var path []string
	if err := fromJSON(model.Path, &path); err != nil {
		return nil, err
	}
	cargo := shared.NewInventory()
	if err := fromJSON(model.Cargo, &cargo); err != nil {
		return nil, err
	}
	var escorts []string
	if err := fromJSON(model.EscortUnitIDs, &escorts); err != nil {
		return nil, err
	}

	return &shipment.Shipment{
		ID:            model.ID,
		OwnerID:       model.OwnerID,
		Kind:          shipment.Kind(model.Kind),
		Path:          path,
		PositionIndex: model.PositionIndex,
		TicksToNext:   model.TicksToNext,
		Cargo:         cargo,
		EscortUnitIDs: escorts,
		Status:        shipment.Status(model.Status),
		CreatedAtTick: model.CreatedAtTick,
	}, nil
}

// shipmentToModel converts domain entity to database model
func (r *GormShipmentRepository) shipmentToModel(s *shipment.Shipment) (*ShipmentModel, error) {
	path, err := toJSON(s.Path)
	if err != nil {
		return nil, err
	}
	cargo, err := toJSON(s.Cargo)
	if err != nil {
		return nil, err
	}
	escorts, err := toJSON(s.EscortUnitIDs)
	if err != nil {
		return nil, err
	}

	return &ShipmentModel{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Kind:          string(s.Kind),
		Path:          path,
		PositionIndex: s.PositionIndex,
		TicksToNext:   s.TicksToNext,
		Cargo:         cargo,
		EscortUnitIDs: escorts,
		Status:        string(s.Status),
		CreatedAtTick: s.CreatedAtTick,
	}, nil
}
