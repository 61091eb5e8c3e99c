package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/faction"
)

// GormDoctrineRepository implements DoctrineRepository using GORM
type GormDoctrineRepository struct {
	db *gorm.DB
}

// NewGormDoctrineRepository creates a new GORM doctrine repository
func NewGormDoctrineRepository(db *gorm.DB) *GormDoctrineRepository {
	return &GormDoctrineRepository{db: db}
}

// FindByID retrieves a doctrine by ID
func (r *GormDoctrineRepository) FindByID(ctx context.Context, doctrineID string) (*faction.Doctrine, error) {
	var model DoctrineModel
	result := dbFrom(ctx, r.db).Where("id = ?", doctrineID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "doctrine", doctrineID)
	}
	return r.modelToDoctrine(&model), nil
}

// FindByFaction retrieves a faction's doctrines, newest revision first
func (r *GormDoctrineRepository) FindByFaction(ctx context.Context, factionID string) ([]*faction.Doctrine, error) {
	var models []DoctrineModel
	result := dbFrom(ctx, r.db).
		Where("faction_id = ?", factionID).
		Order("updated_at_tick DESC, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list doctrines: %w", result.Error)
	}
	doctrines := make([]*faction.Doctrine, 0, len(models))
	for i := range models {
		doctrines = append(doctrines, r.modelToDoctrine(&models[i]))
	}
	return doctrines, nil
}

// Add persists a new doctrine
func (r *GormDoctrineRepository) Add(ctx context.Context, d *faction.Doctrine) error {
	result := dbFrom(ctx, r.db).Create(r.doctrineToModel(d))
	if result.Error != nil {
		return fmt.Errorf("failed to add doctrine: %w", result.Error)
	}
	return nil
}

// Update persists a doctrine revision
func (r *GormDoctrineRepository) Update(ctx context.Context, d *faction.Doctrine) error {
	result := dbFrom(ctx, r.db).Save(r.doctrineToModel(d))
	if result.Error != nil {
		return fmt.Errorf("failed to update doctrine: %w", result.Error)
	}
	return nil
}

// Delete removes a doctrine
func (r *GormDoctrineRepository) Delete(ctx context.Context, doctrineID string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", doctrineID).Delete(&DoctrineModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete doctrine: %w", result.Error)
	}
	return nil
}

func (r *GormDoctrineRepository) modelToDoctrine(model *DoctrineModel) *faction.Doctrine {
	return &faction.Doctrine{
		ID:            model.ID,
		FactionID:     model.FactionID,
		Title:         model.Title,
		Body:          model.Body,
		Digest:        model.Digest,
		AuthorID:      model.AuthorID,
		CreatedAtTick: model.CreatedAtTick,
		UpdatedAtTick: model.UpdatedAtTick,
	}
}

func (r *GormDoctrineRepository) doctrineToModel(d *faction.Doctrine) *DoctrineModel {
	return &DoctrineModel{
		ID:            d.ID,
		FactionID:     d.FactionID,
		Title:         d.Title,
		Body:          d.Body,
		Digest:        d.Digest,
		AuthorID:      d.AuthorID,
		CreatedAtTick: d.CreatedAtTick,
		UpdatedAtTick: d.UpdatedAtTick,
	}
}
