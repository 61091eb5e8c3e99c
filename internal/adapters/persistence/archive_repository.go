package persistence

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"burnrate/internal/domain/season"
)

// GormArchiveRepository implements ArchiveRepository using GORM
type GormArchiveRepository struct {
	db *gorm.DB
}

// NewGormArchiveRepository creates a new GORM archive repository
func NewGormArchiveRepository(db *gorm.DB) *GormArchiveRepository {
	return &GormArchiveRepository{db: db}
}

// Find retrieves a sealed season by number
func (r *GormArchiveRepository) Find(ctx context.Context, seasonNum int) (*season.Archive, error) {
	var model ArchiveModel
	result := dbFrom(ctx, r.db).Where("season = ?", seasonNum).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "season_archive", strconv.Itoa(seasonNum))
	}
	return r.modelToArchive(&model), nil
}

// FindLatest retrieves the most recently sealed season
func (r *GormArchiveRepository) FindLatest(ctx context.Context) (*season.Archive, error) {
	var model ArchiveModel
	result := dbFrom(ctx, r.db).Order("season DESC").First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "season_archive", "latest")
	}
	return r.modelToArchive(&model), nil
}

// FindAll retrieves every sealed season in order
func (r *GormArchiveRepository) FindAll(ctx context.Context) ([]*season.Archive, error) {
	var models []ArchiveModel
	result := dbFrom(ctx, r.db).Order("season").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list season archives: %w", result.Error)
	}
	archives := make([]*season.Archive, 0, len(models))
	for i := range models {
		archives = append(archives, r.modelToArchive(&models[i]))
	}
	return archives, nil
}

// Add persists a sealed season
func (r *GormArchiveRepository) Add(ctx context.Context, a *season.Archive) error {
	result := dbFrom(ctx, r.db).Create(r.archiveToModel(a))
	if result.Error != nil {
		return fmt.Errorf("failed to add season archive: %w", result.Error)
	}
	return nil
}

// modelToArchive converts database model to domain entity
func (r *GormArchiveRepository) modelToArchive(model *ArchiveModel) *season.Archive {
	return &season.Archive{
		Season:      model.Season,
		StartedTick: model.StartedTick,
		EndedTick:   model.EndedTick,
		SealedAt:    model.SealedAt,
		Compressed:  model.Compressed,
		Hash:        model.Hash,
		PrevHash:    model.PrevHash,
	}
}

// archiveToModel converts domain entity to database model
func (r *GormArchiveRepository) archiveToModel(a *season.Archive) *ArchiveModel {
	return &ArchiveModel{
		Season:      a.Season,
		StartedTick: a.StartedTick,
		EndedTick:   a.EndedTick,
		SealedAt:    a.SealedAt,
		Compressed:  a.Compressed,
		Hash:        a.Hash,
		PrevHash:    a.PrevHash,
	}
}
