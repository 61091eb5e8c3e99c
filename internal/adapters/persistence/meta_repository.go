package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"burnrate/internal/domain/world"
)

// GormMetaRepository implements MetaRepository using GORM
type GormMetaRepository struct {
	db *gorm.DB
}

// NewGormMetaRepository creates a new GORM world meta repository
func NewGormMetaRepository(db *gorm.DB) *GormMetaRepository {
	return &GormMetaRepository{db: db}
}

// Get retrieves the single world bookkeeping row
func (r *GormMetaRepository) Get(ctx context.Context) (*world.Meta, error) {
	var model MetaModel
	result := dbFrom(ctx, r.db).Where("id = ?", world.MetaID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "world_meta", "singleton")
	}
	return &world.Meta{
		ID:              model.ID,
		CurrentTick:     model.CurrentTick,
		LastTickAt:      model.LastTickAt,
		Season:          model.Season,
		SeasonStartTick: model.SeasonStartTick,
		Seed:            model.Seed,
		ArchiveHash:     model.ArchiveHash,
	}, nil
}

// Save upserts the world bookkeeping row
func (r *GormMetaRepository) Save(ctx context.Context, meta *world.Meta) error {
	model := &MetaModel{
		ID:              world.MetaID,
		CurrentTick:     meta.CurrentTick,
		LastTickAt:      meta.LastTickAt,
		Season:          meta.Season,
		SeasonStartTick: meta.SeasonStartTick,
		Seed:            meta.Seed,
		ArchiveHash:     meta.ArchiveHash,
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save world meta: %w", result.Error)
	}
	return nil
}

// ClaimTick compare-and-swaps the world forward to newTick. The guard
// matches both the predecessor tick and the stored stamp, so exactly
// one concurrent claimant wins; losers see zero rows affected.
func (r *GormMetaRepository) ClaimTick(ctx context.Context, newTick int64, newLastTickAt, expectedLastTickAt time.Time) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&MetaModel{}).
		Where("id = ? AND current_tick = ? AND last_tick_at = ?",
			world.MetaID, newTick-1, expectedLastTickAt).
		Updates(map[string]any{
			"current_tick": newTick,
			"last_tick_at": newLastTickAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim tick: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
