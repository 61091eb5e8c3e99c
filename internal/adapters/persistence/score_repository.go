package persistence

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"burnrate/internal/domain/season"
)

// GormScoreRepository implements ScoreRepository using GORM
type GormScoreRepository struct {
	db *gorm.DB
}

// NewGormScoreRepository creates a new GORM score repository
func NewGormScoreRepository(db *gorm.DB) *GormScoreRepository {
	return &GormScoreRepository{db: db}
}

// Find retrieves one entity's standings row for a season
func (r *GormScoreRepository) Find(ctx context.Context, seasonNum int, entityID string) (*season.Score, error) {
	var model ScoreModel
	result := dbFrom(ctx, r.db).
		Where("season = ? AND entity_id = ?", seasonNum, entityID).
		First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "score", strconv.Itoa(seasonNum)+"/"+entityID)
	}
	return r.modelToScore(&model), nil
}

// FindBySeason retrieves every standings row of a season
func (r *GormScoreRepository) FindBySeason(ctx context.Context, seasonNum int) ([]*season.Score, error) {
	var models []ScoreModel
	result := dbFrom(ctx, r.db).Where("season = ?", seasonNum).Order("entity_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list scores: %w", result.Error)
	}
	scores := make([]*season.Score, 0, len(models))
	for i := range models {
		scores = append(scores, r.modelToScore(&models[i]))
	}
	return scores, nil
}

// Save upserts a standings row
func (r *GormScoreRepository) Save(ctx context.Context, s *season.Score) error {
	result := dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(r.scoreToModel(s))
	if result.Error != nil {
		return fmt.Errorf("failed to save score: %w", result.Error)
	}
	return nil
}

// modelToScore converts database model to domain entity
func (r *GormScoreRepository) modelToScore(model *ScoreModel) *season.Score {
	return &season.Score{
		Season:        model.Season,
		EntityID:      model.EntityID,
		EntityKind:    season.EntityKind(model.EntityKind),
		EntityName:    model.EntityName,
		SupplyPoints:  model.SupplyPoints,
		ShipPoints:    model.ShipPoints,
		ContractPts:   model.ContractPts,
		RepPoints:     model.RepPoints,
		CombatPoints:  model.CombatPoints,
		ZoneControl:   model.ZoneControl,
		UpdatedAtTick: model.UpdatedAtTick,
	}
}

// scoreToModel converts domain entity to database model
func (r *GormScoreRepository) scoreToModel(s *season.Score) *ScoreModel {
	return &ScoreModel{
		Season:        s.Season,
		EntityID:      s.EntityID,
		EntityKind:    string(s.EntityKind),
		EntityName:    s.EntityName,
		SupplyPoints:  s.SupplyPoints,
		ShipPoints:    s.ShipPoints,
		ContractPts:   s.ContractPts,
		RepPoints:     s.RepPoints,
		CombatPoints:  s.CombatPoints,
		ZoneControl:   s.ZoneControl,
		UpdatedAtTick: s.UpdatedAtTick,
	}
}
