package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
)

// GormPlayerRepository implements PlayerRepository using GORM
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository creates a new GORM player repository
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{db: db}
}

// FindByID retrieves a player by ID
func (r *GormPlayerRepository) FindByID(ctx context.Context, playerID string) (*player.Player, error) {
	var model PlayerModel
	result := dbFrom(ctx, r.db).Where("id = ?", playerID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "player", playerID)
	}
	return r.modelToPlayer(&model)
}

// FindByName retrieves a player by display name
func (r *GormPlayerRepository) FindByName(ctx context.Context, name string) (*player.Player, error) {
	var model PlayerModel
	result := dbFrom(ctx, r.db).Where("name = ?", name).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "player", name)
	}
	return r.modelToPlayer(&model)
}

// FindByAPIKey retrieves a player by API key
func (r *GormPlayerRepository) FindByAPIKey(ctx context.Context, apiKey string) (*player.Player, error) {
	var model PlayerModel
	result := dbFrom(ctx, r.db).Where("api_key = ?", apiKey).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "player", "by-key")
	}
	return r.modelToPlayer(&model)
}

// FindByFaction retrieves all members of a faction
func (r *GormPlayerRepository) FindByFaction(ctx context.Context, factionID string) ([]*player.Player, error) {
	var models []PlayerModel
	result := dbFrom(ctx, r.db).Where("faction_id = ?", factionID).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list faction members: %w", result.Error)
	}
	return r.modelsToPlayers(models)
}

// FindAll retrieves all players
func (r *GormPlayerRepository) FindAll(ctx context.Context) ([]*player.Player, error) {
	var models []PlayerModel
	result := dbFrom(ctx, r.db).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list players: %w", result.Error)
	}
	return r.modelsToPlayers(models)
}

// Add persists a new player
func (r *GormPlayerRepository) Add(ctx context.Context, p *player.Player) error {
	model, err := r.playerToModel(p)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add player: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing player
func (r *GormPlayerRepository) Update(ctx context.Context, p *player.Player) error {
	model, err := r.playerToModel(p)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update player: %w", result.Error)
	}
	return nil
}

// AddCredits atomically adjusts a balance in storage, for transfers to
// players the caller holds no aggregate lock on.
func (r *GormPlayerRepository) AddCredits(ctx context.Context, playerID string, delta int64) error {
	result := dbFrom(ctx, r.db).Model(&PlayerModel{}).
		Where("id = ?", playerID).
		UpdateColumn("credits", gorm.Expr("credits + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("player", playerID)
	}
	return nil
}

// Count returns the number of registered players
func (r *GormPlayerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := dbFrom(ctx, r.db).Model(&PlayerModel{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count players: %w", result.Error)
	}
	return count, nil
}

func (r *GormPlayerRepository) modelsToPlayers(models []PlayerModel) ([]*player.Player, error) {
	players := make([]*player.Player, 0, len(models))
	for i := range models {
		p, err := r.modelToPlayer(&models[i])
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// modelToPlayer converts database model to domain entity
func (r *GormPlayerRepository) modelToPlayer(model *PlayerModel) (*player.Player, error) {
	inventory := shared.NewInventory()
	if err := fromJSON(model.Inventory, &inventory); err != nil {
		return nil, err
	}
	licenses := make(map[player.License]bool)
	if err := fromJSON(model.Licenses, &licenses); err != nil {
		return nil, err
	}

	return &player.Player{
		ID:             model.ID,
		Name:           model.Name,
		APIKey:         model.APIKey,
		Tier:           player.Tier(model.Tier),
		Credits:        model.Credits,
		Inventory:      inventory,
		CurrentZoneID:  model.CurrentZoneID,
		FactionID:      model.FactionID,
		Reputation:     model.Reputation,
		ActionsToday:   model.ActionsToday,
		LastActionTick: model.LastActionTick,
		Licenses:       licenses,
		TutorialStep:   model.TutorialStep,
		CreatedAtTick:  model.CreatedAtTick,
	}, nil
}

// playerToModel converts domain entity to database model
func (r *GormPlayerRepository) playerToModel(p *player.Player) (*PlayerModel, error) {
	inventory, err := toJSON(p.Inventory)
	if err != nil {
		return nil, err
	}
	licenses, err := toJSON(p.Licenses)
	if err != nil {
		return nil, err
	}

	return &PlayerModel{
		ID:             p.ID,
		Name:           p.Name,
		APIKey:         p.APIKey,
		Tier:           string(p.Tier),
		Credits:        p.Credits,
		Inventory:      inventory,
		CurrentZoneID:  p.CurrentZoneID,
		FactionID:      p.FactionID,
		Reputation:     p.Reputation,
		ActionsToday:   p.ActionsToday,
		LastActionTick: p.LastActionTick,
		Licenses:       licenses,
		TutorialStep:   p.TutorialStep,
		CreatedAtTick:  p.CreatedAtTick,
	}, nil
}
