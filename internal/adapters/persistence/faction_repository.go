package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/shared"
)

// GormFactionRepository implements FactionRepository using GORM
type GormFactionRepository struct {
	db *gorm.DB
}

// NewGormFactionRepository creates a new GORM faction repository
func NewGormFactionRepository(db *gorm.DB) *GormFactionRepository {
	return &GormFactionRepository{db: db}
}

// FindByID retrieves a faction by ID
func (r *GormFactionRepository) FindByID(ctx context.Context, factionID string) (*faction.Faction, error) {
	var model FactionModel
	result := dbFrom(ctx, r.db).Where("id = ?", factionID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "faction", factionID)
	}
	return r.modelToFaction(&model)
}

// FindByName retrieves a faction by name
func (r *GormFactionRepository) FindByName(ctx context.Context, name string) (*faction.Faction, error) {
	var model FactionModel
	result := dbFrom(ctx, r.db).Where("name = ?", name).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "faction", name)
	}
	return r.modelToFaction(&model)
}

// FindByTag retrieves a faction by tag
func (r *GormFactionRepository) FindByTag(ctx context.Context, tag string) (*faction.Faction, error) {
	var model FactionModel
	result := dbFrom(ctx, r.db).Where("tag = ?", tag).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "faction", tag)
	}
	return r.modelToFaction(&model)
}

// FindAll retrieves every faction
func (r *GormFactionRepository) FindAll(ctx context.Context) ([]*faction.Faction, error) {
	var models []FactionModel
	result := dbFrom(ctx, r.db).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list factions: %w", result.Error)
	}
	factions := make([]*faction.Faction, 0, len(models))
	for i := range models {
		f, err := r.modelToFaction(&models[i])
		if err != nil {
			return nil, err
		}
		factions = append(factions, f)
	}
	return factions, nil
}

// Add persists a new faction
func (r *GormFactionRepository) Add(ctx context.Context, f *faction.Faction) error {
	model, err := r.factionToModel(f)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add faction: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing faction
func (r *GormFactionRepository) Update(ctx context.Context, f *faction.Faction) error {
	model, err := r.factionToModel(f)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update faction: %w", result.Error)
	}
	return nil
}

// Delete removes a disbanded faction
func (r *GormFactionRepository) Delete(ctx context.Context, factionID string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", factionID).Delete(&FactionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete faction: %w", result.Error)
	}
	return nil
}

// modelToFaction converts database model to domain entity
func (r *GormFactionRepository) modelToFaction(model *FactionModel) (*faction.Faction, error) {
	treasury := shared.NewInventory()
	if err := fromJSON(model.Treasury, &treasury); err != nil {
		return nil, err
	}
	upgrades := make(map[string]int)
	if err := fromJSON(model.Upgrades, &upgrades); err != nil {
		return nil, err
	}
	relations := make(map[string]faction.Relation)
	if err := fromJSON(model.Relations, &relations); err != nil {
		return nil, err
	}
	var members []*faction.Member
	if err := fromJSON(model.Members, &members); err != nil {
		return nil, err
	}

	return &faction.Faction{
		ID:              model.ID,
		Name:            model.Name,
		Tag:             model.Tag,
		FounderID:       model.FounderID,
		TreasuryCredits: model.TreasuryCredits,
		Treasury:        treasury,
		WithdrawLimit:   model.WithdrawLimit,
		DoctrineDigest:  model.DoctrineDigest,
		Upgrades:        upgrades,
		Relations:       relations,
		Members:         members,
		CreatedAtTick:   model.CreatedAtTick,
	}, nil
}

// factionToModel converts domain entity to database model
func (r *GormFactionRepository) factionToModel(f *faction.Faction) (*FactionModel, error) {
	treasury, err := toJSON(f.Treasury)
	if err != nil {
		return nil, err
	}
	upgrades, err := toJSON(f.Upgrades)
	if err != nil {
		return nil, err
	}
	relations, err := toJSON(f.Relations)
	if err != nil {
		return nil, err
	}
	members, err := toJSON(f.Members)
	if err != nil {
		return nil, err
	}

	return &FactionModel{
		ID:              f.ID,
		Name:            f.Name,
		Tag:             f.Tag,
		FounderID:       f.FounderID,
		TreasuryCredits: f.TreasuryCredits,
		Treasury:        treasury,
		WithdrawLimit:   f.WithdrawLimit,
		DoctrineDigest:  f.DoctrineDigest,
		Upgrades:        upgrades,
		Relations:       relations,
		Members:         members,
		CreatedAtTick:   f.CreatedAtTick,
	}, nil
}
