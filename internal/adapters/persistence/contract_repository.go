package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/contract"
)

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GORM contract repository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID retrieves a contract by ID
func (r *GormContractRepository) FindByID(ctx context.Context, contractID string) (*contract.Contract, error) {
	var model ContractModel
	result := dbFrom(ctx, r.db).Where("id = ?", contractID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "contract", contractID)
	}
	return r.modelToContract(&model)
}

// FindOpen retrieves every contract still open for acceptance
func (r *GormContractRepository) FindOpen(ctx context.Context) ([]*contract.Contract, error) {
	return r.findWhere(ctx, "status = ?", string(contract.StatusOpen))
}

// FindActive retrieves contracts that still resolve at some future
// tick: open postings and accepted jobs in progress
func (r *GormContractRepository) FindActive(ctx context.Context) ([]*contract.Contract, error) {
	return r.findWhere(ctx, "status IN ?",
		[]string{string(contract.StatusOpen), string(contract.StatusAccepted)})
}

// FindByPoster retrieves contracts created by a poster
func (r *GormContractRepository) FindByPoster(ctx context.Context, posterID string) ([]*contract.Contract, error) {
	return r.findWhere(ctx, "poster_id = ?", posterID)
}

// FindByAcceptor retrieves contracts a player has accepted
func (r *GormContractRepository) FindByAcceptor(ctx context.Context, playerID string) ([]*contract.Contract, error) {
	return r.findWhere(ctx, "accepted_by = ?", playerID)
}

// CountOpenByPoster counts a poster's open contracts for the tier cap
func (r *GormContractRepository) CountOpenByPoster(ctx context.Context, posterID string) (int64, error) {
	var count int64
	result := dbFrom(ctx, r.db).Model(&ContractModel{}).
		Where("status = ? AND poster_id = ?", string(contract.StatusOpen), posterID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count open contracts: %w", result.Error)
	}
	return count, nil
}

// Add persists a new contract
func (r *GormContractRepository) Add(ctx context.Context, c *contract.Contract) error {
	model, err := r.contractToModel(c)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add contract: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing contract
func (r *GormContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	model, err := r.contractToModel(c)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update contract: %w", result.Error)
	}
	return nil
}

// DeleteActive removes open and accepted contracts at season reset;
// resolved contracts stay as history
func (r *GormContractRepository) DeleteActive(ctx context.Context) error {
	result := dbFrom(ctx, r.db).
		Where("status IN ?", []string{string(contract.StatusOpen), string(contract.StatusAccepted)}).
		Delete(&ContractModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete active contracts: %w", result.Error)
	}
	return nil
}

func (r *GormContractRepository) findWhere(ctx context.Context, cond string, args ...any) ([]*contract.Contract, error) {
	var models []ContractModel
	result := dbFrom(ctx, r.db).Where(cond, args...).Order("created_at_tick, id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", result.Error)
	}
	contracts := make([]*contract.Contract, 0, len(models))
	for i := range models {
		c, err := r.modelToContract(&models[i])
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// modelToContract converts database model to domain entity
func (r *GormContractRepository) modelToContract(model *ContractModel) (*contract.Contract, error) {
	var details contract.Details
	if err := fromJSON(model.Details, &details); err != nil {
		return nil, fmt.Errorf("failed to decode contract details: %w", err)
	}
	return &contract.Contract{
		ID:               model.ID,
		Kind:             contract.Kind(model.Kind),
		PosterID:         model.PosterID,
		PosterKind:       contract.PosterKind(model.PosterKind),
		AcceptedBy:       model.AcceptedBy,
		Details:          details,
		DeadlineTick:     model.DeadlineTick,
		RewardCredits:    model.RewardCredits,
		RewardReputation: model.RewardReputation,
		EarlyBonusTicks:  model.EarlyBonusTicks,
		EarlyBonus:       model.EarlyBonus,
		EscrowedCredits:  model.EscrowedCredits,
		Progress:         model.Progress,
		Status:           contract.Status(model.Status),
		CreatedAtTick:    model.CreatedAtTick,
		AcceptedAtTick:   model.AcceptedAtTick,
		ResolvedAtTick:   model.ResolvedAtTick,
	}, nil
}

// contractToModel converts domain entity to database model
func (r *GormContractRepository) contractToModel(c *contract.Contract) (*ContractModel, error) {
	details, err := toJSON(c.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contract details: %w", err)
	}
	return &ContractModel{
		ID:               c.ID,
		Kind:             string(c.Kind),
		PosterID:         c.PosterID,
		PosterKind:       string(c.PosterKind),
		AcceptedBy:       c.AcceptedBy,
		Details:          details,
		DeadlineTick:     c.DeadlineTick,
		RewardCredits:    c.RewardCredits,
		RewardReputation: c.RewardReputation,
		EarlyBonusTicks:  c.EarlyBonusTicks,
		EarlyBonus:       c.EarlyBonus,
		EscrowedCredits:  c.EscrowedCredits,
		Progress:         c.Progress,
		Status:           string(c.Status),
		CreatedAtTick:    c.CreatedAtTick,
		AcceptedAtTick:   c.AcceptedAtTick,
		ResolvedAtTick:   c.ResolvedAtTick,
	}, nil
}
