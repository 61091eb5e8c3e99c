package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/event"
)

// GormWebhookRepository implements WebhookRepository using GORM
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GORM webhook repository
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// FindByID retrieves a webhook by ID
func (r *GormWebhookRepository) FindByID(ctx context.Context, id string) (*event.Webhook, error) {
	var model WebhookModel
	result := dbFrom(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "webhook", id)
	}
	return r.modelToWebhook(&model)
}

// FindByPlayer retrieves a player's webhooks
func (r *GormWebhookRepository) FindByPlayer(ctx context.Context, playerID string) ([]*event.Webhook, error) {
	return r.findWhere(ctx, "player_id = ?", playerID)
}

// FindEnabled retrieves every webhook still eligible for delivery
func (r *GormWebhookRepository) FindEnabled(ctx context.Context) ([]*event.Webhook, error) {
	return r.findWhere(ctx, "disabled = ?", false)
}

// Add persists a new webhook
func (r *GormWebhookRepository) Add(ctx context.Context, w *event.Webhook) error {
	model, err := r.webhookToModel(w)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add webhook: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing webhook
func (r *GormWebhookRepository) Update(ctx context.Context, w *event.Webhook) error {
	model, err := r.webhookToModel(w)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update webhook: %w", result.Error)
	}
	return nil
}

// Delete removes a webhook
func (r *GormWebhookRepository) Delete(ctx context.Context, id string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&WebhookModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete webhook: %w", result.Error)
	}
	return nil
}

func (r *GormWebhookRepository) findWhere(ctx context.Context, cond string, args ...any) ([]*event.Webhook, error) {
	var models []WebhookModel
	result := dbFrom(ctx, r.db).Where(cond, args...).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", result.Error)
	}
	webhooks := make([]*event.Webhook, 0, len(models))
	for i := range models {
		w, err := r.modelToWebhook(&models[i])
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, nil
}

// modelToWebhook converts database model to domain entity
func (r *GormWebhookRepository) modelToWebhook(model *WebhookModel) (*event.Webhook, error) {
	var filter []string
	if err := fromJSON(model.EventFilter, &filter); err != nil {
		return nil, fmt.Errorf("failed to decode webhook filter: %w", err)
	}
	return &event.Webhook{
		ID:            model.ID,
		PlayerID:      model.PlayerID,
		URL:           model.URL,
		EventFilter:   filter,
		Secret:        model.Secret,
		FailureCount:  model.FailureCount,
		Disabled:      model.Disabled,
		CursorSeq:     model.CursorSeq,
		CreatedAtTick: model.CreatedAtTick,
	}, nil
}

// webhookToModel converts domain entity to database model
func (r *GormWebhookRepository) webhookToModel(w *event.Webhook) (*WebhookModel, error) {
	filter, err := toJSON(w.EventFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook filter: %w", err)
	}
	return &WebhookModel{
		ID:            w.ID,
		PlayerID:      w.PlayerID,
		URL:           w.URL,
		EventFilter:   filter,
		Secret:        w.Secret,
		FailureCount:  w.FailureCount,
		Disabled:      w.Disabled,
		CursorSeq:     w.CursorSeq,
		CreatedAtTick: w.CreatedAtTick,
	}, nil
}
