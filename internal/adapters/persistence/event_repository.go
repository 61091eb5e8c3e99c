package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/event"
)

// GormEventRepository implements EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event repository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Append persists an event and copies the storage-assigned sequence
// back onto it
func (r *GormEventRepository) Append(ctx context.Context, e *event.Event) error {
	model, err := r.eventToModel(e)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to append event: %w", result.Error)
	}
	e.Seq = model.Seq
	return nil
}

// FindByActor retrieves an actor's own events, newest first
func (r *GormEventRepository) FindByActor(ctx context.Context, actorID string, limit int) ([]*event.Event, error) {
	var models []EventModel
	result := dbFrom(ctx, r.db).
		Where("actor_id = ?", actorID).
		Order("seq DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events: %w", result.Error)
	}
	return r.modelsToEvents(models)
}

// FindVisible retrieves events the actor may read since a tick: their
// own plus world-public types, newest first
func (r *GormEventRepository) FindVisible(ctx context.Context, actorID string, sinceTick int64, limit int) ([]*event.Event, error) {
	var models []EventModel
	result := dbFrom(ctx, r.db).
		Where("tick >= ? AND (actor_id = ? OR type IN ?)", sinceTick, actorID, event.PublicTypes).
		Order("seq DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events: %w", result.Error)
	}
	return r.modelsToEvents(models)
}

// FindAfterSeq retrieves events past a webhook cursor, oldest first so
// deliveries replay in order
func (r *GormEventRepository) FindAfterSeq(ctx context.Context, actorID string, afterSeq int64, limit int) ([]*event.Event, error) {
	var models []EventModel
	result := dbFrom(ctx, r.db).
		Where("seq > ? AND (actor_id = ? OR type IN ?)", afterSeq, actorID, event.PublicTypes).
		Order("seq ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events: %w", result.Error)
	}
	return r.modelsToEvents(models)
}

// TailSeq retrieves the highest assigned sequence, 0 when the log is
// empty
func (r *GormEventRepository) TailSeq(ctx context.Context) (int64, error) {
	var tail int64
	result := dbFrom(ctx, r.db).Model(&EventModel{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&tail)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to read event tail: %w", result.Error)
	}
	return tail, nil
}

func (r *GormEventRepository) modelsToEvents(models []EventModel) ([]*event.Event, error) {
	events := make([]*event.Event, 0, len(models))
	for i := range models {
		e, err := r.modelToEvent(&models[i])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// modelToEvent converts database model to domain entity
func (r *GormEventRepository) modelToEvent(model *EventModel) (*event.Event, error) {
	data := map[string]any{}
	if err := fromJSON(model.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode event data: %w", err)
	}
	return &event.Event{
		ID:        model.ID,
		Seq:       model.Seq,
		Type:      model.Type,
		Tick:      model.Tick,
		Timestamp: model.Timestamp,
		ActorID:   model.ActorID,
		ActorKind: event.ActorKind(model.ActorKind),
		Data:      data,
	}, nil
}

// eventToModel converts domain entity to database model
func (r *GormEventRepository) eventToModel(e *event.Event) (*EventModel, error) {
	data, err := toJSON(e.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event data: %w", err)
	}
	return &EventModel{
		Seq:       e.Seq,
		ID:        e.ID,
		Type:      e.Type,
		Tick:      e.Tick,
		Timestamp: e.Timestamp,
		ActorID:   e.ActorID,
		ActorKind: string(e.ActorKind),
		Data:      data,
	}, nil
}
