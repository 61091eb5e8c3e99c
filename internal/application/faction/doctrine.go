package faction

import (
	"context"
	"fmt"
	"strings"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// CreateDoctrineCommand writes a new strategy document. Officers and up.
type CreateDoctrineCommand struct {
	Title string
	Body  string
}

func (c *CreateDoctrineCommand) ActionName() string { return "create_doctrine" }

func (c *CreateDoctrineCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// UpdateDoctrineCommand revises an existing doctrine. Officers and up.
type UpdateDoctrineCommand struct {
	DoctrineID string
	Title      string
	Body       string
}

func (c *UpdateDoctrineCommand) ActionName() string { return "update_doctrine" }

func (c *UpdateDoctrineCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// DeleteDoctrineCommand removes a doctrine. Officers and up.
type DeleteDoctrineCommand struct {
	DoctrineID string
}

func (c *DeleteDoctrineCommand) ActionName() string { return "delete_doctrine" }

func (c *DeleteDoctrineCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.FactionLock(actor.FactionID)}
}

// DoctrineResponse reports the doctrine after a write.
type DoctrineResponse struct {
	Doctrine *faction.Doctrine
}

// DoctrineHandler handles the doctrine write commands.
type DoctrineHandler struct {
	factions  faction.FactionRepository
	doctrines faction.DoctrineRepository
	meta      world.MetaRepository
	txm       shared.TxManager
	emitter   *actions.Emitter
}

// NewDoctrineHandler creates a new DoctrineHandler
func NewDoctrineHandler(
	factions faction.FactionRepository,
	doctrines faction.DoctrineRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *DoctrineHandler {
	return &DoctrineHandler{
		factions:  factions,
		doctrines: doctrines,
		meta:      meta,
		txm:       txm,
		emitter:   emitter,
	}
}

// Handle executes a doctrine write command
func (h *DoctrineHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	f, err := h.factions.FindByID(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}
	if !f.Can(actor.ID, faction.CapEditDoctrine) {
		return nil, shared.NewPreconditionError("permission_denied",
			"only officers and the founder edit doctrine")
	}

	switch cmd := request.(type) {
	case *CreateDoctrineCommand:
		return h.create(ctx, actor, f, cmd)
	case *UpdateDoctrineCommand:
		return h.update(ctx, actor, f, cmd)
	case *DeleteDoctrineCommand:
		return h.delete(ctx, actor, f, cmd)
	default:
		return nil, fmt.Errorf("invalid request type: expected a doctrine command")
	}
}

func validateDoctrine(title, body string) error {
	if t := strings.TrimSpace(title); len(t) < 1 || len(t) > 100 {
		return shared.NewValidationError("title", "must be 1-100 characters")
	}
	if len(body) == 0 || len(body) > 16384 {
		return shared.NewValidationError("body", "must be 1-16384 bytes")
	}
	return nil
}

func (h *DoctrineHandler) create(ctx context.Context, actor *player.Player, f *faction.Faction, cmd *CreateDoctrineCommand) (mediator.Response, error) {
	if err := validateDoctrine(cmd.Title, cmd.Body); err != nil {
		return nil, err
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	d := faction.NewDoctrine(shared.NewID(), f.ID, cmd.Title, cmd.Body, actor.ID, meta.CurrentTick)
	f.DoctrineDigest = d.Digest

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.doctrines.Add(ctx, d); err != nil {
			return err
		}
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeDoctrineUpdated, meta.CurrentTick, actor.ID, map[string]any{
			"faction":  f.ID,
			"doctrine": d.ID,
			"digest":   d.Digest,
		})
	})
	if err != nil {
		return nil, err
	}
	return &DoctrineResponse{Doctrine: d}, nil
}

func (h *DoctrineHandler) update(ctx context.Context, actor *player.Player, f *faction.Faction, cmd *UpdateDoctrineCommand) (mediator.Response, error) {
	if err := validateDoctrine(cmd.Title, cmd.Body); err != nil {
		return nil, err
	}
	d, err := h.doctrines.FindByID(ctx, cmd.DoctrineID)
	if err != nil {
		return nil, err
	}
	if d.FactionID != f.ID {
		return nil, shared.NewNotFoundError("doctrine", cmd.DoctrineID)
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	d.Revise(cmd.Title, cmd.Body, meta.CurrentTick)
	f.DoctrineDigest = d.Digest

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.doctrines.Update(ctx, d); err != nil {
			return err
		}
		if err := h.factions.Update(ctx, f); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeDoctrineUpdated, meta.CurrentTick, actor.ID, map[string]any{
			"faction":  f.ID,
			"doctrine": d.ID,
			"digest":   d.Digest,
		})
	})
	if err != nil {
		return nil, err
	}
	return &DoctrineResponse{Doctrine: d}, nil
}

func (h *DoctrineHandler) delete(ctx context.Context, actor *player.Player, f *faction.Faction, cmd *DeleteDoctrineCommand) (mediator.Response, error) {
	d, err := h.doctrines.FindByID(ctx, cmd.DoctrineID)
	if err != nil {
		return nil, err
	}
	if d.FactionID != f.ID {
		return nil, shared.NewNotFoundError("doctrine", cmd.DoctrineID)
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.doctrines.Delete(ctx, d.ID); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeDoctrineUpdated, meta.CurrentTick, actor.ID, map[string]any{
			"faction":  f.ID,
			"doctrine": d.ID,
			"deleted":  true,
		})
	})
	if err != nil {
		return nil, err
	}
	return &DoctrineResponse{Doctrine: d}, nil
}

// ListDoctrinesQuery lists the caller's faction doctrines. All ranks
// read.
type ListDoctrinesQuery struct{}

// ListDoctrinesResponse carries the doctrine documents.
type ListDoctrinesResponse struct {
	Doctrines []*faction.Doctrine
}

// ListDoctrinesHandler handles the ListDoctrines query
type ListDoctrinesHandler struct {
	factions  faction.FactionRepository
	doctrines faction.DoctrineRepository
}

// NewListDoctrinesHandler creates a new ListDoctrinesHandler
func NewListDoctrinesHandler(factions faction.FactionRepository, doctrines faction.DoctrineRepository) *ListDoctrinesHandler {
	return &ListDoctrinesHandler{factions: factions, doctrines: doctrines}
}

// Handle executes the ListDoctrines query
func (h *ListDoctrinesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListDoctrinesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListDoctrinesQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if actor.FactionID == "" {
		return nil, shared.NewPreconditionError("not_in_faction",
			"you are not in a faction")
	}
	docs, err := h.doctrines.FindByFaction(ctx, actor.FactionID)
	if err != nil {
		return nil, err
	}
	return &ListDoctrinesResponse{Doctrines: docs}, nil
}
