package webhooks

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/world"
)

// maxWebhooksPerPlayer bounds how many subscriptions one player may hold.
const maxWebhooksPerPlayer = 5

// RegisterWebhookCommand creates a delivery subscription. Operator tier
// and up. The signing secret is generated here and returned exactly
// once; afterwards only the digest-signed deliveries prove it.
type RegisterWebhookCommand struct {
	URL         string
	EventFilter []string
}

func (c *RegisterWebhookCommand) ActionName() string { return "register_webhook" }

func (c *RegisterWebhookCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.PlayerLock(actor.ID)}
}

// RegisterWebhookResponse carries the subscription and its one-time
// secret.
type RegisterWebhookResponse struct {
	Webhook *event.Webhook
	Secret  string
}

// DeleteWebhookCommand removes one of the caller's subscriptions.
type DeleteWebhookCommand struct {
	WebhookID string
}

func (c *DeleteWebhookCommand) ActionName() string { return "delete_webhook" }

func (c *DeleteWebhookCommand) LockKeys(actor *player.Player) []string {
	return []string{actions.PlayerLock(actor.ID)}
}

// DeleteWebhookResponse acknowledges the removal.
type DeleteWebhookResponse struct {
	WebhookID string
}

// WebhookHandler handles webhook registration and removal.
type WebhookHandler struct {
	webhooks event.WebhookRepository
	events   event.EventRepository
	meta     world.MetaRepository
	txm      shared.TxManager
	emitter  *actions.Emitter
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	webhooks event.WebhookRepository,
	events event.EventRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		events:   events,
		meta:     meta,
		txm:      txm,
		emitter:  emitter,
	}
}

// Handle executes a webhook command
func (h *WebhookHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"webhooks require operator tier")
	}
	switch cmd := request.(type) {
	case *RegisterWebhookCommand:
		return h.register(ctx, actor, cmd)
	case *DeleteWebhookCommand:
		return h.delete(ctx, actor, cmd)
	default:
		return nil, fmt.Errorf("invalid request type: expected a webhook command")
	}
}

func (h *WebhookHandler) register(ctx context.Context, actor *player.Player, cmd *RegisterWebhookCommand) (mediator.Response, error) {
	existing, err := h.webhooks.FindByPlayer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxWebhooksPerPlayer {
		return nil, shared.NewPreconditionError("webhook_cap_reached",
			fmt.Sprintf("at most %d webhooks per player", maxWebhooksPerPlayer))
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	// Start at the tail so the subscriber never receives history.
	tail, err := h.events.TailSeq(ctx)
	if err != nil {
		return nil, err
	}

	secret := shared.NewAPIKey()
	w, err := event.NewWebhook(shared.NewID(), actor.ID, cmd.URL, cmd.EventFilter, secret, tail, meta.CurrentTick)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.webhooks.Add(ctx, w); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeWebhookRegistered, meta.CurrentTick, actor.ID, map[string]any{
			"webhook": w.ID,
			"url":     w.URL,
		})
	})
	if err != nil {
		return nil, err
	}
	return &RegisterWebhookResponse{Webhook: w, Secret: secret}, nil
}

func (h *WebhookHandler) delete(ctx context.Context, actor *player.Player, cmd *DeleteWebhookCommand) (mediator.Response, error) {
	w, err := h.webhooks.FindByID(ctx, cmd.WebhookID)
	if err != nil {
		return nil, err
	}
	if w.PlayerID != actor.ID {
		return nil, shared.NewPreconditionError("not_your_webhook", "webhook is not yours")
	}
	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.webhooks.Delete(ctx, w.ID); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeWebhookDeleted, meta.CurrentTick, actor.ID, map[string]any{
			"webhook": w.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &DeleteWebhookResponse{WebhookID: w.ID}, nil
}

// ListWebhooksQuery lists the caller's subscriptions. Secrets are not
// included.
type ListWebhooksQuery struct{}

// WebhookSummary is a subscription without its secret.
type WebhookSummary struct {
	ID           string
	URL          string
	EventFilter  []string
	FailureCount int
	Disabled     bool
	CursorSeq    int64
}

// ListWebhooksResponse carries the summaries.
type ListWebhooksResponse struct {
	Webhooks []WebhookSummary
}

// ListWebhooksHandler handles the ListWebhooks query
type ListWebhooksHandler struct {
	webhooks event.WebhookRepository
}

// NewListWebhooksHandler creates a new ListWebhooksHandler
func NewListWebhooksHandler(webhooks event.WebhookRepository) *ListWebhooksHandler {
	return &ListWebhooksHandler{webhooks: webhooks}
}

// Handle executes the ListWebhooks query
func (h *ListWebhooksHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListWebhooksQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListWebhooksQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"webhooks require operator tier")
	}
	hooks, err := h.webhooks.FindByPlayer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	resp := &ListWebhooksResponse{}
	for _, w := range hooks {
		resp.Webhooks = append(resp.Webhooks, WebhookSummary{
			ID:           w.ID,
			URL:          w.URL,
			EventFilter:  w.EventFilter,
			FailureCount: w.FailureCount,
			Disabled:     w.Disabled,
			CursorSeq:    w.CursorSeq,
		})
	}
	return resp, nil
}
