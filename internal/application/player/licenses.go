package player

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

// UnlockLicenseCommand buys a shipment license with reputation-gated
// credits.
type UnlockLicenseCommand struct {
	License string
}

func (c *UnlockLicenseCommand) ActionName() string { return "unlock_license" }

func (c *UnlockLicenseCommand) LockKeys(actor *player.Player) []string {
	return nil
}

// UnlockLicenseResponse reports the purchase.
type UnlockLicenseResponse struct {
	License  player.License
	Credits  int64
	Licenses map[player.License]bool
}

// UnlockLicenseHandler handles the UnlockLicense command
type UnlockLicenseHandler struct {
	players player.PlayerRepository
	meta    world.MetaRepository
	txm     shared.TxManager
	emitter *actions.Emitter
}

// NewUnlockLicenseHandler creates a new UnlockLicenseHandler
func NewUnlockLicenseHandler(
	players player.PlayerRepository,
	meta world.MetaRepository,
	txm shared.TxManager,
	emitter *actions.Emitter,
) *UnlockLicenseHandler {
	return &UnlockLicenseHandler{players: players, meta: meta, txm: txm, emitter: emitter}
}

// Handle executes the UnlockLicense command
func (h *UnlockLicenseHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UnlockLicenseCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UnlockLicenseCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}

	license := player.License(cmd.License)
	if err := actor.UnlockLicense(license); err != nil {
		return nil, err
	}

	meta, err := h.meta.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = h.txm.Do(ctx, func(ctx context.Context) error {
		if err := h.players.Update(ctx, actor); err != nil {
			return err
		}
		return h.emitter.Emit(ctx, event.TypeLicenseUnlocked, meta.CurrentTick, actor.ID, map[string]any{
			"license": cmd.License,
		})
	})
	if err != nil {
		return nil, err
	}

	return &UnlockLicenseResponse{
		License:  license,
		Credits:  actor.Credits,
		Licenses: actor.Licenses,
	}, nil
}

// GetLicensesQuery lists held licenses and unlock requirements.
type GetLicensesQuery struct{}

// LicenseInfo describes one license and its unlock terms.
type LicenseInfo struct {
	License    player.License
	Held       bool
	Reputation int
	Cost       int64
}

// GetLicensesResponse is the license catalog for the caller.
type GetLicensesResponse struct {
	Licenses []LicenseInfo
}

// GetLicensesHandler handles the GetLicenses query
type GetLicensesHandler struct {
	players player.PlayerRepository
}

// NewGetLicensesHandler creates a new GetLicensesHandler
func NewGetLicensesHandler(players player.PlayerRepository) *GetLicensesHandler {
	return &GetLicensesHandler{players: players}
}

// Handle executes the GetLicenses query
func (h *GetLicensesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetLicensesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLicensesQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.players.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	out := make([]LicenseInfo, 0, 3)
	for _, l := range []player.License{player.LicenseCourier, player.LicenseFreight, player.LicenseConvoy} {
		rep, cost, _ := player.LicenseRequirement(l)
		out = append(out, LicenseInfo{
			License:    l,
			Held:       p.HasLicense(l),
			Reputation: rep,
			Cost:       cost,
		})
	}
	return &GetLicensesResponse{Licenses: out}, nil
}

// GetReputationQuery returns reputation and the derived title.
type GetReputationQuery struct{}

// GetReputationResponse carries the reputation standing.
type GetReputationResponse struct {
	Reputation int
	Title      string
}

// GetReputationHandler handles the GetReputation query
type GetReputationHandler struct {
	players player.PlayerRepository
}

// NewGetReputationHandler creates a new GetReputationHandler
func NewGetReputationHandler(players player.PlayerRepository) *GetReputationHandler {
	return &GetReputationHandler{players: players}
}

// Handle executes the GetReputation query
func (h *GetReputationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetReputationQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetReputationQuery")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.players.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &GetReputationResponse{Reputation: p.Reputation, Title: p.Title()}, nil
}
