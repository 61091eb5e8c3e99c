package tick

import (
	"context"
	"sort"

	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/shared"
)

// expireContracts times out every open or accepted contract whose
// deadline has passed. The poster gets the escrow back minus the
// cancellation fee; an accepted contract simply fails for the acceptor.
func (e *Engine) expireContracts(ctx context.Context, tick int64) error {
	active, err := e.contracts.FindActive(ctx)
	if err != nil {
		return err
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	for _, c := range active {
		if !c.IsDue(tick) {
			continue
		}
		refund := c.Expire(tick)
		if err := e.refundPoster(ctx, c, refund); err != nil {
			return err
		}
		if err := e.contracts.Update(ctx, c); err != nil {
			return err
		}
		err := e.emitter.EmitSystem(ctx, event.TypeContractExpired, tick, map[string]any{
			"contract": c.ID,
			"kind":     string(c.Kind),
			"poster":   c.PosterID,
			"acceptor": c.AcceptedBy,
			"refund":   refund,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// refundPoster returns expired escrow to whoever funded the contract:
// the posting player's balance or the posting faction's treasury.
func (e *Engine) refundPoster(ctx context.Context, c *contract.Contract, refund int64) error {
	if refund <= 0 {
		return nil
	}
	switch c.PosterKind {
	case contract.PosterFaction:
		f, err := e.factions.FindByID(ctx, c.PosterID)
		if err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return nil // faction disbanded since posting; escrow is forfeit
			}
			return err
		}
		if err := f.DepositCredits(refund); err != nil {
			return err
		}
		return e.factions.Update(ctx, f)
	default:
		return e.players.AddCredits(ctx, c.PosterID, refund)
	}
}
