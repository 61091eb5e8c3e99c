package tick

import (
	"context"

	"go.uber.org/zap"

	"burnrate/internal/domain/event"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/world"
)

// progressSeason ends the running season once its configured length has
// elapsed: the final standings are sealed into the archive chain, the
// world's transient state is wiped, and the next season starts at the
// current tick. Accounts, licenses, faction identities, and (halved)
// reputation survive.
func (e *Engine) progressSeason(ctx context.Context, meta *world.Meta) error {
	if e.cfg.SeasonLengthTicks <= 0 {
		return nil
	}
	tick := meta.CurrentTick
	if tick-meta.SeasonStartTick < e.cfg.SeasonLengthTicks {
		return nil
	}

	scores, err := e.scores.FindBySeason(ctx, meta.Season)
	if err != nil {
		return err
	}
	standings := season.Rank(scores)
	archive, err := season.Seal(meta.Season, meta.SeasonStartTick, tick, e.clock.Now(), standings, meta.ArchiveHash)
	if err != nil {
		return err
	}
	if err := e.archives.Add(ctx, archive); err != nil {
		return err
	}

	zones, err := e.zones.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, z := range zones {
		z.ResetForSeason()
		if err := e.zones.Update(ctx, z); err != nil {
			return err
		}
	}

	players, err := e.players.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, p := range players {
		p.ResetForSeason()
		if err := e.players.Update(ctx, p); err != nil {
			return err
		}
	}

	factions, err := e.factions.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, f := range factions {
		f.EmptyTreasury()
		if err := e.factions.Update(ctx, f); err != nil {
			return err
		}
	}

	if err := e.shipments.DeleteAll(ctx); err != nil {
		return err
	}
	if err := e.units.DeleteAll(ctx); err != nil {
		return err
	}
	if err := e.orders.DeleteAll(ctx); err != nil {
		return err
	}
	if err := e.contracts.DeleteActive(ctx); err != nil {
		return err
	}
	if err := e.intel.DeleteAll(ctx); err != nil {
		return err
	}
	if err := e.prices.DeleteAll(ctx); err != nil {
		return err
	}

	ended := meta.Season
	meta.Season++
	meta.SeasonStartTick = tick
	meta.ArchiveHash = archive.Hash
	if err := e.meta.Save(ctx, meta); err != nil {
		return err
	}

	e.logger.Info("season reset",
		zap.Int("endedSeason", ended),
		zap.Int("newSeason", meta.Season),
		zap.Int64("tick", tick))

	return e.emitter.EmitSystem(ctx, event.TypeSeasonReset, tick, map[string]any{
		"ended_season": ended,
		"new_season":   meta.Season,
		"archive_hash": archive.Hash,
	})
}
