package tick

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

type stage struct {
	name string
	run  func(ctx context.Context) error
}

// runPipeline executes the tick's stages in order. The transaction is
// the world model for the duration: every stage reads through it and
// sees the writes of the stages before it. A stage error aborts the
// tick; nothing commits.
func (e *Engine) runPipeline(ctx context.Context, meta *world.Meta) error {
	tick := meta.CurrentTick
	stages := []stage{
		{"maintenance", func(ctx context.Context) error { return e.collectMaintenance(ctx, tick) }},
		{"movement", func(ctx context.Context) error { return e.moveShipments(ctx, meta) }},
		{"production_refill", func(ctx context.Context) error { return e.refillProduction(ctx) }},
		{"supply_burn", func(ctx context.Context) error { return e.applySupplyBurn(ctx, tick) }},
		{"stockpile_decay", func(ctx context.Context) error { return e.decayStockpiles(ctx, tick) }},
		{"twap_progression", func(ctx context.Context) error { return e.progressTWAP(ctx, tick) }},
		{"conditional_arming", func(ctx context.Context) error { return e.armConditionals(ctx) }},
		{"market_matching", func(ctx context.Context) error { return e.matchMarkets(ctx, tick) }},
		{"contract_expiry", func(ctx context.Context) error { return e.expireContracts(ctx, tick) }},
		{"zone_income", func(ctx context.Context) error { return e.distributeIncome(ctx, meta) }},
		{"intel_sweep", func(ctx context.Context) error { return e.sweepIntel(ctx, tick) }},
		{"season_progression", func(ctx context.Context) error { return e.progressSeason(ctx, meta) }},
	}

	for _, s := range stages {
		started := e.clock.Now()
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s stage: %w", s.name, err)
		}
		metrics.RecordTickStage(s.name, e.clock.Since(started).Seconds())
	}

	return e.emitter.EmitSystem(ctx, event.TypeTickCompleted, tick, map[string]any{
		"tick":   tick,
		"season": meta.Season,
	})
}

// collectMaintenance charges every unit's upkeep to its owner. An owner
// whose balance would go negative loses units oldest-first, each
// deletion voiding that unit's unpaid charge, until the balance is
// non-negative again.
func (e *Engine) collectMaintenance(ctx context.Context, tick int64) error {
	units, err := e.units.FindAll(ctx)
	if err != nil {
		return err
	}
	byOwner := make(map[string][]*unit.Unit)
	for _, u := range units {
		byOwner[u.OwnerID] = append(byOwner[u.OwnerID], u)
	}
	owners := make([]string, 0, len(byOwner))
	for id := range byOwner {
		owners = append(owners, id)
	}
	sort.Strings(owners)

	for _, ownerID := range owners {
		owned := byOwner[ownerID]
		p, err := e.players.FindByID(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, u := range owned {
			p.Credits -= u.Maintenance
		}

		sort.Slice(owned, func(i, j int) bool {
			if owned[i].CreatedAtTick != owned[j].CreatedAtTick {
				return owned[i].CreatedAtTick < owned[j].CreatedAtTick
			}
			return owned[i].ID < owned[j].ID
		})
		for _, u := range owned {
			if p.Credits >= 0 {
				break
			}
			p.Credits += u.Maintenance
			if err := e.units.Delete(ctx, u.ID); err != nil {
				return err
			}
			err := e.emitter.EmitSystem(ctx, event.TypeUnitDeleted, tick, map[string]any{
				"unit":   u.ID,
				"owner":  u.OwnerID,
				"kind":   string(u.Kind),
				"reason": "maintenance",
			})
			if err != nil {
				return err
			}
		}
		if err := e.players.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// refillProduction restores factory capacity toward its ceiling.
func (e *Engine) refillProduction(ctx context.Context) error {
	zones, err := e.zones.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, z := range zones {
		if z.Kind != world.ZoneFactory {
			continue
		}
		z.RefillCapacity()
		if err := e.zones.Update(ctx, z); err != nil {
			return err
		}
	}
	return nil
}

// applySupplyBurn runs the per-zone burn accounting. A zone whose
// stockpile ran dry collapses: owner cleared, supply zeroed, event
// emitted.
func (e *Engine) applySupplyBurn(ctx context.Context, tick int64) error {
	zones, err := e.zones.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, z := range zones {
		prevOwner := z.OwnerFactionID
		res := z.ApplyBurn()
		if err := e.zones.Update(ctx, z); err != nil {
			return err
		}
		if !res.Collapsed {
			continue
		}
		metrics.RecordZoneCollapse(string(z.Kind))
		err := e.emitter.EmitSystem(ctx, event.TypeZoneCollapsed, tick, map[string]any{
			"zone":  z.ID,
			"kind":  string(z.Kind),
			"owner": prevOwner,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// decayStockpiles ages medkit and comms stockpiles. Both decay rates
// are multiples of 10 ticks, so other ticks are a no-op.
func (e *Engine) decayStockpiles(ctx context.Context, tick int64) error {
	if tick%10 != 0 {
		return nil
	}
	zones, err := e.zones.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, z := range zones {
		if z.MedkitStockpile == 0 && z.CommsStockpile == 0 {
			continue
		}
		z.DecayStockpiles(tick)
		if err := e.zones.Update(ctx, z); err != nil {
			return err
		}
	}
	return nil
}

// sweepIntel hard-deletes reports past the deletion age, every
// SweepEvery ticks.
func (e *Engine) sweepIntel(ctx context.Context, tick int64) error {
	if tick%intel.SweepEvery != 0 {
		return nil
	}
	deleted, err := e.intel.DeleteOlderThan(ctx, tick-intel.DeleteAge)
	if err != nil {
		return err
	}
	if deleted > 0 {
		e.logger.Debug("intel sweep",
			zap.Int64("tick", tick),
			zap.Int64("deleted", deleted))
	}
	return nil
}
