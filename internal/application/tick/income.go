package tick

import (
	"context"
	"math"
	"sort"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/world"
)

// distributeIncome pays each owning faction its zones' per-tick income
// and recomputes the zone-control score component. Income splits
// equally among members active within the last day; the remainder (or
// everything, when nobody is active) lands in the treasury. Control
// points are a recomputed snapshot, so a faction that lost a zone this
// tick stops scoring it immediately.
func (e *Engine) distributeIncome(ctx context.Context, meta *world.Meta) error {
	tick := meta.CurrentTick
	zones, err := e.zones.FindAll(ctx)
	if err != nil {
		return err
	}
	factions, err := e.factions.FindAll(ctx)
	if err != nil {
		return err
	}

	income := make(map[string]int64)
	points := make(map[string]float64)
	owned := make(map[string]int)
	for _, z := range zones {
		if !z.IsOwned() {
			continue
		}
		income[z.OwnerFactionID] += world.IncomeFor(z.Kind)
		points[z.OwnerFactionID] += season.PointsPerZonePerTickBase * world.StreakMultiplier(z.ComplianceStreak)
		owned[z.OwnerFactionID]++
	}

	sort.Slice(factions, func(i, j int) bool { return factions[i].ID < factions[j].ID })
	activeSince := tick - e.cfg.TicksPerDay

	for _, f := range factions {
		if amount := income[f.ID]; amount > 0 {
			members, err := e.players.FindByFaction(ctx, f.ID)
			if err != nil {
				return err
			}
			var active []string
			for _, m := range members {
				if m.ActiveSince(activeSince) {
					active = append(active, m.ID)
				}
			}
			sort.Strings(active)

			remainder := amount
			if n := int64(len(active)); n > 0 && amount/n > 0 {
				share := amount / n
				remainder = amount % n
				for _, id := range active {
					if err := e.players.AddCredits(ctx, id, share); err != nil {
						return err
					}
				}
			}
			if remainder > 0 {
				if err := f.DepositCredits(remainder); err != nil {
					return err
				}
				if err := e.factions.Update(ctx, f); err != nil {
					return err
				}
			}
		}

		control := int64(math.Round(points[f.ID]))
		if err := e.recorder.SetFactionZoneControl(ctx, meta.Season, f.ID, f.Name, control, tick); err != nil {
			return err
		}
		metrics.SetZonesOwned(f.Tag, float64(owned[f.ID]))
	}
	return nil
}
