package tick

import (
	"context"
	"sort"
	"strconv"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// ArrivalReputation is the reputation award for a completed shipment.
const ArrivalReputation = 5

// InterceptionReputationLoss is the reputation penalty for losing a
// shipment to interception.
const InterceptionReputationLoss = -10

// moveShipments advances every in-transit shipment by one tick. A
// shipment completing a hop rolls interception on the edge it just
// crossed; survivors step forward, arrivals hand their cargo to the
// destination zone.
func (e *Engine) moveShipments(ctx context.Context, meta *world.Meta) error {
	inTransit, err := e.shipments.FindInTransit(ctx)
	if err != nil {
		return err
	}
	sort.Slice(inTransit, func(i, j int) bool { return inTransit[i].ID < inTransit[j].ID })

	g, err := e.graph.Graph(ctx)
	if err != nil {
		return err
	}

	for _, s := range inTransit {
		s.TicksToNext--
		if s.TicksToNext > 0 {
			if err := e.shipments.Update(ctx, s); err != nil {
				return err
			}
			continue
		}
		if err := e.resolveHop(ctx, g, s, meta); err != nil {
			return err
		}
	}
	return nil
}

// resolveHop handles a shipment that finished traversing an edge:
// interception roll, combat when it fires, then advancement or loss.
// Every random draw comes from a PRNG seeded by (shipment, tick, hop)
// so a replayed tick reproduces the same outcome.
func (e *Engine) resolveHop(ctx context.Context, g *world.Graph, s *shipment.Shipment, meta *world.Meta) error {
	tick := meta.CurrentTick
	route, ok := g.RouteBetween(s.CurrentZoneID(), s.NextZoneID())
	if !ok {
		return shared.NewInternalError("no route for in-transit shipment " + s.ID)
	}
	currentZone, err := e.zones.FindByID(ctx, s.CurrentZoneID())
	if err != nil {
		return err
	}
	escorts, err := e.units.FindByAssignment(ctx, s.ID)
	if err != nil {
		return err
	}
	var escortStrength float64
	for _, u := range escorts {
		escortStrength += float64(u.Strength)
	}

	raider, err := e.routeRaider(ctx, route.ID)
	if err != nil {
		return err
	}
	freshIntel := false
	if raider != nil {
		freshIntel, err = e.hasFreshRouteScan(ctx, raider.OwnerID, route.ID, tick)
		if err != nil {
			return err
		}
	}

	p := shipment.InterceptProbability(shipment.InterceptionInput{
		BaseRisk:         route.BaseRisk,
		Chokepoint:       route.Chokepoint,
		Visibility:       s.Kind.Visibility(),
		EscortStrength:   escortStrength,
		RaiderDeployed:   raider != nil,
		RaiderFreshIntel: freshIntel,
		CommsDefense:     currentZone.CommsDefense(),
	})

	rng := shared.DeterministicRand(s.ID, strconv.FormatInt(tick, 10), strconv.Itoa(s.HopIndex()))
	if rng.Float64() >= p {
		return e.advanceShipment(ctx, g, s, meta)
	}

	attackerStrength := float64(unit.AmbientRaiderStrength)
	if raider != nil {
		attackerStrength = float64(raider.Strength)
	}
	defenderStrength := escortStrength * (1 + currentZone.MedkitBonus())
	result := shipment.ResolveCombat(attackerStrength, defenderStrength, rng)

	lost := s.LoseCargo(result.CargoLossFraction)
	data := map[string]any{
		"shipment":   s.ID,
		"owner":      s.OwnerID,
		"route":      route.ID,
		"zone":       currentZone.ID,
		"outcome":    string(result.Outcome),
		"cargo_lost": lost.Total(),
	}
	if raider != nil {
		data["raider"] = raider.ID
	}
	if err := e.emitter.EmitSystem(ctx, event.TypeCombatResolved, tick, data); err != nil {
		return err
	}

	if result.AttackerLosesUnit && raider != nil {
		if err := e.units.Delete(ctx, raider.ID); err != nil {
			return err
		}
		err := e.emitter.EmitSystem(ctx, event.TypeUnitDeleted, tick, map[string]any{
			"unit":   raider.ID,
			"owner":  raider.OwnerID,
			"kind":   string(raider.Kind),
			"reason": "combat",
		})
		if err != nil {
			return err
		}
	}

	// Victory scoring: the attacking raider's owner on a victory, the
	// shipment owner when the escorts beat the attack off entirely.
	switch result.Outcome {
	case shipment.OutcomeDecisiveVictory, shipment.OutcomeCostlyVictory:
		if raider != nil {
			if err := e.scoreCombat(ctx, meta, raider.OwnerID); err != nil {
				return err
			}
		}
	case shipment.OutcomeDefeat:
		if err := e.scoreCombat(ctx, meta, s.OwnerID); err != nil {
			return err
		}
	}

	if !result.ShipmentLost {
		return e.advanceShipment(ctx, g, s, meta)
	}

	s.MarkIntercepted()
	if err := e.shipments.Update(ctx, s); err != nil {
		return err
	}
	if err := e.releaseEscorts(ctx, escorts, s.CurrentZoneID()); err != nil {
		return err
	}

	owner, err := e.players.FindByID(ctx, s.OwnerID)
	if err != nil {
		return err
	}
	owner.AddReputation(InterceptionReputationLoss)
	if err := e.players.Update(ctx, owner); err != nil {
		return err
	}

	metrics.RecordShipmentIntercepted()
	return e.emitter.EmitSystem(ctx, event.TypeShipmentIntercepted, tick, map[string]any{
		"shipment":   s.ID,
		"owner":      s.OwnerID,
		"route":      route.ID,
		"outcome":    string(result.Outcome),
		"cargo_lost": lost.Total(),
	})
}

// advanceShipment steps the shipment one position forward, completing
// the delivery when the new position is the path's end.
func (e *Engine) advanceShipment(ctx context.Context, g *world.Graph, s *shipment.Shipment, meta *world.Meta) error {
	s.Advance(g.Distance)
	if s.Status != shipment.StatusArrived {
		return e.shipments.Update(ctx, s)
	}

	tick := meta.CurrentTick
	dest, err := e.zones.FindByID(ctx, s.DestinationZoneID())
	if err != nil {
		return err
	}
	delivered := s.Cargo.Total()
	dest.Inventory.AddAll(s.Cargo)
	s.Cargo = shared.NewInventory()
	if err := e.zones.Update(ctx, dest); err != nil {
		return err
	}
	if err := e.shipments.Update(ctx, s); err != nil {
		return err
	}

	escorts, err := e.units.FindByAssignment(ctx, s.ID)
	if err != nil {
		return err
	}
	if err := e.releaseEscorts(ctx, escorts, dest.ID); err != nil {
		return err
	}

	owner, err := e.players.FindByID(ctx, s.OwnerID)
	if err != nil {
		return err
	}
	owner.AddReputation(ArrivalReputation)
	if err := e.players.Update(ctx, owner); err != nil {
		return err
	}
	if err := e.recorder.PlayerShipment(ctx, meta.Season, owner, tick); err != nil {
		return err
	}
	if err := e.recorder.PlayerReputation(ctx, meta.Season, owner, ArrivalReputation, tick); err != nil {
		return err
	}

	metrics.RecordShipmentArrived()
	return e.emitter.EmitSystem(ctx, event.TypeShipmentArrived, tick, map[string]any{
		"shipment": s.ID,
		"owner":    s.OwnerID,
		"zone":     dest.ID,
		"cargo":    delivered,
	})
}

// releaseEscorts detaches escorts from a finished shipment and places
// them at the given zone.
func (e *Engine) releaseEscorts(ctx context.Context, escorts []*unit.Unit, zoneID string) error {
	for _, u := range escorts {
		u.ClearAssignment()
		u.ZoneID = zoneID
		if err := e.units.Update(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// routeRaider returns the raider that ambushes on this route: the
// earliest deployed one when several sit on the same edge.
func (e *Engine) routeRaider(ctx context.Context, routeID string) (*unit.Unit, error) {
	raiders, err := e.units.FindByAssignment(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(raiders) == 0 {
		return nil, nil
	}
	sort.Slice(raiders, func(i, j int) bool {
		if raiders[i].CreatedAtTick != raiders[j].CreatedAtTick {
			return raiders[i].CreatedAtTick < raiders[j].CreatedAtTick
		}
		return raiders[i].ID < raiders[j].ID
	})
	return raiders[0], nil
}

// hasFreshRouteScan reports whether the player holds a Fresh scan of
// the route, which grants the raider its intel bonus.
func (e *Engine) hasFreshRouteScan(ctx context.Context, playerID, routeID string, tick int64) (bool, error) {
	report, err := e.intel.FreshestByTarget(ctx, playerID, intel.TargetRoute, routeID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return intel.FreshnessAt(tick-report.GatheredAt) == intel.FreshnessFresh, nil
}

// scoreCombat awards a combat victory to a player's season standing.
func (e *Engine) scoreCombat(ctx context.Context, meta *world.Meta, playerID string) error {
	p, err := e.players.FindByID(ctx, playerID)
	if err != nil {
		return err
	}
	return e.recorder.PlayerCombat(ctx, meta.Season, p, meta.CurrentTick)
}
