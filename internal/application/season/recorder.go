package season

import (
	"context"

	"burnrate/internal/domain/player"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/shared"
)

// Recorder accumulates season score deltas. Callers pass the current
// season and tick; rows are created on first touch.
type Recorder struct {
	scores season.ScoreRepository
}

// NewRecorder creates a new Recorder
func NewRecorder(scores season.ScoreRepository) *Recorder {
	return &Recorder{scores: scores}
}

func (r *Recorder) load(ctx context.Context, seasonNum int, entityID string, kind season.EntityKind, name string) (*season.Score, error) {
	s, err := r.scores.Find(ctx, seasonNum, entityID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return season.NewScore(seasonNum, entityID, kind, name), nil
		}
		return nil, err
	}
	return s, nil
}

func (r *Recorder) recordPlayer(ctx context.Context, seasonNum int, p *player.Player, apply func(*season.Score)) error {
	s, err := r.load(ctx, seasonNum, p.ID, season.EntityPlayer, p.Name)
	if err != nil {
		return err
	}
	apply(s)
	return r.scores.Save(ctx, s)
}

// PlayerSupply scores delivered supply units.
func (r *Recorder) PlayerSupply(ctx context.Context, seasonNum int, p *player.Player, su int, tick int64) error {
	return r.recordPlayer(ctx, seasonNum, p, func(s *season.Score) { s.AddSupply(su, tick) })
}

// PlayerShipment scores a completed shipment.
func (r *Recorder) PlayerShipment(ctx context.Context, seasonNum int, p *player.Player, tick int64) error {
	return r.recordPlayer(ctx, seasonNum, p, func(s *season.Score) { s.AddShipment(tick) })
}

// PlayerContract scores a completed contract.
func (r *Recorder) PlayerContract(ctx context.Context, seasonNum int, p *player.Player, tick int64) error {
	return r.recordPlayer(ctx, seasonNum, p, func(s *season.Score) { s.AddContract(tick) })
}

// PlayerReputation scores positive reputation gains.
func (r *Recorder) PlayerReputation(ctx context.Context, seasonNum int, p *player.Player, delta int, tick int64) error {
	if delta <= 0 {
		return nil
	}
	return r.recordPlayer(ctx, seasonNum, p, func(s *season.Score) { s.AddReputation(delta, tick) })
}

// PlayerCombat scores a combat victory.
func (r *Recorder) PlayerCombat(ctx context.Context, seasonNum int, p *player.Player, tick int64) error {
	return r.recordPlayer(ctx, seasonNum, p, func(s *season.Score) { s.AddCombatVictory(tick) })
}

// SetFactionZoneControl replaces a faction's recomputed zone-control
// component for the tick.
func (r *Recorder) SetFactionZoneControl(ctx context.Context, seasonNum int, factionID, factionName string, points int64, tick int64) error {
	s, err := r.load(ctx, seasonNum, factionID, season.EntityFaction, factionName)
	if err != nil {
		return err
	}
	s.SetZoneControl(points, tick)
	return r.scores.Save(ctx, s)
}
