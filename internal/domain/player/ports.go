package player

import "context"

// PlayerRepository defines player persistence operations
type PlayerRepository interface {
	FindByID(ctx context.Context, playerID string) (*Player, error)
	FindByName(ctx context.Context, name string) (*Player, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*Player, error)
	FindByFaction(ctx context.Context, factionID string) ([]*Player, error)
	FindAll(ctx context.Context) ([]*Player, error)
	Add(ctx context.Context, player *Player) error
	Update(ctx context.Context, player *Player) error
	// AddCredits atomically adjusts a balance in storage. Used for
	// transfers to players the caller holds no lock on; the adjusted
	// balance never goes below zero at the storage layer's discretion.
	AddCredits(ctx context.Context, playerID string, delta int64) error
	Count(ctx context.Context) (int64, error)
}
