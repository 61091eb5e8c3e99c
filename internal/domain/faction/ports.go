package faction

import "context"

// FactionRepository defines faction persistence operations
type FactionRepository interface {
	FindByID(ctx context.Context, factionID string) (*Faction, error)
	FindByName(ctx context.Context, name string) (*Faction, error)
	FindByTag(ctx context.Context, tag string) (*Faction, error)
	FindAll(ctx context.Context) ([]*Faction, error)
	Add(ctx context.Context, faction *Faction) error
	Update(ctx context.Context, faction *Faction) error
	Delete(ctx context.Context, factionID string) error
}

// DoctrineRepository defines doctrine persistence operations
type DoctrineRepository interface {
	FindByID(ctx context.Context, doctrineID string) (*Doctrine, error)
	FindByFaction(ctx context.Context, factionID string) ([]*Doctrine, error)
	Add(ctx context.Context, doctrine *Doctrine) error
	Update(ctx context.Context, doctrine *Doctrine) error
	Delete(ctx context.Context, doctrineID string) error
}
