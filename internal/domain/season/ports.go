package season

import "context"

// ScoreRepository persists per-season standings rows keyed by
// (season, entityID).
type ScoreRepository interface {
	Find(ctx context.Context, season int, entityID string) (*Score, error)
	FindBySeason(ctx context.Context, season int) ([]*Score, error)
	Save(ctx context.Context, s *Score) error
}

// ArchiveRepository persists sealed seasons.
type ArchiveRepository interface {
	Find(ctx context.Context, season int) (*Archive, error)
	FindLatest(ctx context.Context) (*Archive, error)
	FindAll(ctx context.Context) ([]*Archive, error)
	Add(ctx context.Context, a *Archive) error
}
