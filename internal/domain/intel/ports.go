package intel

import "context"

// ReportRepository defines intel persistence operations
type ReportRepository interface {
	FindByID(ctx context.Context, reportID string) (*Report, error)
	FindByGatherer(ctx context.Context, playerID string, limit int) ([]*Report, error)
	// FindByGatherers returns reports gathered by any of the given
	// players, newest first. Faction intel is the union over current
	// members.
	FindByGatherers(ctx context.Context, playerIDs []string, limit int) ([]*Report, error)
	FindByTarget(ctx context.Context, targetType TargetType, targetID string) ([]*Report, error)
	// FreshestByTarget returns the newest report on the target gathered
	// by the given player, or NotFound.
	FreshestByTarget(ctx context.Context, playerID string, targetType TargetType, targetID string) (*Report, error)
	Add(ctx context.Context, report *Report) error
	DeleteOlderThan(ctx context.Context, tick int64) (int64, error)
	DeleteAll(ctx context.Context) error
}
