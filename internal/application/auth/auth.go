package auth

import (
	"context"

	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
)

// Context keys for passing authentication data through context
type authContextKey int

const (
	apiKeyKey authContextKey = iota + 1000 // Offset from logger keys
	playerKey
	adminKey
)

// WithAPIKey injects the caller's API key into the context. The HTTP
// layer sets this from the X-API-Key header before dispatch.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyKey, key)
}

// APIKeyFromContext extracts the API key, or "" when the request was
// unauthenticated.
func APIKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyKey).(string)
	return key
}

// WithPlayer injects a resolved player entity into the context.
func WithPlayer(ctx context.Context, p *player.Player) context.Context {
	return context.WithValue(ctx, playerKey, p)
}

// PlayerFromContext extracts the resolved player, or nil when the
// request was unauthenticated.
func PlayerFromContext(ctx context.Context) *player.Player {
	p, _ := ctx.Value(playerKey).(*player.Player)
	return p
}

// RequirePlayer extracts the resolved player or fails with an
// unauthorized error.
func RequirePlayer(ctx context.Context) (*player.Player, error) {
	p := PlayerFromContext(ctx)
	if p == nil {
		return nil, shared.NewUnauthorizedError("missing or invalid API key")
	}
	return p, nil
}

// WithAdmin marks the context as carrying a valid admin key.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

// IsAdmin reports whether the request presented a valid admin key.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey).(bool)
	return admin
}

// RequireAdmin fails with an unauthorized error unless the request
// presented a valid admin key.
func RequireAdmin(ctx context.Context) error {
	if !IsAdmin(ctx) {
		return shared.NewUnauthorizedError("admin key required")
	}
	return nil
}

// Middleware creates middleware that resolves the API key in context to
// a player entity before the handler runs. Requests without a key pass
// through unresolved; handlers that need a player call RequirePlayer.
func Middleware(playerRepo player.PlayerRepository) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if key := APIKeyFromContext(ctx); key != "" && PlayerFromContext(ctx) == nil {
			playerEntity, err := playerRepo.FindByAPIKey(ctx, key)
			if err != nil {
				if shared.KindOf(err) != shared.KindNotFound {
					return nil, err
				}
			} else {
				ctx = WithPlayer(ctx, playerEntity)
			}
		}
		return next(ctx, request)
	}
}
