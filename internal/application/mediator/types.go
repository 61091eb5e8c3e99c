package mediator

import "context"

// Request is a command or query dispatched through the mediator. The
// concrete type keys handler lookup.
type Request interface{}

// Response is whatever a handler returns for its request type.
type Response interface{}

// RequestHandler executes one request type.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to the dispatch chain.
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps handler execution with a cross-cutting concern:
// request logging, authentication, the action gate, bounded retry.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
