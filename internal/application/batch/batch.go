package batch

import (
	"context"
	"fmt"

	"burnrate/internal/application/actions"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
)

// MaxBatchSize bounds how many actions one batch may carry.
const MaxBatchSize = 10

// BatchCommand applies up to MaxBatchSize actions sequentially,
// short-circuiting on the first failure. Operator tier and up. The
// whole batch's rate allowance is reserved up front so a batch cannot
// outrun the per-action budget; quota is still charged per inner
// action. The envelope itself is not an action, so the gate does not
// double-charge it.
type BatchCommand struct {
	Actions []mediator.Request
}

// BatchResult is one inner action's outcome.
type BatchResult struct {
	Index    int
	Action   string
	Response mediator.Response
	Error    string
	Code     string
}

// BatchResponse reports per-action outcomes in submission order. On a
// failure the failed entry is last and Completed is false.
type BatchResponse struct {
	Results   []BatchResult
	Completed bool
}

// BatchHandler handles the Batch command by re-dispatching each inner
// action through the mediator.
type BatchHandler struct {
	mediator mediator.Mediator
	limiters *actions.Limiters
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(m mediator.Mediator, limiters *actions.Limiters) *BatchHandler {
	return &BatchHandler{mediator: m, limiters: limiters}
}

// Handle executes the Batch command
func (h *BatchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*BatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *BatchCommand")
	}
	actor, err := auth.RequirePlayer(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Tier.AtLeast(player.TierOperator) {
		return nil, shared.NewPreconditionError("tier_too_low",
			"batch execution requires operator tier")
	}
	if len(cmd.Actions) == 0 {
		return nil, shared.NewValidationError("actions", "batch must contain at least one action")
	}
	if len(cmd.Actions) > MaxBatchSize {
		return nil, shared.NewValidationError("actions",
			fmt.Sprintf("batch must contain at most %d actions", MaxBatchSize))
	}
	names := make([]string, len(cmd.Actions))
	for i, req := range cmd.Actions {
		action, ok := req.(actions.Action)
		if !ok {
			return nil, shared.NewValidationError("actions",
				fmt.Sprintf("entry %d is not an action", i))
		}
		names[i] = action.ActionName()
	}

	if allowed, retryAfter := h.limiters.AllowN(actor.ID, len(cmd.Actions)); !allowed {
		return nil, shared.NewRateLimitedError(retryAfter)
	}

	resp := &BatchResponse{}
	innerCtx := actions.WithRateConsumed(ctx)
	for i, req := range cmd.Actions {
		result := BatchResult{Index: i, Action: names[i]}
		out, err := h.mediator.Send(innerCtx, req)
		if err != nil {
			result.Error = err.Error()
			result.Code = shared.CodeOf(err)
			resp.Results = append(resp.Results, result)
			return resp, nil
		}
		result.Response = out
		resp.Results = append(resp.Results, result)
	}
	resp.Completed = true
	return resp, nil
}
