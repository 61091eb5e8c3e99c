package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"

	"burnrate/internal/application/logging"
	"burnrate/internal/domain/shared"
)

// errorBody is the envelope every failed request renders. Internal details
// never reach the body; the correlation id is the handle for log lookup.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

// writeJSON encodes v as the response body. The header is already on the
// wire if encoding fails, so the error is unrecoverable here.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status and renders the
// structured envelope. Rate limited responses carry Retry-After.
func writeError(w http.ResponseWriter, r *http.Request, correlationID string, err error) {
	status, code, message := statusOf(err)

	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		// Opaque body for internal failures.
		message = "internal error"
	}

	var rateErr *shared.RateLimitedError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		seconds := int(math.Ceil(rateErr.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:          code,
		Message:       message,
		CorrelationID: correlationID,
	}})
}

// statusOf resolves an error chain to status code, stable code and message.
func statusOf(err error) (int, string, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request_timeout", "request deadline exceeded"
	}

	code := shared.CodeOf(err)
	message := err.Error()
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch shared.KindOf(err) {
	case shared.KindUnauthorized:
		return http.StatusUnauthorized, code, message
	case shared.KindNotFound:
		return http.StatusNotFound, code, message
	case shared.KindConflict:
		return http.StatusConflict, code, message
	case shared.KindValidation:
		return http.StatusBadRequest, code, message
	case shared.KindPrecondition:
		return http.StatusUnprocessableEntity, code, message
	case shared.KindRateLimited:
		return http.StatusTooManyRequests, code, message
	case shared.KindQuotaExceeded:
		return http.StatusTooManyRequests, code, message
	case shared.KindTransactionConflict:
		return http.StatusConflict, code, message
	case shared.KindTransient:
		return http.StatusServiceUnavailable, code, message
	default:
		return http.StatusInternalServerError, code, message
	}
}
