package shared_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burnrate/internal/domain/shared"
)

func TestKindOf_ClassifiesThroughWrapping(t *testing.T) {
	base := shared.NewPreconditionError("zone_not_capturable", "cannot capture")
	wrapped := fmt.Errorf("capture zone: %w", base)

	assert.Equal(t, shared.KindPrecondition, shared.KindOf(wrapped))
	assert.Equal(t, "zone_not_capturable", shared.CodeOf(wrapped))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("disk on fire")

	assert.Equal(t, shared.KindInternal, shared.KindOf(err))
	assert.Equal(t, "internal", shared.CodeOf(err))
}

func TestRetryable(t *testing.T) {
	assert.True(t, shared.Retryable(shared.NewTransactionConflictError("lost the race")))
	assert.True(t, shared.Retryable(shared.NewTransientError("connection reset")))
	assert.False(t, shared.Retryable(shared.NewValidationError("price", "must be positive")))
	assert.False(t, shared.Retryable(errors.New("plain")))
}

func TestValidationError_CarriesFieldAndUnwraps(t *testing.T) {
	err := shared.NewValidationError("quantity", "must be positive")

	assert.Equal(t, "quantity", err.Field)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "validation", domainErr.Code)
}

func TestRateLimitedError_RetryAfter(t *testing.T) {
	err := shared.NewRateLimitedError(250 * time.Millisecond)

	assert.Equal(t, 250*time.Millisecond, err.RetryAfter)
	assert.Equal(t, shared.KindRateLimited, shared.KindOf(err))
	assert.Contains(t, err.Error(), "250ms")
}

func TestNewNotFoundError_CodeFromResource(t *testing.T) {
	err := shared.NewNotFoundError("shipment", "shp-42")

	assert.Equal(t, "shipment_not_found", err.Code)
	assert.Contains(t, err.Message, "shp-42")
}
