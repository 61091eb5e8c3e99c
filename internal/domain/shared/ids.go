package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a new opaque entity id.
func NewID() string {
	return uuid.NewString()
}

// NewAPIKey mints an opaque player API key: two UUIDs joined without
// dashes, so keys are visually distinct from entity ids and long enough
// that guessing is not a concern.
func NewAPIKey() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
