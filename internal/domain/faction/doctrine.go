package faction

import (
	"burnrate/internal/domain/shared"
)

// Doctrine is a faction strategy document. The faction records the
// digest of its most recently updated doctrine so members can detect
// edits without fetching bodies.
type Doctrine struct {
	ID            string
	FactionID     string
	Title         string
	Body          string
	Digest        string
	AuthorID      string
	CreatedAtTick int64
	UpdatedAtTick int64
}

// NewDoctrine creates a doctrine with its body digest computed.
func NewDoctrine(id, factionID, title, body, authorID string, tick int64) *Doctrine {
	return &Doctrine{
		ID:            id,
		FactionID:     factionID,
		Title:         title,
		Body:          body,
		Digest:        shared.DigestHex([]byte(body)),
		AuthorID:      authorID,
		CreatedAtTick: tick,
		UpdatedAtTick: tick,
	}
}

// Revise replaces the doctrine body and recomputes the digest.
func (d *Doctrine) Revise(title, body string, tick int64) {
	d.Title = title
	d.Body = body
	d.Digest = shared.DigestHex([]byte(body))
	d.UpdatedAtTick = tick
}
