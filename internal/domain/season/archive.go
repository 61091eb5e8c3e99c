package season

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"

	"burnrate/internal/domain/shared"
)

// Archive is a sealed season. Standings are stored lz4-compressed; Hash
// chains over the previous archive's hash so the sequence of seasons is
// tamper-evident.
type Archive struct {
	Season      int
	StartedTick int64
	EndedTick   int64
	SealedAt    time.Time
	Compressed  []byte
	Hash        string
	PrevHash    string
}

// Seal compresses the standings and chains the digest. prevHash is ""
// for the first season.
func Seal(season int, startedTick, endedTick int64, sealedAt time.Time, standings []Standing, prevHash string) (*Archive, error) {
	payload, err := json.Marshal(standings)
	if err != nil {
		return nil, shared.NewInternalError(err.Error())
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, shared.NewInternalError(err.Error())
	}
	if err := zw.Close(); err != nil {
		return nil, shared.NewInternalError(err.Error())
	}
	return &Archive{
		Season:      season,
		StartedTick: startedTick,
		EndedTick:   endedTick,
		SealedAt:    sealedAt,
		Compressed:  buf.Bytes(),
		Hash:        chainDigest(prevHash, payload),
		PrevHash:    prevHash,
	}, nil
}

// Standings decompresses and decodes the archived leaderboard.
func (a *Archive) Standings() ([]Standing, error) {
	zr := lz4.NewReader(bytes.NewReader(a.Compressed))
	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, shared.NewInternalError(err.Error())
	}
	var standings []Standing
	if err := json.Unmarshal(payload, &standings); err != nil {
		return nil, shared.NewInternalError(err.Error())
	}
	return standings, nil
}

// Verify recomputes the chained digest from the stored payload.
func (a *Archive) Verify() (bool, error) {
	zr := lz4.NewReader(bytes.NewReader(a.Compressed))
	payload, err := io.ReadAll(zr)
	if err != nil {
		return false, shared.NewInternalError(err.Error())
	}
	return chainDigest(a.PrevHash, payload) == a.Hash, nil
}

// chainDigest hashes the previous archive hash followed by the raw
// standings payload.
func chainDigest(prevHash string, payload []byte) string {
	chained := make([]byte, 0, len(prevHash)+len(payload))
	chained = append(chained, prevHash...)
	chained = append(chained, payload...)
	return shared.DigestHex(chained)
}
