package world

import "time"

// MetaID is the primary key of the single world_meta row.
const MetaID = 1

// Meta is the single-row world bookkeeping record. CurrentTick and
// LastTickAt together form the tick engine's idempotent claim: a tick is
// won by compare-and-swapping LastTickAt.
type Meta struct {
	ID              int
	CurrentTick     int64
	LastTickAt      time.Time
	Season          int
	SeasonStartTick int64
	Seed            string
	ArchiveHash     string // head of the season archive hash chain
}

// Week returns the 1-based week of the running season.
func (m *Meta) Week(ticksPerWeek int64) int {
	if ticksPerWeek <= 0 {
		return 1
	}
	return int((m.CurrentTick-m.SeasonStartTick)/ticksPerWeek) + 1
}
