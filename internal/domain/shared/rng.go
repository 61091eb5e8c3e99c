package shared

import (
	"encoding/binary"
	"math/rand"

	"lukechampine.com/blake3"
)

// SeedFrom derives a stable 64-bit seed from the given parts. Parts are
// length-delimited so ("ab","c") and ("a","bc") hash differently.
func SeedFrom(parts ...string) int64 {
	h := blake3.New(8, nil)
	for _, p := range parts {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	sum := h.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// DeterministicRand returns a PRNG whose sequence is a pure function of
// the given parts. Simulation outcomes (interception, combat, world
// generation) must draw from here; the global RNG would break replay.
func DeterministicRand(parts ...string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFrom(parts...)))
}
