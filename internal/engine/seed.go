package engine

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomSeed returns a non-negative random seed. Falls back to a fixed
// value if crypto/rand fails, which beats panicking mid-request.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 42
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]))
	if seed < 0 {
		seed = -seed
	}
	if seed < 0 { // -MinInt64 stays negative
		seed = 0
	}
	return seed
}
