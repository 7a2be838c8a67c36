// Package suggest derives a stable pseudo-random suggestion index per
// (date, slot) pair, so a day with no saved plan previews the same
// suggestion on every view without storing anything.
package suggest

// Per-slot seed offsets keep slots on the same date from collapsing onto
// the same index.
var slotOffsets = map[string]uint32{
	"breakfast": 0,
	"lunch":     100,
	"dinner":    200,
	"snacks":    300,
}

// Index returns a deterministic index in [0, candidateCount) for the given
// date string and slot. Same inputs always produce the same output; a
// different date or slot diverges with high probability (hash-based, not
// guaranteed). candidateCount of zero or less yields 0.
func Index(date, slot string, candidateCount int) int {
	if candidateCount <= 0 {
		return 0
	}

	seed := polyHash(date) + slotOffsets[slot]
	mixed := mix(seed)
	return int(mixed % uint32(candidateCount))
}

// polyHash folds the date string through a rolling ×31 polynomial hash,
// the same shape as the classic string hash, kept in 32 bits.
func polyHash(s string) uint32 {
	var h uint32
	for _, c := range []byte(s) {
		h = h*31 + uint32(c)
	}
	return h
}

// mix is a 32-bit finalizer (murmur3 style) applied on top of the weak
// polynomial hash. The original derivation leaned on float sine trickery;
// an integer avalanche keeps the contract exact and auditable.
func mix(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}
