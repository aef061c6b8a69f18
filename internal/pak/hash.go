package pak

import "sync"

// poly is the CRC polynomial shared with the game client's path hasher.
// The table is built big-endian (left-shift feedback), not the reflected
// form used by the standard CRC-32.
const poly uint32 = 0x04C11DB7

var hashTable = sync.OnceValue(func() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		acc := uint32(i) << 24
		for range 8 {
			if acc&0x80000000 != 0 {
				acc = acc<<1 ^ poly
			} else {
				acc <<= 1
			}
		}
		t[i] = acc
	}
	return &t
})

// Hash computes the archive's 32-bit path hash over b. The input is
// treated as zero-terminated: hashing stops at the first zero byte, and
// a terminator is assumed after the last byte if none is present.
//
// The initialization is not the standard CRC one and must not be
// "fixed": the first up-to-4 bytes are packed big-endian into the
// accumulator (stopping early at a zero byte), the accumulator is
// inverted, the remaining bytes are folded in one at a time, and the
// result is the final inversion. Empty input, or input starting with a
// zero byte, hashes to 0 (the root id).
func Hash(b []byte) uint32 {
	if len(b) == 0 || b[0] == 0 {
		return 0
	}
	table := hashTable()

	var acc uint32
	i := 0
	for ; i < 4 && i < len(b) && b[i] != 0; i++ {
		acc = acc<<8 | uint32(b[i])
	}
	acc <<= 8 * (4 - i)
	acc = ^acc

	// Fold from the first unconsumed byte; a zero byte terminates.
	for ; i < len(b) && b[i] != 0; i++ {
		acc = (acc<<8 | uint32(b[i])) ^ table[acc>>24]
	}
	return ^acc
}
