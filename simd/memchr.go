// Package simd provides fast byte and substring scanning for the prefilters.
//
// Scans work eight bytes at a time on uint64 words (SWAR). On CPUs where
// the runtime's own vectorised bytes.IndexByte is available (AVX2 on x86-64,
// ASIMD on arm64) single-byte scans delegate to it instead; the choice is
// made once from golang.org/x/sys/cpu feature flags.
package simd

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// vectorIndexByte is set when bytes.IndexByte runs on vector registers.
var vectorIndexByte = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes sets the high bit of every zero byte of x. Bits above the first
// zero byte may be spurious, so callers only use the lowest set bit.
func zeroBytes(x uint64) uint64 {
	return (x - lo8) & ^x & hi8
}

func broadcast(b byte) uint64 {
	return uint64(b) * lo8
}

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o')
//	// pos == 4
func Memchr(haystack []byte, needle byte) int {
	if vectorIndexByte {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or needle2
// in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	m1, m2 := broadcast(needle1), broadcast(needle2)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		w := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(w^m1) | zeroBytes(w^m2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if c := haystack[i]; c == needle1 || c == needle2 {
			return i
		}
	}
	return -1
}

// Memchr3 returns the index of the first instance of needle1, needle2, or needle3
// in haystack, or -1 if none are present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	m1, m2, m3 := broadcast(needle1), broadcast(needle2), broadcast(needle3)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		w := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(w^m1) | zeroBytes(w^m2) | zeroBytes(w^m3); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if c := haystack[i]; c == needle1 || c == needle2 || c == needle3 {
			return i
		}
	}
	return -1
}

// memchrGeneric is the SWAR single-byte scan.
func memchrGeneric(haystack []byte, needle byte) int {
	m := broadcast(needle)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		if z := zeroBytes(binary.LittleEndian.Uint64(haystack[i:]) ^ m); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// MemchrPair returns the first index i such that haystack[i] == byte1 and
// haystack[i+offset] == byte2, or -1.
func MemchrPair(haystack []byte, byte1, byte2 byte, offset int) int {
	if offset < 0 || offset >= len(haystack) {
		return -1
	}
	m1, m2 := broadcast(byte1), broadcast(byte2)
	i := 0
	for ; i+8+offset <= len(haystack); i += 8 {
		w1 := binary.LittleEndian.Uint64(haystack[i:])
		w2 := binary.LittleEndian.Uint64(haystack[i+offset:])
		z1, z2 := zeroBytes(w1^m1), zeroBytes(w2^m2)
		// Spurious bits above the first real match of either word make the
		// AND unreliable, so confirm the candidate bytes directly.
		for z := z1 & z2; z != 0; z &= z - 1 {
			j := i + bits.TrailingZeros64(z)/8
			if haystack[j] == byte1 && haystack[j+offset] == byte2 {
				return j
			}
		}
	}
	for ; i+offset < len(haystack); i++ {
		if haystack[i] == byte1 && haystack[i+offset] == byte2 {
			return i
		}
	}
	return -1
}
