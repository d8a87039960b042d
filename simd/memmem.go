package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// The two rarest bytes of the needle (by a fixed English/source-text
// frequency ranking) are located together with MemchrPair, and each
// candidate is verified with bytes.Equal. Needles longer than 32 bytes go
// straight to bytes.Index, whose Rabin-Karp fallback bounds the worst case.
//
// Example:
//
//	pos := simd.Memmem([]byte("aaaaaabaaaa"), []byte("aab"))
//	// pos == 5
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	case len(needle) > 32:
		return bytes.Index(haystack, needle)
	}

	i1, i2 := rareBytes(needle)
	offset := i2 - i1
	// Candidate windows start at pos-i1; pos must leave room for the prefix
	// before i1 and the suffix after i2.
	limit := len(haystack) - (len(needle) - i1) + 1
	pos := i1
	for pos < limit {
		j := MemchrPair(haystack[pos:limit+offset], needle[i1], needle[i2], offset)
		if j < 0 {
			return -1
		}
		start := pos + j - i1
		if bytes.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		pos += j + 1
	}
	return -1
}

// rareBytes picks two distinct positions i1 < i2 of the rarest bytes in
// needle.
func rareBytes(needle []byte) (int, int) {
	a, b := 0, 1
	if byteRank(needle[b]) < byteRank(needle[a]) {
		a, b = b, a
	}
	for i := 2; i < len(needle); i++ {
		r := byteRank(needle[i])
		switch {
		case r < byteRank(needle[a]):
			a, b = i, a
		case r < byteRank(needle[b]):
			b = i
		}
	}
	return min(a, b), max(a, b)
}

// byteRank approximates how common a byte is in text; lower is rarer.
func byteRank(c byte) int {
	switch {
	case c == ' ' || c == 'e' || c == 't' || c == 'a' || c == 'o':
		return 250
	case c >= 'a' && c <= 'z':
		return 200
	case c == '\n' || c == '.' || c == ',' || c == '_' || c == '(' || c == ')':
		return 180
	case c >= '0' && c <= '9':
		return 160
	case c >= 'A' && c <= 'Z':
		return 150
	case c > ' ' && c < 0x7f:
		return 100
	case c == '\t' || c == '\r':
		return 90
	case c >= 0x80:
		return 60
	}
	return 10
}
