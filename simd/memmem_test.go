package simd

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func TestMemmem(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     int
	}{
		{"hello world", "world", 6},
		{"hello world", "xyz", -1},
		{"aaaaaabaaaa", "aab", 4},
		{"abc", "", 0},
		{"", "a", -1},
		{"ab", "abc", -1},
		{"abc", "abc", 0},
		{"xxxxxxxxxxxxxxxxxxxxqz", "qz", 20},
		{"The Quick brown fox", "Quick", 4},
		{strings.Repeat("ab", 40) + "abc", "abc", 80},
		{strings.Repeat("x", 100) + strings.Repeat("yz", 20), strings.Repeat("yz", 20), 100},
	}
	for _, tt := range tests {
		if got := Memmem([]byte(tt.haystack), []byte(tt.needle)); got != tt.want {
			t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestMemmemRandomAgainstStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte("ab\x00Z")
	for iter := 0; iter < 1000; iter++ {
		h := make([]byte, rng.Intn(60))
		for i := range h {
			h[i] = alphabet[rng.Intn(len(alphabet))]
		}
		n := make([]byte, 1+rng.Intn(5))
		for i := range n {
			n[i] = alphabet[rng.Intn(len(alphabet))]
		}
		if got, want := Memmem(h, n), bytes.Index(h, n); got != want {
			t.Fatalf("Memmem(%q, %q) = %d, want %d", h, n, got, want)
		}
	}
}

func TestRareBytesDistinctPositions(t *testing.T) {
	for _, needle := range []string{"ab", "aaaa", "hello", "Zebra!"} {
		i1, i2 := rareBytes([]byte(needle))
		if i1 >= i2 || i2 >= len(needle) {
			t.Errorf("rareBytes(%q) = %d, %d", needle, i1, i2)
		}
	}
}
