package meta

import (
	"sync"
	"testing"
)

// TestSearchStatePoolConcurrency exercises the search state pool under concurrent load.
func TestSearchStatePoolConcurrency(t *testing.T) {
	engine, err := Compile(`(\w+)`)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	const goroutines = 16
	const iterations = 100

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				haystack := []byte("hello world test")
				caps := engine.Search(haystack, 0)
				if caps == nil {
					t.Errorf("expected match, got nil")
					return
				}
				if s, e := caps.Span(1); string(haystack[s:e]) != "hello" {
					t.Errorf("got %q, want %q", haystack[s:e], "hello")
					return
				}
			}
		}()
	}

	wg.Wait()
}

// TestSearchStateReuseAcrossSizes checks that a pooled state sized for one
// haystack gives correct results on a longer and then a shorter one.
func TestSearchStateReuseAcrossSizes(t *testing.T) {
	engine, err := Compile(`(a+)(b+)`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input  string
		wantG1 string
	}{
		{"ab", "a"},
		{"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxaaab", "aaa"},
		{"zzab", "a"},
		{"ba", ""},
	}
	for _, tt := range tests {
		caps := engine.Search([]byte(tt.input), 0)
		if tt.wantG1 == "" {
			if caps != nil {
				t.Errorf("Search(%q) = %v, want nil", tt.input, caps.Slots())
			}
			continue
		}
		if caps == nil {
			t.Fatalf("Search(%q) = nil", tt.input)
		}
		s, e := caps.Span(1)
		if got := tt.input[s:e]; got != tt.wantG1 {
			t.Errorf("Search(%q) group 1 = %q, want %q", tt.input, got, tt.wantG1)
		}
	}
}

func TestCapturesDetachedFromPool(t *testing.T) {
	engine, err := Compile(`(x)?(y)`)
	if err != nil {
		t.Fatal(err)
	}
	first := engine.Search([]byte("xy"), 0)
	second := engine.Search([]byte("y"), 0)
	if first.Start(1) != 0 {
		t.Errorf("first match group 1 start = %d, want 0 (overwritten by a later search?)", first.Start(1))
	}
	if second.Matched(1) {
		t.Errorf("second match group 1 should not participate, got %v", second.Slots())
	}
}
