package bregex_test

import (
	"fmt"
	"sync"

	"github.com/coregx/bregex"
)

// ExampleCompile demonstrates basic pattern compilation and matching.
func ExampleCompile() {
	re, err := bregex.Compile(`\d+`)
	if err != nil {
		panic(err)
	}

	fmt.Println(re.IsMatch("hello 123"))
	// Output: true
}

// ExampleRegex_Search demonstrates reading groups from a match.
func ExampleRegex_Search() {
	re := bregex.MustCompile(`(?P<word>\w+)-(\d+)`)
	m := re.Search("Test-123")

	whole, _ := m.Group(0)
	word, _ := m.GroupByName("word")
	num, _ := m.Group(2)
	start, end, _ := m.Span(0)
	fmt.Println(whole, word, num, start, end)
	// Output: Test-123 Test 123 0 8
}

// ExampleRegex_FindAll demonstrates collecting every match.
func ExampleRegex_FindAll() {
	re := bregex.MustCompile(`(?P<id>\d+)`)
	fmt.Println(re.FindAll("IDs: 101, 202, 303"))
	// Output: [101 202 303]
}

// ExampleRegex_FindIter demonstrates lazy iteration over matches.
func ExampleRegex_FindIter() {
	re := bregex.MustCompile(`a*`)
	it := re.FindIter("baa")
	for m := it.Next(); m != nil; m = it.Next() {
		s, e, _ := m.Span(0)
		fmt.Printf("[%d:%d] %q\n", s, e, m.String())
	}
	// Output:
	// [0:0] ""
	// [1:3] "aa"
	// [3:3] ""
}

// ExampleRegex_All demonstrates range-over-func iteration.
func ExampleRegex_All() {
	re := bregex.MustCompile(`(\w)\1`)
	for m := range re.All("aabcdd") {
		fmt.Println(m)
	}
	// Output:
	// aa
	// dd
}

// ExampleMatch_GroupDict demonstrates named groups and defaults.
func ExampleMatch_GroupDict() {
	re := bregex.MustCompile(`(?P<key>\w+)(?:=(?P<value>\w+))?`)
	m := re.Search("debug")
	fmt.Println(m.GroupDict("<unset>"))
	// Output: map[key:debug value:<unset>]
}

// ExampleRegex_Replace demonstrates substitution with group references.
func ExampleRegex_Replace() {
	re := bregex.MustCompile(`(?P<first>\w+) (?P<last>\w+)`)
	out, err := re.Replace("Ada Lovelace", `\g<last>, \1`)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: Lovelace, Ada
}

// ExampleRegex_Split demonstrates that captured separators are kept.
func ExampleRegex_Split() {
	fmt.Printf("%q\n", bregex.MustCompile(`\s*([,;])\s*`).Split("a , b;c"))
	// Output: ["a" "," "b" ";" "c"]
}

// ExampleEscape demonstrates escaping text for use in a pattern.
func ExampleEscape() {
	fmt.Println(bregex.Escape("[]", false, false))
	fmt.Println(bregex.Escape("1.5 + 2", true, true))
	// Output:
	// \[\]
	// 1\.5 \+ 2
}

// Example_sharedPattern shares one compiled pattern between four
// goroutines, each iterating over the same text.
func Example_sharedPattern() {
	re := bregex.MustCompile(`(?P<id>\d+)`)
	const text = "IDs: 101, 202, 303"

	results := make([][]string, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range re.All(text) {
				id, _ := m.GroupByName("id")
				results[i] = append(results[i], id)
			}
		}()
	}
	wg.Wait()

	for i, ids := range results {
		fmt.Printf("goroutine %d: %v\n", i, ids)
	}
	// Output:
	// goroutine 0: [101 202 303]
	// goroutine 1: [101 202 303]
	// goroutine 2: [101 202 303]
	// goroutine 3: [101 202 303]
}
