// Command bregex runs bregex patterns from the shell.
//
// Usage:
//
//	bregex search '(?P<id>\d+)' 'order 42'
//	bregex findall -i 'ab+' 'AB abbb'
//	bregex replace '(\w+)@(\w+)' '\2 at \1' 'me@home'
//	bregex split '\s*,\s*' 'a , b,c'
//	bregex escape 'a.b*c'
//	bregex grep 'TODO\((\w+)\)' *.go
//
// A text argument of "-" reads the text from standard input. Flags may also
// be set with BREGEX_* environment variables (BREGEX_IGNORE_CASE=true) or in
// ~/.bregex.yaml.
package main

import (
	"errors"
	"os"
)

var version = "dev"

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(a).Execute()
	if errors.Is(err, errNoMatch) {
		os.Exit(1)
	}
	if err != nil {
		fatal(a, err)
	}
}
