package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/coregx/bregex"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// hit is one matching line.
type hit struct {
	File  string   `json:"file"`
	Line  int      `json:"line"`
	Text  string   `json:"text"`
	Spans [][2]int `json:"spans"`
}

func newGrepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grep PATTERN FILE...",
		Short: "Print the lines of FILEs that match",
		Long: `Print the lines of FILEs that match as FILE:LINE:TEXT.
Files are searched concurrently with one shared compiled pattern.
Unreadable files are reported together after the results.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			hits, err := a.grep(re, args[1:], a.v.GetInt("jobs"))
			if a.jsonOutput() {
				if hits == nil {
					hits = []hit{}
				}
				if jerr := a.printJSON(hits); jerr != nil {
					return jerr
				}
			} else {
				for _, h := range hits {
					fmt.Fprintf(a.stdout, "%s:%d:%s\n", h.File, h.Line, a.highlight(h.Text, h.Spans))
				}
			}
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				return errNoMatch
			}
			return nil
		},
	}
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "number of files searched at once")
	return cmd
}

// grep searches files concurrently and returns the hits in argument order.
// A file that cannot be read does not stop the others; all such failures
// are returned together.
func (a *app) grep(re *bregex.Regex, files []string, jobs int) ([]hit, error) {
	if jobs < 1 {
		jobs = 1
	}
	perFile := make([][]hit, len(files))
	var (
		mu   sync.Mutex
		errs *multierror.Error
		g    errgroup.Group
	)
	g.SetLimit(jobs)
	for i, name := range files {
		g.Go(func() error {
			hits, err := grepFile(re, name)
			if err != nil {
				a.log.Warn().Err(err).Str("file", name).Msg("skipped")
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
				return nil
			}
			a.log.Debug().Str("file", name).Int("hits", len(hits)).Msg("searched")
			perFile[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []hit
	for _, hits := range perFile {
		all = append(all, hits...)
	}
	return all, errs.ErrorOrNil()
}

func grepFile(re *bregex.Regex, name string) ([]hit, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []hit
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		var spans [][2]int
		for m := range re.All(line) {
			s, e, _ := m.Span(0)
			spans = append(spans, [2]int{s, e})
		}
		if spans != nil {
			hits = append(hits, hit{File: name, Line: n, Text: line, Spans: spans})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return hits, nil
}
