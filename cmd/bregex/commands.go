package main

import (
	"fmt"
	"strings"

	"github.com/coregx/bregex"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search PATTERN TEXT",
		Short: "Print the first match and its groups",
		Long: `Print the first match and its groups, one per line as
INDEX[(NAME)] START END TEXT. Unmatched groups print -1 -1.
With --anchored the match must start at the beginning of TEXT;
with --full it must span all of TEXT.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.text(args[1])
			if err != nil {
				return err
			}
			var m *bregex.Match
			switch {
			case a.v.GetBool("full"):
				m = re.FullMatch(text)
			case a.v.GetBool("anchored"):
				m = re.Match(text)
			default:
				m = re.Search(text)
			}
			if a.jsonOutput() {
				var out []group
				if m != nil {
					out = groups(m)
				}
				if err := a.printJSON(out); err != nil {
					return err
				}
			} else if m != nil {
				for _, g := range groups(m) {
					label := fmt.Sprint(g.Index)
					if g.Name != "" {
						label += "(" + g.Name + ")"
					}
					s := ""
					if g.Text != nil {
						s = a.hl.Sprint(*g.Text)
					}
					fmt.Fprintf(a.stdout, "%s\t%d\t%d\t%s\n", label, g.Start, g.End, s)
				}
			}
			if m == nil {
				return errNoMatch
			}
			return nil
		},
	}
	cmd.Flags().Bool("anchored", false, "match only at the start of TEXT")
	cmd.Flags().Bool("full", false, "match only the whole of TEXT")
	return cmd
}

func newFindAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "findall PATTERN TEXT",
		Short: "Print every non-overlapping match, one per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.text(args[1])
			if err != nil {
				return err
			}
			all := re.FindAll(text)
			if a.jsonOutput() {
				if all == nil {
					all = []string{}
				}
				if err := a.printJSON(all); err != nil {
					return err
				}
			} else {
				for _, s := range all {
					fmt.Fprintln(a.stdout, s)
				}
			}
			if len(all) == 0 {
				return errNoMatch
			}
			return nil
		},
	}
}

func newReplaceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace PATTERN REPLACEMENT TEXT",
		Short: "Replace matches with a template",
		Long: `Replace matches with REPLACEMENT, which may refer to groups
as \1, \g<1> or \g<name>. With --literal the replacement is used as is.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.text(args[2])
			if err != nil {
				return err
			}
			repl := args[1]
			if a.v.GetBool("literal") {
				repl = strings.ReplaceAll(repl, `\`, `\\`)
			}
			out, n, err := re.ReplaceN(text, repl, a.v.GetInt("count"))
			if err != nil {
				return err
			}
			a.log.Debug().Int("replacements", n).Msg("replaced")
			if a.jsonOutput() {
				return a.printJSON(struct {
					Result       string `json:"result"`
					Replacements int    `json:"replacements"`
				}{out, n})
			}
			_, err = fmt.Fprint(a.stdout, out)
			return err
		},
	}
	cmd.Flags().Int("count", 0, "replace at most this many matches (0 replaces all)")
	cmd.Flags().Bool("literal", false, "use REPLACEMENT without expanding group references")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split PATTERN TEXT",
		Short: "Split TEXT around matches, one piece per line",
		Long: `Split TEXT around matches, one piece per line. The text of
capturing groups is included between pieces.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.text(args[1])
			if err != nil {
				return err
			}
			parts := re.SplitN(text, a.v.GetInt("maxsplit"))
			if a.jsonOutput() {
				return a.printJSON(parts)
			}
			for _, p := range parts {
				fmt.Fprintln(a.stdout, p)
			}
			return nil
		},
	}
	cmd.Flags().Int("maxsplit", 0, "split at most this many times (0 splits at every match)")
	return cmd
}

func newEscapeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escape TEXT",
		Short: "Escape TEXT so it matches itself as a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.text(args[0])
			if err != nil {
				return err
			}
			out := bregex.Escape(text, a.v.GetBool("special-only"), a.v.GetBool("literal-spaces"))
			if a.jsonOutput() {
				return a.printJSON(out)
			}
			_, err = fmt.Fprintln(a.stdout, out)
			return err
		},
	}
	cmd.Flags().Bool("special-only", false, "escape only pattern metacharacters and whitespace")
	cmd.Flags().Bool("literal-spaces", false, "leave spaces unescaped")
	return cmd
}
