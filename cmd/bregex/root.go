package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/coregx/bregex"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = "~/.bregex.yaml"

// errNoMatch makes the process exit with status 1 without printing anything,
// the way grep reports an empty result.
var errNoMatch = errors.New("no match")

// app holds the state shared by every subcommand. Each invocation of
// newRootCmd gets its own viper instance so tests do not leak settings.
type app struct {
	v      *viper.Viper
	log    zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// hl colors matched text; err colors error messages.
	hl  *color.Color
	err *color.Color
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		log:    zerolog.Nop(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		hl:     color.New(color.FgRed, color.Bold),
		err:    color.New(color.FgRed),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bregex",
		Short:         "Search, replace and split text with backtracking regular expressions",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.BoolP("ignore-case", "i", false, "case-insensitive matching")
	pf.BoolP("multiline", "m", false, "^ and $ match at line boundaries")
	pf.BoolP("dotall", "s", false, ". matches newline")
	pf.BoolP("verbose", "x", false, "ignore whitespace and # comments in the pattern")
	pf.BoolP("ascii", "a", false, `\w, \d, \s and \b match ASCII only`)
	pf.Bool("json", false, "print results as JSON")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("config", "", "config file (default "+defaultConfigFile+")")

	root.AddCommand(
		newSearchCmd(a),
		newFindAllCmd(a),
		newReplaceCmd(a),
		newSplitCmd(a),
		newEscapeCmd(a),
		newGrepCmd(a),
	)
	return root
}

// setup binds flags, environment and config file, then configures color and
// logging. Precedence is flag, then BREGEX_* variable, then config file.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("bregex")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.readConfig(); err != nil {
		return err
	}

	if a.v.GetBool("no-color") || !isTerminal(a.stdout) {
		a.hl.DisableColor()
	}
	if a.v.GetBool("no-color") || !isTerminal(a.stderr) {
		a.err.DisableColor()
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    a.v.GetBool("no-color") || !isTerminal(a.stderr),
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
	return nil
}

// readConfig loads --config, or the default file when it exists.
func (a *app) readConfig() error {
	path := a.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !explicit {
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (a *app) flags() bregex.Flags {
	var f bregex.Flags
	for key, flag := range map[string]bregex.Flags{
		"ignore-case": bregex.IgnoreCase,
		"multiline":   bregex.MultiLine,
		"dotall":      bregex.DotAll,
		"verbose":     bregex.Verbose,
		"ascii":       bregex.ASCII,
	} {
		if a.v.GetBool(key) {
			f |= flag
		}
	}
	return f
}

func (a *app) compile(pattern string) (*bregex.Regex, error) {
	flags := a.flags()
	re, err := bregex.CompileFlags(pattern, flags)
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("pattern", pattern).
		Stringer("flags", flags).
		Int("groups", re.NumGroups()).
		Msg("compiled")
	return re, nil
}

// text returns arg, or all of standard input when arg is "-".
func (a *app) text(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
