package meta

import (
	"errors"
	"testing"

	"github.com/coregx/bregex/nfa"
	"github.com/coregx/bregex/syntax"
)

// TestDefaultConfigValues verifies DefaultConfig returns expected field values.
func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()

	if !c.EnablePrefilter {
		t.Error("EnablePrefilter should be true by default")
	}
	if c.Flags != 0 {
		t.Errorf("Flags = %v, want none", c.Flags)
	}
	if c.MaxLiterals != 64 {
		t.Errorf("MaxLiterals = %d, want 64", c.MaxLiterals)
	}
	if c.MaxRecursionDepth != 250 {
		t.Errorf("MaxRecursionDepth = %d, want 250", c.MaxRecursionDepth)
	}
	if c.MaxStates != 100_000 {
		t.Errorf("MaxStates = %d, want 100000", c.MaxStates)
	}
	if c.MaxVisitedEntries != nfa.DefaultMaxVisited {
		t.Errorf("MaxVisitedEntries = %d, want %d", c.MaxVisitedEntries, nfa.DefaultMaxVisited)
	}
}

// TestDefaultConfigPassesValidation verifies DefaultConfig always validates.
func TestDefaultConfigPassesValidation(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero literals", func(c *Config) { c.MaxLiterals = 0 }, "MaxLiterals"},
		{"max literals", func(c *Config) { c.MaxLiterals = 1000 }, ""},
		{"too many literals", func(c *Config) { c.MaxLiterals = 1001 }, "MaxLiterals"},
		{"literals ignored without prefilter", func(c *Config) {
			c.EnablePrefilter = false
			c.MaxLiterals = 0
		}, ""},
		{"depth below minimum", func(c *Config) { c.MaxRecursionDepth = 5 }, "MaxRecursionDepth"},
		{"depth at minimum", func(c *Config) { c.MaxRecursionDepth = 10 }, ""},
		{"depth above maximum", func(c *Config) { c.MaxRecursionDepth = 1001 }, "MaxRecursionDepth"},
		{"tiny program", func(c *Config) { c.MaxStates = 15 }, "MaxStates"},
		{"huge program", func(c *Config) { c.MaxStates = 10_000_001 }, "MaxStates"},
		{"memo disabled", func(c *Config) { c.MaxVisitedEntries = 0 }, ""},
		{"negative memo", func(c *Config) { c.MaxVisitedEntries = -1 }, "MaxVisitedEntries"},
		{"known flags", func(c *Config) { c.Flags = syntax.FoldCase | syntax.MultiLine }, ""},
		{"unknown flags", func(c *Config) { c.Flags = 1 << 12 }, "Flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()

			if (err != nil) != (tt.wantField != "") {
				t.Fatalf("Validate() error = %v, wantField %q", err, tt.wantField)
			}
			if err == nil {
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
			if !errors.Is(err, nfa.ErrInvalidConfig) {
				t.Errorf("errors.Is(%v, ErrInvalidConfig) = false", err)
			}
		})
	}
}

func TestCompileWithInvalidConfig(t *testing.T) {
	c := DefaultConfig()
	c.MaxRecursionDepth = 0
	if _, err := CompileWithConfig(`a`, c); err == nil {
		t.Fatal("expected config error")
	}
}

func TestCompileWithFlags(t *testing.T) {
	c := DefaultConfig()
	c.Flags = syntax.FoldCase
	engine, err := CompileWithConfig(`hello`, c)
	if err != nil {
		t.Fatal(err)
	}
	if !engine.IsMatch([]byte("say HeLLo")) {
		t.Error("case-insensitive config flag was not applied")
	}
}
