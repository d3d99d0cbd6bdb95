package main

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "unpage URL" {
			t.Errorf("expected use 'unpage URL', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{"headers", "H", "[]"},
			{"param-page", "P", "page"},
			{"data-key", "D", ""},
			{"next-key", "N", ""},
			{"last-key", "L", ""},
			{"max-concurrency", "", "0"},
			{"timeout", "", "0s"},
			{"redis-url", "", ""},
			{"cache-ttl", "", "5m0s"},
			{"pushgateway", "", ""},
			{"log-level", "", "warn"},
			{"pretty", "", "false"},
		}

		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has version subcommand", func(t *testing.T) {
		t.Parallel()
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Use == "version" {
				found = true
			}
		}
		if !found {
			t.Error("expected version subcommand")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

func TestNewRootCmd_RequiresURL(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error without URL argument")
	}
}
