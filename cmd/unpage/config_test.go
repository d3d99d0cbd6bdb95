package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/unpage/pkg/logging"
)

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     []string
		want    http.Header
		wantErr bool
	}{
		{
			name: "empty",
			raw:  nil,
			want: http.Header{},
		},
		{
			name: "trims key and value",
			raw:  []string{"  Authorization :  Bearer abc "},
			want: http.Header{"Authorization": {"Bearer abc"}},
		},
		{
			name: "splits at first colon",
			raw:  []string{"X-Origin: https://example.com:8443"},
			want: http.Header{"X-Origin": {"https://example.com:8443"}},
		},
		{
			name: "later value replaces earlier",
			raw:  []string{"X-Token: one", "x-token: two"},
			want: http.Header{"X-Token": {"two"}},
		},
		{
			name: "empty value",
			raw:  []string{"X-Empty:"},
			want: http.Header{"X-Empty": {""}},
		},
		{
			name:    "missing colon",
			raw:     []string{"Authorization Bearer"},
			wantErr: true,
		},
		{
			name:    "missing key",
			raw:     []string{": value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseHeaders(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHeaders() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseHeaders() = %v, want %v", got, tt.want)
			}
			for key, values := range tt.want {
				if got.Get(key) != values[0] {
					t.Errorf("header %s = %q, want %q", key, got.Get(key), values[0])
				}
			}
		})
	}
}

func TestLoadOptions_Defaults(t *testing.T) {
	cmd := NewRootCmd()
	if err := cmd.ParseFlags([]string{}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		t.Fatalf("loadOptions() failed: %v", err)
	}

	if opts.ParamPage != "page" {
		t.Errorf("ParamPage = %q, want page", opts.ParamPage)
	}
	if opts.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %s, want 5m", opts.CacheTTL)
	}
	if opts.LogLevel != logging.LevelWarn {
		t.Errorf("LogLevel = %q, want warn", opts.LogLevel)
	}
	if opts.MaxConcurrency != 0 || opts.Timeout != 0 || opts.RedisURL != "" {
		t.Errorf("unexpected non-zero defaults: %+v", opts)
	}
}

func TestLoadOptions_Flags(t *testing.T) {
	cmd := NewRootCmd()
	err := cmd.ParseFlags([]string{
		"-H", "Authorization: token x",
		"-P", "p",
		"-D", "data",
		"-N", "links.next",
		"-L", "links.last",
		"--max-concurrency", "4",
		"--timeout", "30s",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		t.Fatalf("loadOptions() failed: %v", err)
	}

	if opts.Header.Get("Authorization") != "token x" {
		t.Errorf("Authorization = %q", opts.Header.Get("Authorization"))
	}
	if opts.ParamPage != "p" || opts.DataKey != "data" || opts.NextKey != "links.next" || opts.LastKey != "links.last" {
		t.Errorf("unexpected key options: %+v", opts)
	}
	if opts.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", opts.MaxConcurrency)
	}
	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", opts.Timeout)
	}
	if opts.LogLevel != logging.LevelDebug {
		t.Errorf("LogLevel = %q, want debug", opts.LogLevel)
	}
}

func TestLoadOptions_Environment(t *testing.T) {
	t.Setenv("UNPAGE_PARAM_PAGE", "pg")
	t.Setenv("UNPAGE_MAX_CONCURRENCY", "8")
	t.Setenv("UNPAGE_CACHE_TTL", "1h")
	t.Setenv("DEBUG", "1")

	cmd := NewRootCmd()
	if err := cmd.ParseFlags([]string{"--max-concurrency", "2"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		t.Fatalf("loadOptions() failed: %v", err)
	}

	if opts.ParamPage != "pg" {
		t.Errorf("ParamPage = %q, want pg from environment", opts.ParamPage)
	}
	if opts.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d, want explicit flag to win over environment", opts.MaxConcurrency)
	}
	if opts.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", opts.CacheTTL)
	}
	if !opts.Debug {
		t.Error("expected DEBUG to enable tracing")
	}
}

func TestHeaderLines(t *testing.T) {
	t.Parallel()

	got := headerLines("Authorization: token x\n\n  Accept: a, b  \r\n")
	want := []string{"Authorization: token x", "Accept: a, b"}
	if len(got) != len(want) {
		t.Fatalf("headerLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("headerLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if headerLines("") != nil {
		t.Error("headerLines(\"\") should be empty")
	}
}

func TestLoadOptions_HeadersFromEnvironment(t *testing.T) {
	t.Setenv("UNPAGE_HEADERS", "Authorization: token env\nX-Tags: a, b")

	t.Run("environment used without flag", func(t *testing.T) {
		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("ParseFlags: %v", err)
		}

		opts, err := loadOptions(cmd)
		if err != nil {
			t.Fatalf("loadOptions() failed: %v", err)
		}
		if opts.Header.Get("Authorization") != "token env" {
			t.Errorf("Authorization = %q, want token env", opts.Header.Get("Authorization"))
		}
		if opts.Header.Get("X-Tags") != "a, b" {
			t.Errorf("X-Tags = %q, want %q", opts.Header.Get("X-Tags"), "a, b")
		}
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"-H", "Authorization: token flag"}); err != nil {
			t.Fatalf("ParseFlags: %v", err)
		}

		opts, err := loadOptions(cmd)
		if err != nil {
			t.Fatalf("loadOptions() failed: %v", err)
		}
		if opts.Header.Get("Authorization") != "token flag" {
			t.Errorf("Authorization = %q, want token flag", opts.Header.Get("Authorization"))
		}
		if opts.Header.Get("X-Tags") != "" {
			t.Errorf("X-Tags = %q, want environment headers ignored", opts.Header.Get("X-Tags"))
		}
	})

	t.Run("invalid environment header", func(t *testing.T) {
		t.Setenv("UNPAGE_HEADERS", "nocolon")
		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("ParseFlags: %v", err)
		}
		if _, err := loadOptions(cmd); err == nil {
			t.Error("expected error for malformed UNPAGE_HEADERS")
		}
	})
}

func TestLoadOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad header", []string{"-H", "nocolon"}},
		{"empty param page", []string{"-P", ""}},
		{"negative concurrency", []string{"--max-concurrency", "-1"}},
		{"negative timeout", []string{"--timeout", "-1s"}},
		{"zero cache ttl", []string{"--cache-ttl", "0s"}},
		{"unknown log level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			if _, err := loadOptions(cmd); err == nil {
				t.Error("expected error")
			}
		})
	}
}
