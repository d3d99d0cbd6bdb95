package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sternrassler/unpage/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "UNPAGE"
	envHeadersKey = "env-headers"
)

// options is the resolved command configuration: flags first, then
// UNPAGE_* environment variables, then flag defaults.
type options struct {
	Header         http.Header
	ParamPage      string
	DataKey        string
	NextKey        string
	LastKey        string
	MaxConcurrency int
	Timeout        time.Duration
	RedisURL       string
	CacheTTL       time.Duration
	Pushgateway    string
	LogLevel       logging.LogLevel
	Pretty         bool
	Debug          bool
}

func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if err := v.BindEnv("debug", "DEBUG"); err != nil {
		return nil, fmt.Errorf("bind DEBUG: %w", err)
	}
	// Header values may contain commas, so the environment form is one
	// "Key: Value" per line rather than viper's CSV list of the flag.
	if err := v.BindEnv(envHeadersKey, envPrefix+"_HEADERS"); err != nil {
		return nil, fmt.Errorf("bind %s_HEADERS: %w", envPrefix, err)
	}
	return v, nil
}

func loadOptions(cmd *cobra.Command) (options, error) {
	v, err := newViper(cmd)
	if err != nil {
		return options{}, err
	}

	rawHeaders, err := cmd.Flags().GetStringArray("headers")
	if err != nil {
		return options{}, err
	}
	if !cmd.Flags().Changed("headers") {
		rawHeaders = headerLines(v.GetString(envHeadersKey))
	}
	header, err := parseHeaders(rawHeaders)
	if err != nil {
		return options{}, err
	}

	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return options{}, err
	}

	opts := options{
		Header:         header,
		ParamPage:      v.GetString("param-page"),
		DataKey:        v.GetString("data-key"),
		NextKey:        v.GetString("next-key"),
		LastKey:        v.GetString("last-key"),
		MaxConcurrency: v.GetInt("max-concurrency"),
		Timeout:        v.GetDuration("timeout"),
		RedisURL:       v.GetString("redis-url"),
		CacheTTL:       v.GetDuration("cache-ttl"),
		Pushgateway:    v.GetString("pushgateway"),
		LogLevel:       level,
		Pretty:         v.GetBool("pretty"),
		Debug:          v.GetString("debug") != "",
	}

	if opts.ParamPage == "" {
		return options{}, fmt.Errorf("param-page must not be empty")
	}
	if opts.MaxConcurrency < 0 {
		return options{}, fmt.Errorf("max-concurrency must be >= 0 (got %d)", opts.MaxConcurrency)
	}
	if opts.Timeout < 0 {
		return options{}, fmt.Errorf("timeout must be >= 0 (got %s)", opts.Timeout)
	}
	if opts.CacheTTL <= 0 {
		return options{}, fmt.Errorf("cache-ttl must be > 0 (got %s)", opts.CacheTTL)
	}

	return opts, nil
}

// headerLines splits newline-separated headers, skipping blank lines.
func headerLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseHeaders turns "Key: Value" strings into a header. The value is split
// at the first colon and both sides are trimmed; later keys replace earlier.
func parseHeaders(raw []string) (http.Header, error) {
	header := http.Header{}
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: want \"Key: Value\"", h)
		}
		header.Set(key, strings.TrimSpace(value))
	}
	return header, nil
}
