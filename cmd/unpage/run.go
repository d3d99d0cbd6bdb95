package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/unpage/pkg/cache"
	"github.com/Sternrassler/unpage/pkg/client"
	"github.com/Sternrassler/unpage/pkg/logging"
	"github.com/Sternrassler/unpage/pkg/metrics"
	"github.com/Sternrassler/unpage/pkg/pagination"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const pushTimeout = 10 * time.Second

func runUnpage(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  opts.LogLevel,
		Pretty: opts.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	logger := logging.NewLogger("cli")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := client.DefaultConfig(userAgent())
	cfg.Header = opts.Header
	cfg.Header.Set("Accept", "application/json")
	cfg.Timeout = opts.Timeout
	cfg.Debug = opts.Debug
	cfg.TraceOutput = cmd.ErrOrStderr()

	if opts.RedisURL != "" {
		rdb, err := openRedis(ctx, opts.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		cfg.Cache = cache.NewManager(rdb, opts.CacheTTL)
		logger.Info().Str("redis", redactRedisURL(opts.RedisURL)).Msg("Response cache enabled")
	}

	c, err := client.New(cfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	unpager := pagination.New(c, pagination.Options{
		ParamPage:      opts.ParamPage,
		DataKey:        opts.DataKey,
		NextKey:        opts.NextKey,
		LastKey:        opts.LastKey,
		MaxConcurrency: opts.MaxConcurrency,
	})

	entries, runErr := unpager.Unpage(ctx, args[0], nil)

	if opts.Pushgateway != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
		if err := metrics.Push(pushCtx, opts.Pushgateway, metrics.DefaultJob); err != nil {
			logger.Warn().Err(err).Msg("Failed to push metrics")
		}
		cancel()
	}

	if runErr != nil {
		return runErr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

// openRedis connects to a redis:// URL or a bare host:port address.
func openRedis(ctx context.Context, raw string) (*redis.Client, error) {
	opt := &redis.Options{Addr: raw}
	if strings.Contains(raw, "://") {
		parsed, err := redis.ParseURL(raw)
		if err != nil {
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				err = urlErr.Err
			}
			return nil, fmt.Errorf("parse redis url %s: %w", redactRedisURL(raw), err)
		}
		opt = parsed
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opt.Addr, err)
	}
	return rdb, nil
}

// redactRedisURL hides the password of a redis:// URL.
func redactRedisURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
