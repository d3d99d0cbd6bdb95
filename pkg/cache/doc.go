// Package cache provides an optional Redis-backed cache for fetched pages.
//
// Paginated APIs are often re-read in full by scripts and cron jobs. When a
// cache is configured, every page response is stored together with its
// validators (ETag, Last-Modified) and the next fetch of the same page is
// sent as a conditional request. A 304 Not Modified answer is then served
// from Redis, including the original response headers, so Link-header
// pagination keeps working on cached pages.
//
// Cache Key Format:
//
//	unpage:<host>/<path>:<sorted query>:h=<header digest>
//
// The header digest covers the request headers so that responses fetched
// with different credentials never share an entry.
//
// TTL:
//
//   - Expires header of the response when present and in the future
//   - otherwise the Manager's fallback TTL (DefaultTTL unless configured)
//
// Example:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(rdb, 10*time.Minute)
//	c, err := client.New(client.Config{UserAgent: "unpage/0.1.0", Cache: manager})
package cache
