package redis

import (
  "context"
  "crypto/sha256"
  "encoding/hex"
  "errors"
  "fmt"
  "time"

  goredis "github.com/redis/go-redis/v9"

  "github.com/chefboard/chefboard-backend/internal/logger"
)

// PageCache stores fetched recipe pages keyed by URL hash so repeated import
// attempts (retries, re-imports) do not hammer the source site.
type PageCache interface {
  Get(ctx context.Context, url string) ([]byte, bool, error)
  Set(ctx context.Context, url string, body []byte, ttl time.Duration) error
  Close() error
}

type pageCache struct {
  log *logger.Logger
  rdb *goredis.Client
}

func NewPageCache(log *logger.Logger, addr string) (PageCache, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }
  if addr == "" {
    return nil, fmt.Errorf("missing redis addr")
  }
  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }
  return &pageCache{
    log: log.With("service", "RedisPageCache"),
    rdb: rdb,
  }, nil
}

func cacheKey(url string) string {
  sum := sha256.Sum256([]byte(url))
  return "import:page:" + hex.EncodeToString(sum[:])
}

func (c *pageCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
  val, err := c.rdb.Get(ctx, cacheKey(url)).Bytes()
  if errors.Is(err, goredis.Nil) {
    return nil, false, nil
  }
  if err != nil {
    return nil, false, err
  }
  return val, true, nil
}

func (c *pageCache) Set(ctx context.Context, url string, body []byte, ttl time.Duration) error {
  if ttl <= 0 {
    ttl = 15 * time.Minute
  }
  return c.rdb.Set(ctx, cacheKey(url), body, ttl).Err()
}

func (c *pageCache) Close() error {
  return c.rdb.Close()
}
