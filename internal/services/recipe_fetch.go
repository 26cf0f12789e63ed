package services

import (
  "context"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "strings"
  "time"

  redisclient "github.com/chefboard/chefboard-backend/internal/clients/redis"
  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/utils"
)

const fetchUserAgent = "chefboard-importer/1.0 (+https://chefboard.example)"

// PageFetcher downloads a recipe page, with an optional Redis cache in
// front so retries do not hit the source site twice.
type PageFetcher interface {
  Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

type pageFetcher struct {
  log      *logger.Logger
  client   *http.Client
  cache    redisclient.PageCache
  maxBytes int64
  cacheTTL time.Duration
}

func NewPageFetcher(log *logger.Logger, cache redisclient.PageCache) PageFetcher {
  serviceLog := log.With("service", "PageFetcher")
  timeout := time.Duration(utils.GetEnvAsInt("IMPORT_FETCH_TIMEOUT_SECONDS", 20, log)) * time.Second
  maxBytes := int64(utils.GetEnvAsInt("IMPORT_FETCH_MAX_BYTES", 5<<20, log))
  cacheTTL := time.Duration(utils.GetEnvAsInt("IMPORT_PAGE_CACHE_TTL_MINUTES", 15, log)) * time.Minute
  return &pageFetcher{
    log: serviceLog,
    client: &http.Client{
      Timeout: timeout,
    },
    cache:    cache,
    maxBytes: maxBytes,
    cacheTTL: cacheTTL,
  }
}

func (pf *pageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
  if err := ValidateImportURL(rawURL); err != nil {
    return nil, err
  }

  if pf.cache != nil {
    if body, ok, err := pf.cache.Get(ctx, rawURL); err != nil {
      pf.log.Warn("Page cache read failed", "url", rawURL, "error", err)
    } else if ok {
      pf.log.Debug("Page cache hit", "url", rawURL, "bytes", len(body))
      return body, nil
    }
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to build request: %w", err)
  }
  req.Header.Set("User-Agent", fetchUserAgent)
  req.Header.Set("Accept", "text/html,application/xhtml+xml")

  resp, err := pf.client.Do(req)
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch page: %w", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    return nil, fmt.Errorf("Source site returned status %d", resp.StatusCode)
  }
  if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "xml") {
    return nil, fmt.Errorf("Source page is not HTML (content type %s)", ct)
  }

  body, err := io.ReadAll(io.LimitReader(resp.Body, pf.maxBytes+1))
  if err != nil {
    return nil, fmt.Errorf("Failed to read page body: %w", err)
  }
  if int64(len(body)) > pf.maxBytes {
    return nil, fmt.Errorf("Page exceeds size limit of %d bytes", pf.maxBytes)
  }

  if pf.cache != nil {
    if err := pf.cache.Set(ctx, rawURL, body, pf.cacheTTL); err != nil {
      pf.log.Warn("Page cache write failed", "url", rawURL, "error", err)
    }
  }
  return body, nil
}

// ValidateImportURL rejects anything that is not a plain http(s) URL with
// a hostname. Local and loopback hosts are refused so the importer cannot
// be pointed at internal services.
func ValidateImportURL(rawURL string) error {
  parsed, err := url.Parse(strings.TrimSpace(rawURL))
  if err != nil {
    return fmt.Errorf("Invalid URL: %w", err)
  }
  if parsed.Scheme != "http" && parsed.Scheme != "https" {
    return fmt.Errorf("Only http and https URLs can be imported")
  }
  host := strings.ToLower(parsed.Hostname())
  if host == "" {
    return fmt.Errorf("URL has no host")
  }
  if host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".local") {
    return fmt.Errorf("Local addresses cannot be imported")
  }
  return nil
}
