package services

import (
  "context"
  "fmt"
  "os"
  "path/filepath"
  "strings"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/utils"
)

// MediaStore writes generated files (avatars, PDF/XLSX exports) under a
// local root and maps keys to public URLs served by the router.
type MediaStore interface {
  Save(ctx context.Context, key string, data []byte) (string, error)
  Delete(ctx context.Context, key string) error
  PublicURL(key string) string
  Root() string
}

type mediaStore struct {
  log     *logger.Logger
  root    string
  baseURL string
}

func NewMediaStore(log *logger.Logger) (MediaStore, error) {
  serviceLog := log.With("service", "MediaStore")
  root := utils.GetEnv("MEDIA_ROOT", "./media", log)
  baseURL := strings.TrimRight(utils.GetEnv("MEDIA_BASE_URL", "/media", log), "/")
  if err := os.MkdirAll(root, 0o755); err != nil {
    return nil, fmt.Errorf("Failed to create media root %s: %w", root, err)
  }
  return &mediaStore{log: serviceLog, root: root, baseURL: baseURL}, nil
}

func (ms *mediaStore) Save(ctx context.Context, key string, data []byte) (string, error) {
  key = cleanMediaKey(key)
  if key == "" {
    return "", fmt.Errorf("empty media key")
  }
  path := filepath.Join(ms.root, filepath.FromSlash(key))
  if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
    return "", fmt.Errorf("Failed to create media dir: %w", err)
  }
  if err := os.WriteFile(path, data, 0o644); err != nil {
    return "", fmt.Errorf("Failed to write media file: %w", err)
  }
  ms.log.Debug("Media file written", "key", key, "bytes", len(data))
  return ms.PublicURL(key), nil
}

func (ms *mediaStore) Delete(ctx context.Context, key string) error {
  key = cleanMediaKey(key)
  if key == "" {
    return nil
  }
  path := filepath.Join(ms.root, filepath.FromSlash(key))
  if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
    return fmt.Errorf("Failed to delete media file: %w", err)
  }
  return nil
}

func (ms *mediaStore) PublicURL(key string) string {
  return ms.baseURL + "/" + cleanMediaKey(key)
}

func (ms *mediaStore) Root() string {
  return ms.root
}

// cleanMediaKey strips traversal segments so a key can never escape the
// media root.
func cleanMediaKey(key string) string {
  key = strings.TrimLeft(strings.TrimSpace(key), "/")
  cleaned := filepath.ToSlash(filepath.Clean("/" + key))
  return strings.TrimLeft(cleaned, "/")
}
