package services

import (
  "bytes"
  "context"
  "fmt"
  "image"
  "image/color"
  "image/png"
  "math/rand"
  "os"
  "strings"
  "time"

  _ "image/jpeg"

  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/draw"
  "golang.org/x/image/font"
  "gopkg.in/yaml.v3"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

const avatarSize = 512

type AvatarService interface {
  CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
  CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error
  GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
  db    *gorm.DB
  log   *logger.Logger
  media MediaStore

  bgColors []color.NRGBA
  fontFace font.Face
}

// Built-in palette used when AVATAR_COLORS_PATH is not set.
var defaultAvatarColors = []color.NRGBA{
  {R: 0x2f, G: 0x6f, B: 0xed, A: 0xff},
  {R: 0xd9, G: 0x48, B: 0x41, A: 0xff},
  {R: 0x2e, G: 0x9e, B: 0x6b, A: 0xff},
  {R: 0xb0, G: 0x5c, B: 0xd6, A: 0xff},
  {R: 0xe0, G: 0x8a, B: 0x2e, A: 0xff},
  {R: 0x1f, G: 0x8f, B: 0x9f, A: 0xff},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, media MediaStore) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  bgColors := defaultAvatarColors
  if path := strings.TrimSpace(os.Getenv("AVATAR_COLORS_PATH")); path != "" {
    loaded, err := loadAvatarColors(path)
    if err != nil {
      return nil, fmt.Errorf("could not load avatar colors: %w", err)
    }
    if len(loaded) > 0 {
      bgColors = loaded
    }
  }

  var face font.Face
  if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
    loaded, err := loadFontFace(fontPath, 206)
    if err != nil {
      return nil, fmt.Errorf("could not load avatar font: %w", err)
    }
    face = loaded
  } else {
    serviceLog.Warn("AVATAR_FONT not set; avatars will be rendered without initials")
  }

  return &avatarService{
    db:       db,
    log:      serviceLog,
    media:    media,
    bgColors: bgColors,
    fontFace: face,
  }, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
  buf, err := as.GenerateUserAvatar(user)
  if err != nil {
    return err
  }

  oldKey := strings.TrimSpace(user.AvatarKey)

  // Versioned key so CDN/browser caches pick up replacements.
  newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

  url, err := as.media.Save(ctx, newKey, buf.Bytes())
  if err != nil {
    return fmt.Errorf("failed to store user avatar: %w", err)
  }
  user.AvatarKey = newKey
  user.AvatarURL = url

  if oldKey != "" && oldKey != newKey {
    if err := as.media.Delete(ctx, oldKey); err != nil {
      as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
    }
  }
  return nil
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error {
  src, _, err := image.Decode(bytes.NewReader(raw))
  if err != nil {
    return fmt.Errorf("failed to decode avatar image: %w", err)
  }

  dst := image.NewNRGBA(image.Rect(0, 0, avatarSize, avatarSize))
  draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

  var buf bytes.Buffer
  if err := png.Encode(&buf, dst); err != nil {
    return fmt.Errorf("failed to encode avatar image: %w", err)
  }

  oldKey := strings.TrimSpace(user.AvatarKey)
  newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())
  url, err := as.media.Save(ctx, newKey, buf.Bytes())
  if err != nil {
    return fmt.Errorf("failed to store user avatar: %w", err)
  }
  user.AvatarKey = newKey
  user.AvatarURL = url

  if oldKey != "" && oldKey != newKey {
    if err := as.media.Delete(ctx, oldKey); err != nil {
      as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
    }
  }
  return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
  var buf bytes.Buffer

  bg := as.bgColors[rand.Intn(len(as.bgColors))]

  dc := gg.NewContext(avatarSize, avatarSize)
  dc.SetColor(bg)
  dc.Clear()

  if as.fontFace != nil {
    initials := userInitials(user)
    dc.SetFontFace(as.fontFace)
    dc.SetRGB(1, 1, 1)
    dc.DrawStringAnchored(initials, float64(avatarSize)/2, float64(avatarSize)/2, 0.5, 0.5)
  }

  if err := dc.EncodePNG(&buf); err != nil {
    return buf, fmt.Errorf("failed to encode avatar png: %w", err)
  }
  return buf, nil
}

func userInitials(user *types.User) string {
  initials := ""
  if user.FirstName != "" {
    initials += strings.ToUpper(user.FirstName[:1])
  }
  if user.LastName != "" {
    initials += strings.ToUpper(user.LastName[:1])
  }
  if initials == "" {
    initials = "?"
  }
  return initials
}

type avatarColorsFile struct {
  Colors []string `yaml:"colors"`
}

func loadAvatarColors(path string) ([]color.NRGBA, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, err
  }
  var parsed avatarColorsFile
  if err := yaml.Unmarshal(raw, &parsed); err != nil {
    return nil, fmt.Errorf("parse %s: %w", path, err)
  }
  out := make([]color.NRGBA, 0, len(parsed.Colors))
  for _, hexStr := range parsed.Colors {
    c, err := parseHexColor(hexStr)
    if err != nil {
      return nil, err
    }
    out = append(out, c)
  }
  return out, nil
}

func parseHexColor(s string) (color.NRGBA, error) {
  s = strings.TrimPrefix(strings.TrimSpace(s), "#")
  if len(s) != 6 {
    return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
  }
  var r, g, b uint8
  if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
    return color.NRGBA{}, fmt.Errorf("bad hex color %q: %w", s, err)
  }
  return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func loadFontFace(path string, points float64) (font.Face, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, err
  }
  parsed, err := truetype.Parse(raw)
  if err != nil {
    return nil, fmt.Errorf("parse font %s: %w", path, err)
  }
  return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
