package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type TemperatureReadingRepo interface {
  Create(ctx context.Context, tx *gorm.DB, readings []*types.TemperatureReading) ([]*types.TemperatureReading, error)
  ListByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, from, to time.Time) ([]*types.TemperatureReading, error)
  ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.TemperatureReading, error)
}

type temperatureReadingRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTemperatureReadingRepo(db *gorm.DB, baseLog *logger.Logger) TemperatureReadingRepo {
  repoLog := baseLog.With("repo", "TemperatureReadingRepo")
  return &temperatureReadingRepo{db: db, log: repoLog}
}

func (tr *temperatureReadingRepo) Create(ctx context.Context, tx *gorm.DB, readings []*types.TemperatureReading) ([]*types.TemperatureReading, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  if len(readings) == 0 {
    return []*types.TemperatureReading{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&readings).Error; err != nil {
    return nil, err
  }
  return readings, nil
}

func (tr *temperatureReadingRepo) ListByUnit(ctx context.Context, tx *gorm.DB, unitID uuid.UUID, from, to time.Time) ([]*types.TemperatureReading, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.TemperatureReading
  if unitID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("storage_unit_id = ? AND measured_at >= ? AND measured_at < ?", unitID, from, to).
    Order("measured_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *temperatureReadingRepo) ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.TemperatureReading, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.TemperatureReading
  if err := transaction.WithContext(ctx).
    Where("measured_at >= ? AND measured_at < ?", from, to).
    Order("measured_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
