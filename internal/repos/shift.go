package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type ShiftRepo interface {
  Create(ctx context.Context, tx *gorm.DB, shifts []*types.Shift) ([]*types.Shift, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Shift, error)
  ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.Shift, error)
  ListByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Shift, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type shiftRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewShiftRepo(db *gorm.DB, baseLog *logger.Logger) ShiftRepo {
  repoLog := baseLog.With("repo", "ShiftRepo")
  return &shiftRepo{db: db, log: repoLog}
}

func (sr *shiftRepo) Create(ctx context.Context, tx *gorm.DB, shifts []*types.Shift) ([]*types.Shift, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(shifts) == 0 {
    return []*types.Shift{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&shifts).Error; err != nil {
    return nil, err
  }
  return shifts, nil
}

func (sr *shiftRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Shift, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var results []*types.Shift
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *shiftRepo) ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.Shift, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var results []*types.Shift
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("starts_at < ? AND ends_at > ?", to, from).
    Order("starts_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *shiftRepo) ListByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Shift, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var results []*types.Shift
  if userID == uuid.Nil {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND starts_at < ? AND ends_at > ?", userID, to, from).
    Order("starts_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *shiftRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Shift{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (sr *shiftRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Shift{}).Error
}
