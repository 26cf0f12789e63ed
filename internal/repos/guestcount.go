package repos

import (
  "context"
  "errors"
  "time"

  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type GuestCountRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, gc *types.GuestCount) (*types.GuestCount, error)
  GetByDateMeal(ctx context.Context, tx *gorm.DB, date time.Time, meal string) (*types.GuestCount, error)
  ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.GuestCount, error)
}

type guestCountRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGuestCountRepo(db *gorm.DB, baseLog *logger.Logger) GuestCountRepo {
  repoLog := baseLog.With("repo", "GuestCountRepo")
  return &guestCountRepo{db: db, log: repoLog}
}

func (gr *guestCountRepo) Upsert(ctx context.Context, tx *gorm.DB, gc *types.GuestCount) (*types.GuestCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "date"}, {Name: "meal"}},
      DoUpdates: clause.AssignmentColumns([]string{"expected", "actual", "note", "updated_at"}),
    }).
    Create(gc).Error; err != nil {
    return nil, err
  }
  return gc, nil
}

func (gr *guestCountRepo) GetByDateMeal(ctx context.Context, tx *gorm.DB, date time.Time, meal string) (*types.GuestCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
  dayEnd := dayStart.AddDate(0, 0, 1)
  var result types.GuestCount
  err := transaction.WithContext(ctx).
    Where("date >= ? AND date < ? AND meal = ?", dayStart, dayEnd, meal).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (gr *guestCountRepo) ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.GuestCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var results []*types.GuestCount
  if err := transaction.WithContext(ctx).
    Where("date >= ? AND date < ?", from, to).
    Order("date ASC, meal ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
