package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type MenuRepo interface {
  CreateDays(ctx context.Context, tx *gorm.DB, days []*types.MenuDay) ([]*types.MenuDay, error)
  GetDaysByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MenuDay, error)
  GetDayByDateMeal(ctx context.Context, tx *gorm.DB, date time.Time, meal string) (*types.MenuDay, error)
  ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.MenuDay, error)
  UpdateDayFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  ReplaceCourses(ctx context.Context, tx *gorm.DB, menuDayID uuid.UUID, courses []*types.MenuCourse) error
  DeleteDays(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type menuRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMenuRepo(db *gorm.DB, baseLog *logger.Logger) MenuRepo {
  repoLog := baseLog.With("repo", "MenuRepo")
  return &menuRepo{db: db, log: repoLog}
}

func (mr *menuRepo) CreateDays(ctx context.Context, tx *gorm.DB, days []*types.MenuDay) ([]*types.MenuDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(days) == 0 {
    return []*types.MenuDay{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&days).Error; err != nil {
    return nil, err
  }
  return days, nil
}

func (mr *menuRepo) GetDaysByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MenuDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.MenuDay
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("Courses", func(db *gorm.DB) *gorm.DB {
      return db.Order("menu_course.sort_order ASC")
    }).
    Preload("Courses.Recipe").
    Preload("Courses.Recipe.Ingredients").
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *menuRepo) GetDayByDateMeal(ctx context.Context, tx *gorm.DB, date time.Time, meal string) (*types.MenuDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
  dayEnd := dayStart.AddDate(0, 0, 1)
  var result types.MenuDay
  err := transaction.WithContext(ctx).
    Preload("Courses", func(db *gorm.DB) *gorm.DB {
      return db.Order("menu_course.sort_order ASC")
    }).
    Preload("Courses.Recipe").
    Preload("Courses.Recipe.Ingredients").
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

func (mr *menuRepo) ListRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.MenuDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.MenuDay
  if err := transaction.WithContext(ctx).
    Preload("Courses", func(db *gorm.DB) *gorm.DB {
      return db.Order("menu_course.sort_order ASC")
    }).
    Preload("Courses.Recipe").
    Where("date >= ? AND date < ?", from, to).
    Order("date ASC, meal ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *menuRepo) UpdateDayFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.MenuDay{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (mr *menuRepo) ReplaceCourses(ctx context.Context, tx *gorm.DB, menuDayID uuid.UUID, courses []*types.MenuCourse) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if err := transaction.WithContext(ctx).
    Where("menu_day_id = ?", menuDayID).
    Delete(&types.MenuCourse{}).Error; err != nil {
    return err
  }
  if len(courses) == 0 {
    return nil
  }
  for i, course := range courses {
    course.MenuDayID = menuDayID
    course.SortOrder = i
    if course.ID == uuid.Nil {
      course.ID = uuid.New()
    }
  }
  return transaction.WithContext(ctx).Create(&courses).Error
}

func (mr *menuRepo) DeleteDays(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.MenuDay{}).Error
}
