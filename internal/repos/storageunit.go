package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type StorageUnitRepo interface {
  Create(ctx context.Context, tx *gorm.DB, units []*types.StorageUnit) ([]*types.StorageUnit, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StorageUnit, error)
  List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.StorageUnit, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type storageUnitRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStorageUnitRepo(db *gorm.DB, baseLog *logger.Logger) StorageUnitRepo {
  repoLog := baseLog.With("repo", "StorageUnitRepo")
  return &storageUnitRepo{db: db, log: repoLog}
}

func (sr *storageUnitRepo) Create(ctx context.Context, tx *gorm.DB, units []*types.StorageUnit) ([]*types.StorageUnit, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(units) == 0 {
    return []*types.StorageUnit{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&units).Error; err != nil {
    return nil, err
  }
  return units, nil
}

func (sr *storageUnitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StorageUnit, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var results []*types.StorageUnit
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *storageUnitRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.StorageUnit, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  q := transaction.WithContext(ctx).Model(&types.StorageUnit{})
  if activeOnly {
    q = q.Where("active = ?", true)
  }
  var results []*types.StorageUnit
  if err := q.Order("name ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *storageUnitRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.StorageUnit{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (sr *storageUnitRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.StorageUnit{}).Error
}
