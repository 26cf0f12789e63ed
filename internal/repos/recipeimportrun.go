package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type RecipeImportRunRepo interface {
  Create(ctx context.Context, tx *gorm.DB, runs []*types.RecipeImportRun) ([]*types.RecipeImportRun, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RecipeImportRun, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RecipeImportRun, error)
  ClaimNextRunnable(ctx context.Context, tx *gorm.DB, maxAttempts int, retryDelay time.Duration, staleRunning time.Duration) (*types.RecipeImportRun, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  Heartbeat(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type recipeImportRunRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecipeImportRunRepo(db *gorm.DB, baseLog *logger.Logger) RecipeImportRunRepo {
  repoLog := baseLog.With("repo", "RecipeImportRunRepo")
  return &recipeImportRunRepo{db: db, log: repoLog}
}

func (r *recipeImportRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.RecipeImportRun) ([]*types.RecipeImportRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(runs) == 0 {
    return []*types.RecipeImportRun{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&runs).Error; err != nil {
    return nil, err
  }
  return runs, nil
}

func (r *recipeImportRunRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RecipeImportRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.RecipeImportRun
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

func (r *recipeImportRunRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RecipeImportRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.RecipeImportRun
  if userID == uuid.Nil {
    return results, nil
  }
  q := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC")
  if limit > 0 {
    q = q.Limit(limit)
  }
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *recipeImportRunRepo) ClaimNextRunnable(
  ctx context.Context,
  tx *gorm.DB,
  maxAttempts int,
  retryDelay time.Duration,
  staleRunning time.Duration,
) (*types.RecipeImportRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  now := time.Now()
  retryCutoff := now.Add(-retryDelay)
  staleCutoff := now.Add(-staleRunning)

  var claimed *types.RecipeImportRun

  err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
    var run types.RecipeImportRun

    q := txx.
      Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
      Where(`
        (
          status = ?
          OR (
            status = ?
            AND attempts < ?
            AND (last_error_at IS NULL OR last_error_at < ?)
          )
          OR (
            status = ?
            AND heartbeat_at IS NOT NULL
            AND heartbeat_at < ?
          )
        )
      `, types.ImportStatusQueued, types.ImportStatusFailed, maxAttempts, retryCutoff, types.ImportStatusRunning, staleCutoff).
      Order("created_at ASC")

    qErr := q.First(&run).Error
    if errors.Is(qErr, gorm.ErrRecordNotFound) {
      return nil
    }
    if qErr != nil {
      return qErr
    }

    // Claim it: mark running, increment attempts, set lock/heartbeat.
    uErr := txx.Model(&types.RecipeImportRun{}).
      Where("id = ?", run.ID).
      Updates(map[string]interface{}{
        "status":       types.ImportStatusRunning,
        "attempts":     gorm.Expr("attempts + 1"),
        "locked_at":    now,
        "heartbeat_at": now,
        "updated_at":   now,
      }).Error
    if uErr != nil {
      return uErr
    }

    claimed = &run
    return nil
  })

  if err != nil {
    return nil, err
  }
  return claimed, nil
}

func (r *recipeImportRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.RecipeImportRun{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *recipeImportRunRepo) Heartbeat(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.RecipeImportRun{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "heartbeat_at": now,
      "updated_at":   now,
    }).Error
}
