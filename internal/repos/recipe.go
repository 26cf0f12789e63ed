package repos

import (
  "context"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type RecipeFilter struct {
  UserID   uuid.UUID
  Category string
  Search   string
}

type RecipeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Recipe, error)
  List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  ReplaceIngredients(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ingredients []*types.RecipeIngredient) error
  ReplaceSteps(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, steps []*types.RecipeStep) error
  Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type recipeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
  repoLog := baseLog.With("repo", "RecipeRepo")
  return &recipeRepo{db: db, log: repoLog}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(recipes) == 0 {
    return []*types.Recipe{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
    return nil, err
  }
  return recipes, nil
}

func (rr *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Recipe, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.Recipe
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
      return db.Order("recipe_ingredient.sort_order ASC")
    }).
    Preload("Steps", func(db *gorm.DB) *gorm.DB {
      return db.Order("recipe_step.position ASC")
    }).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  q := transaction.WithContext(ctx).Model(&types.Recipe{})
  if filter.UserID != uuid.Nil {
    q = q.Where("user_id = ?", filter.UserID)
  }
  if filter.Category != "" {
    q = q.Where("category = ?", filter.Category)
  }
  if s := strings.TrimSpace(filter.Search); s != "" {
    pattern := "%" + strings.ToLower(s) + "%"
    q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
  }
  var results []*types.Recipe
  if err := q.Order("title ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *recipeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(updates) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Recipe{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (rr *recipeRepo) ReplaceIngredients(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ingredients []*types.RecipeIngredient) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if err := transaction.WithContext(ctx).
    Where("recipe_id = ?", recipeID).
    Delete(&types.RecipeIngredient{}).Error; err != nil {
    return err
  }
  if len(ingredients) == 0 {
    return nil
  }
  for i, ing := range ingredients {
    ing.RecipeID = recipeID
    ing.SortOrder = i
    if ing.ID == uuid.Nil {
      ing.ID = uuid.New()
    }
  }
  return transaction.WithContext(ctx).Create(&ingredients).Error
}

func (rr *recipeRepo) ReplaceSteps(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, steps []*types.RecipeStep) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if err := transaction.WithContext(ctx).
    Where("recipe_id = ?", recipeID).
    Delete(&types.RecipeStep{}).Error; err != nil {
    return err
  }
  if len(steps) == 0 {
    return nil
  }
  for i, st := range steps {
    st.RecipeID = recipeID
    st.Position = i + 1
    if st.ID == uuid.Nil {
      st.ID = uuid.New()
    }
  }
  return transaction.WithContext(ctx).Create(&steps).Error
}

func (rr *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Recipe{}).Error
}
