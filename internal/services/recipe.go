package services

import (
  "context"
  "encoding/json"
  "fmt"
  "sort"
  "strings"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type RecipeInput struct {
  Title       string            `json:"title"`
  Description string            `json:"description"`
  Category    string            `json:"category"`
  Portions    int               `json:"portions"`
  PrepMinutes int               `json:"prep_minutes"`
  CookMinutes int               `json:"cook_minutes"`
  SourceURL   string            `json:"source_url"`
  SourceName  string            `json:"source_name"`
  ImageURL    string            `json:"image_url"`
  Ingredients []IngredientInput `json:"ingredients"`
  Steps       []string          `json:"steps"`
}

type IngredientInput struct {
  Quantity  float64  `json:"quantity"`
  Unit      string   `json:"unit"`
  Name      string   `json:"name"`
  Note      string   `json:"note"`
  Allergens []string `json:"allergens"`
}

// RecipeView is a recipe plus its computed allergen union, optionally with
// quantities scaled to a requested portion count.
type RecipeView struct {
  *types.Recipe
  Allergens       []string `json:"allergens"`
  ScaledPortions  int      `json:"scaled_portions,omitempty"`
}

type RecipeService interface {
  Create(ctx context.Context, input RecipeInput) (*RecipeView, error)
  Get(ctx context.Context, id uuid.UUID, portions int) (*RecipeView, error)
  List(ctx context.Context, category, search string) ([]*types.Recipe, error)
  Update(ctx context.Context, id uuid.UUID, input RecipeInput) (*RecipeView, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
  db         *gorm.DB
  log        *logger.Logger
  recipeRepo repos.RecipeRepo
}

func NewRecipeService(db *gorm.DB, log *logger.Logger, recipeRepo repos.RecipeRepo) RecipeService {
  serviceLog := log.With("service", "RecipeService")
  return &recipeService{db: db, log: serviceLog, recipeRepo: recipeRepo}
}

func (rs *recipeService) Create(ctx context.Context, input RecipeInput) (*RecipeView, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  if err := validateRecipeInput(input); err != nil {
    return nil, err
  }

  recipe := &types.Recipe{
    ID:          uuid.New(),
    UserID:      rd.UserID,
    Title:       strings.TrimSpace(input.Title),
    Description: strings.TrimSpace(input.Description),
    Category:    strings.TrimSpace(input.Category),
    Portions:    input.Portions,
    PrepMinutes: input.PrepMinutes,
    CookMinutes: input.CookMinutes,
    SourceURL:   strings.TrimSpace(input.SourceURL),
    SourceName:  strings.TrimSpace(input.SourceName),
    ImageURL:    strings.TrimSpace(input.ImageURL),
  }
  if recipe.Portions <= 0 {
    recipe.Portions = 4
  }

  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := rs.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); cErr != nil {
      return fmt.Errorf("Failed to create recipe: %w", cErr)
    }
    ingredients, iErr := buildIngredients(input.Ingredients)
    if iErr != nil {
      return iErr
    }
    if rErr := rs.recipeRepo.ReplaceIngredients(ctx, tx, recipe.ID, ingredients); rErr != nil {
      return fmt.Errorf("Failed to store ingredients: %w", rErr)
    }
    if sErr := rs.recipeRepo.ReplaceSteps(ctx, tx, recipe.ID, buildSteps(input.Steps)); sErr != nil {
      return fmt.Errorf("Failed to store steps: %w", sErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return rs.Get(ctx, recipe.ID, 0)
}

func (rs *recipeService) Get(ctx context.Context, id uuid.UUID, portions int) (*RecipeView, error) {
  recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load recipe: %w", err)
  }
  if len(recipes) == 0 {
    return nil, fmt.Errorf("Recipe not found")
  }
  recipe := recipes[0]

  view := &RecipeView{
    Recipe:    recipe,
    Allergens: RecipeAllergens(recipe),
  }
  if portions > 0 && portions != recipe.Portions {
    ScaleRecipe(recipe, portions)
    view.ScaledPortions = portions
  }
  return view, nil
}

func (rs *recipeService) List(ctx context.Context, category, search string) ([]*types.Recipe, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  return rs.recipeRepo.List(ctx, nil, repos.RecipeFilter{
    UserID:   rd.UserID,
    Category: strings.TrimSpace(category),
    Search:   search,
  })
}

func (rs *recipeService) Update(ctx context.Context, id uuid.UUID, input RecipeInput) (*RecipeView, error) {
  if err := validateRecipeInput(input); err != nil {
    return nil, err
  }
  recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load recipe: %w", err)
  }
  if len(recipes) == 0 {
    return nil, fmt.Errorf("Recipe not found")
  }

  portions := input.Portions
  if portions <= 0 {
    portions = recipes[0].Portions
  }

  err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if uErr := rs.recipeRepo.UpdateFields(ctx, tx, id, map[string]interface{}{
      "title":        strings.TrimSpace(input.Title),
      "description":  strings.TrimSpace(input.Description),
      "category":     strings.TrimSpace(input.Category),
      "portions":     portions,
      "prep_minutes": input.PrepMinutes,
      "cook_minutes": input.CookMinutes,
      "source_url":   strings.TrimSpace(input.SourceURL),
      "source_name":  strings.TrimSpace(input.SourceName),
      "image_url":    strings.TrimSpace(input.ImageURL),
      "needs_review": false,
    }); uErr != nil {
      return fmt.Errorf("Failed to update recipe: %w", uErr)
    }
    ingredients, iErr := buildIngredients(input.Ingredients)
    if iErr != nil {
      return iErr
    }
    if rErr := rs.recipeRepo.ReplaceIngredients(ctx, tx, id, ingredients); rErr != nil {
      return fmt.Errorf("Failed to store ingredients: %w", rErr)
    }
    if sErr := rs.recipeRepo.ReplaceSteps(ctx, tx, id, buildSteps(input.Steps)); sErr != nil {
      return fmt.Errorf("Failed to store steps: %w", sErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return rs.Get(ctx, id, 0)
}

func (rs *recipeService) Delete(ctx context.Context, id uuid.UUID) error {
  return rs.recipeRepo.Delete(ctx, nil, []uuid.UUID{id})
}

func validateRecipeInput(input RecipeInput) error {
  if strings.TrimSpace(input.Title) == "" {
    return fmt.Errorf("A recipe title is required")
  }
  for _, ing := range input.Ingredients {
    if strings.TrimSpace(ing.Name) == "" {
      return fmt.Errorf("Every ingredient needs a name")
    }
    if ing.Quantity < 0 {
      return fmt.Errorf("Ingredient quantity cannot be negative")
    }
    for _, a := range ing.Allergens {
      if !types.ValidAllergen(a) {
        return fmt.Errorf("Unknown allergen code: %s", a)
      }
    }
  }
  return nil
}

func buildIngredients(inputs []IngredientInput) ([]*types.RecipeIngredient, error) {
  out := make([]*types.RecipeIngredient, 0, len(inputs))
  for _, in := range inputs {
    var allergens datatypes.JSON
    if len(in.Allergens) > 0 {
      raw, err := json.Marshal(in.Allergens)
      if err != nil {
        return nil, fmt.Errorf("Failed to encode allergens: %w", err)
      }
      allergens = datatypes.JSON(raw)
    }
    out = append(out, &types.RecipeIngredient{
      ID:        uuid.New(),
      Quantity:  in.Quantity,
      Unit:      strings.TrimSpace(in.Unit),
      Name:      strings.TrimSpace(in.Name),
      Note:      strings.TrimSpace(in.Note),
      Allergens: allergens,
    })
  }
  return out, nil
}

func buildSteps(instructions []string) []*types.RecipeStep {
  out := make([]*types.RecipeStep, 0, len(instructions))
  for _, instruction := range instructions {
    instruction = strings.TrimSpace(instruction)
    if instruction == "" {
      continue
    }
    out = append(out, &types.RecipeStep{
      ID:          uuid.New(),
      Instruction: instruction,
    })
  }
  return out
}

// RecipeAllergens returns the sorted union of allergen codes over the
// recipe's ingredients.
func RecipeAllergens(recipe *types.Recipe) []string {
  seen := map[string]bool{}
  for _, ing := range recipe.Ingredients {
    if len(ing.Allergens) == 0 {
      continue
    }
    var codes []string
    if err := json.Unmarshal(ing.Allergens, &codes); err != nil {
      continue
    }
    for _, code := range codes {
      if types.ValidAllergen(code) {
        seen[code] = true
      }
    }
  }
  out := make([]string, 0, len(seen))
  for code := range seen {
    out = append(out, code)
  }
  sort.Strings(out)
  return out
}

// ScaleRecipe multiplies ingredient quantities in place to the target
// portion count.
func ScaleRecipe(recipe *types.Recipe, portions int) {
  if portions <= 0 || recipe.Portions <= 0 {
    return
  }
  factor := float64(portions) / float64(recipe.Portions)
  for i := range recipe.Ingredients {
    recipe.Ingredients[i].Quantity *= factor
  }
}
