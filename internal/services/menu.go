package services

import (
  "context"
  "fmt"
  "sort"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type MenuDayInput struct {
  Date    time.Time         `json:"date"`
  Meal    string            `json:"meal"`
  Note    string            `json:"note"`
  Courses []MenuCourseInput `json:"courses"`
}

type MenuCourseInput struct {
  Label    string     `json:"label"`
  RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
  FreeText string     `json:"free_text"`
}

type GuestCountInput struct {
  Date     time.Time `json:"date"`
  Meal     string    `json:"meal"`
  Expected int       `json:"expected"`
  Actual   *int      `json:"actual,omitempty"`
  Note     string    `json:"note"`
}

// CourseForecast is one menu course scaled to the expected guest count.
type CourseForecast struct {
  Label       string              `json:"label"`
  RecipeID    *uuid.UUID          `json:"recipe_id,omitempty"`
  RecipeTitle string              `json:"recipe_title,omitempty"`
  FreeText    string              `json:"free_text,omitempty"`
  Portions    int                 `json:"portions"`
  Ingredients []IngredientDemand  `json:"ingredients,omitempty"`
}

// IngredientDemand is a scaled quantity of one ingredient.
type IngredientDemand struct {
  Name     string  `json:"name"`
  Unit     string  `json:"unit"`
  Quantity float64 `json:"quantity"`
}

// MealForecast is the production plan for one date and meal: every course
// scaled to the expected covers, plus the ingredient totals across courses.
type MealForecast struct {
  Date        string             `json:"date"`
  Meal        string             `json:"meal"`
  Expected    int                `json:"expected"`
  Courses     []CourseForecast   `json:"courses"`
  ShoppingList []IngredientDemand `json:"shopping_list"`
}

type MenuService interface {
  UpsertDay(ctx context.Context, input MenuDayInput) (*types.MenuDay, error)
  GetDay(ctx context.Context, date time.Time, meal string) (*types.MenuDay, error)
  ListRange(ctx context.Context, from, to time.Time) ([]*types.MenuDay, error)
  DeleteDay(ctx context.Context, id uuid.UUID) error
  SetGuestCount(ctx context.Context, input GuestCountInput) (*types.GuestCount, error)
  ListGuestCounts(ctx context.Context, from, to time.Time) ([]*types.GuestCount, error)
  Forecast(ctx context.Context, date time.Time, meal string) (*MealForecast, error)
}

type menuService struct {
  db         *gorm.DB
  log        *logger.Logger
  menuRepo   repos.MenuRepo
  guestRepo  repos.GuestCountRepo
  recipeRepo repos.RecipeRepo
}

func NewMenuService(
  db *gorm.DB,
  log *logger.Logger,
  menuRepo repos.MenuRepo,
  guestRepo repos.GuestCountRepo,
  recipeRepo repos.RecipeRepo,
) MenuService {
  serviceLog := log.With("service", "MenuService")
  return &menuService{
    db:         db,
    log:        serviceLog,
    menuRepo:   menuRepo,
    guestRepo:  guestRepo,
    recipeRepo: recipeRepo,
  }
}

func validateMenuDayInput(input MenuDayInput) error {
  if input.Date.IsZero() {
    return fmt.Errorf("A menu date is required")
  }
  if !types.ValidMeal(input.Meal) {
    return fmt.Errorf("Unknown meal: %s", input.Meal)
  }
  for _, course := range input.Courses {
    if strings.TrimSpace(course.Label) == "" {
      return fmt.Errorf("Every course needs a label")
    }
    if course.RecipeID == nil && strings.TrimSpace(course.FreeText) == "" {
      return fmt.Errorf("A course needs a recipe or free text")
    }
  }
  return nil
}

// UpsertDay creates or replaces the menu for a (date, meal). Courses are
// replaced wholesale; their order follows the input order.
func (ms *menuService) UpsertDay(ctx context.Context, input MenuDayInput) (*types.MenuDay, error) {
  if err := validateMenuDayInput(input); err != nil {
    return nil, err
  }

  var dayID uuid.UUID
  err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, gErr := ms.menuRepo.GetDayByDateMeal(ctx, tx, input.Date, input.Meal)
    if gErr != nil {
      return fmt.Errorf("Failed to look up menu day: %w", gErr)
    }
    if existing != nil {
      dayID = existing.ID
      if uErr := ms.menuRepo.UpdateDayFields(ctx, tx, dayID, map[string]interface{}{
        "note": strings.TrimSpace(input.Note),
      }); uErr != nil {
        return fmt.Errorf("Failed to update menu day: %w", uErr)
      }
    } else {
      day := &types.MenuDay{
        ID:   uuid.New(),
        Date: truncateToDay(input.Date),
        Meal: input.Meal,
        Note: strings.TrimSpace(input.Note),
      }
      if _, cErr := ms.menuRepo.CreateDays(ctx, tx, []*types.MenuDay{day}); cErr != nil {
        return fmt.Errorf("Failed to create menu day: %w", cErr)
      }
      dayID = day.ID
    }

    courses := make([]*types.MenuCourse, 0, len(input.Courses))
    for _, c := range input.Courses {
      courses = append(courses, &types.MenuCourse{
        ID:       uuid.New(),
        Label:    strings.TrimSpace(c.Label),
        RecipeID: c.RecipeID,
        FreeText: strings.TrimSpace(c.FreeText),
      })
    }
    if rErr := ms.menuRepo.ReplaceCourses(ctx, tx, dayID, courses); rErr != nil {
      return fmt.Errorf("Failed to store courses: %w", rErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  days, err := ms.menuRepo.GetDaysByIDs(ctx, nil, []uuid.UUID{dayID})
  if err != nil || len(days) == 0 {
    return nil, fmt.Errorf("Failed to reload menu day: %w", err)
  }
  return days[0], nil
}

func (ms *menuService) GetDay(ctx context.Context, date time.Time, meal string) (*types.MenuDay, error) {
  if !types.ValidMeal(meal) {
    return nil, fmt.Errorf("Unknown meal: %s", meal)
  }
  return ms.menuRepo.GetDayByDateMeal(ctx, nil, date, meal)
}

func (ms *menuService) ListRange(ctx context.Context, from, to time.Time) ([]*types.MenuDay, error) {
  if !from.Before(to) {
    return nil, fmt.Errorf("from must be before to")
  }
  return ms.menuRepo.ListRange(ctx, nil, from, to)
}

func (ms *menuService) DeleteDay(ctx context.Context, id uuid.UUID) error {
  return ms.menuRepo.DeleteDays(ctx, nil, []uuid.UUID{id})
}

func (ms *menuService) SetGuestCount(ctx context.Context, input GuestCountInput) (*types.GuestCount, error) {
  if input.Date.IsZero() {
    return nil, fmt.Errorf("A date is required")
  }
  if !types.ValidMeal(input.Meal) {
    return nil, fmt.Errorf("Unknown meal: %s", input.Meal)
  }
  if input.Expected < 0 {
    return nil, fmt.Errorf("Expected covers cannot be negative")
  }
  if input.Actual != nil && *input.Actual < 0 {
    return nil, fmt.Errorf("Actual covers cannot be negative")
  }

  gc := &types.GuestCount{
    ID:       uuid.New(),
    Date:     truncateToDay(input.Date),
    Meal:     input.Meal,
    Expected: input.Expected,
    Actual:   input.Actual,
    Note:     strings.TrimSpace(input.Note),
  }
  return ms.guestRepo.Upsert(ctx, nil, gc)
}

func (ms *menuService) ListGuestCounts(ctx context.Context, from, to time.Time) ([]*types.GuestCount, error) {
  if !from.Before(to) {
    return nil, fmt.Errorf("from must be before to")
  }
  return ms.guestRepo.ListRange(ctx, nil, from, to)
}

// Forecast scales every recipe course of the menu to the expected guest
// count and aggregates ingredient demand across courses into one shopping
// list. Without a stored guest count the recipes' own portion counts are
// used as-is.
func (ms *menuService) Forecast(ctx context.Context, date time.Time, meal string) (*MealForecast, error) {
  if !types.ValidMeal(meal) {
    return nil, fmt.Errorf("Unknown meal: %s", meal)
  }

  day, err := ms.menuRepo.GetDayByDateMeal(ctx, nil, date, meal)
  if err != nil {
    return nil, fmt.Errorf("Failed to load menu day: %w", err)
  }
  if day == nil {
    return nil, fmt.Errorf("No menu planned for %s %s", date.Format("2006-01-02"), meal)
  }

  gc, err := ms.guestRepo.GetByDateMeal(ctx, nil, date, meal)
  if err != nil {
    return nil, fmt.Errorf("Failed to load guest count: %w", err)
  }
  expected := 0
  if gc != nil {
    expected = gc.Expected
  }

  forecast := &MealForecast{
    Date:     truncateToDay(date).Format("2006-01-02"),
    Meal:     meal,
    Expected: expected,
  }

  // Aggregate by name+unit so "200 g flour" from two courses folds into
  // one line. Quantity-less ingredients keep a zero quantity line.
  totals := map[string]*IngredientDemand{}

  for _, course := range day.Courses {
    cf := CourseForecast{
      Label:    course.Label,
      RecipeID: course.RecipeID,
      FreeText: course.FreeText,
      Portions: expected,
    }
    if course.Recipe != nil {
      cf.RecipeTitle = course.Recipe.Title
      portions := expected
      if portions <= 0 {
        portions = course.Recipe.Portions
        cf.Portions = portions
      }
      factor := 1.0
      if course.Recipe.Portions > 0 {
        factor = float64(portions) / float64(course.Recipe.Portions)
      }
      for _, ing := range course.Recipe.Ingredients {
        demand := IngredientDemand{
          Name:     ing.Name,
          Unit:     ing.Unit,
          Quantity: ing.Quantity * factor,
        }
        cf.Ingredients = append(cf.Ingredients, demand)
        key := strings.ToLower(demand.Name) + "|" + demand.Unit
        if existing, ok := totals[key]; ok {
          existing.Quantity += demand.Quantity
        } else {
          copied := demand
          totals[key] = &copied
        }
      }
    }
    forecast.Courses = append(forecast.Courses, cf)
  }

  for _, demand := range totals {
    forecast.ShoppingList = append(forecast.ShoppingList, *demand)
  }
  sort.Slice(forecast.ShoppingList, func(i, j int) bool {
    return forecast.ShoppingList[i].Name < forecast.ShoppingList[j].Name
  })
  return forecast, nil
}

func truncateToDay(t time.Time) time.Time {
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
