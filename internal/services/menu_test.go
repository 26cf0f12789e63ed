package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/types"
)

func newTestMenuService(t *testing.T) (MenuService, repos.RecipeRepo, *gorm.DB) {
  t.Helper()
  db, log := newServiceTestDB(t)
  recipeRepo := repos.NewRecipeRepo(db, log)
  svc := NewMenuService(db, log,
    repos.NewMenuRepo(db, log),
    repos.NewGuestCountRepo(db, log),
    recipeRepo)
  return svc, recipeRepo, db
}

func seedRecipe(t *testing.T, db *gorm.DB, repo repos.RecipeRepo, title string, portions int, ingredients []*types.RecipeIngredient) *types.Recipe {
  t.Helper()
  ctx := context.Background()
  user := seedServiceUser(t, db)
  recipe := &types.Recipe{ID: uuid.New(), UserID: user.ID, Title: title, Portions: portions}
  if _, err := repo.Create(ctx, nil, []*types.Recipe{recipe}); err != nil {
    t.Fatalf("create recipe failed: %v", err)
  }
  if err := repo.ReplaceIngredients(ctx, nil, recipe.ID, ingredients); err != nil {
    t.Fatalf("replace ingredients failed: %v", err)
  }
  return recipe
}

func TestValidateMenuDayInput(t *testing.T) {
  date := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
  cases := []struct {
    name  string
    input MenuDayInput
  }{
    {"zero date", MenuDayInput{Meal: types.MealLunch}},
    {"unknown meal", MenuDayInput{Date: date, Meal: "brunch"}},
    {"course without label", MenuDayInput{Date: date, Meal: types.MealLunch,
      Courses: []MenuCourseInput{{FreeText: "soup"}}}},
    {"course without content", MenuDayInput{Date: date, Meal: types.MealLunch,
      Courses: []MenuCourseInput{{Label: "Main"}}}},
  }
  for _, tc := range cases {
    if err := validateMenuDayInput(tc.input); err == nil {
      t.Fatalf("%s: expected an error", tc.name)
    }
  }
}

func TestUpsertDay_ReplacesCoursesInOrder(t *testing.T) {
  svc, _, _ := newTestMenuService(t)
  ctx := context.Background()
  date := time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)

  first := MenuDayInput{Date: date, Meal: types.MealDinner, Courses: []MenuCourseInput{
    {Label: "Starter", FreeText: "Bread and butter"},
  }}
  day, err := svc.UpsertDay(ctx, first)
  if err != nil {
    t.Fatalf("upsert failed: %v", err)
  }

  second := MenuDayInput{Date: date, Meal: types.MealDinner, Note: "Sunday service", Courses: []MenuCourseInput{
    {Label: "Starter", FreeText: "Green salad"},
    {Label: "Main", FreeText: "Roast chicken"},
    {Label: "Dessert", FreeText: "Tarte tatin"},
  }}
  updated, err := svc.UpsertDay(ctx, second)
  if err != nil {
    t.Fatalf("second upsert failed: %v", err)
  }
  if updated.ID != day.ID {
    t.Fatalf("upsert created a new day instead of replacing")
  }
  if updated.Note != "Sunday service" {
    t.Fatalf("unexpected note: %q", updated.Note)
  }
  if len(updated.Courses) != 3 {
    t.Fatalf("expected 3 courses got %d", len(updated.Courses))
  }
  want := []string{"Starter", "Main", "Dessert"}
  for i, w := range want {
    if updated.Courses[i].Label != w {
      t.Fatalf("position %d: expected %q got %q", i, w, updated.Courses[i].Label)
    }
  }
}

func TestGetDay_ReturnsNilWhenUnplanned(t *testing.T) {
  svc, _, _ := newTestMenuService(t)
  day, err := svc.GetDay(context.Background(), time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), types.MealLunch)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if day != nil {
    t.Fatalf("expected nil for an unplanned day, got %+v", day)
  }
}

func TestForecast_ScalesAndAggregatesShoppingList(t *testing.T) {
  svc, recipeRepo, db := newTestMenuService(t)
  ctx := context.Background()
  date := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

  soup := seedRecipe(t, db, recipeRepo, "Tomato Soup", 4, []*types.RecipeIngredient{
    {ID: uuid.New(), Name: "Flour", Quantity: 200, Unit: "g"},
    {ID: uuid.New(), Name: "milk", Quantity: 0.5, Unit: "l"},
  })
  bread := seedRecipe(t, db, recipeRepo, "Flatbread", 2, []*types.RecipeIngredient{
    {ID: uuid.New(), Name: "flour", Quantity: 100, Unit: "g"},
  })

  if _, err := svc.UpsertDay(ctx, MenuDayInput{Date: date, Meal: types.MealLunch, Courses: []MenuCourseInput{
    {Label: "Soup", RecipeID: &soup.ID},
    {Label: "Bread", RecipeID: &bread.ID},
    {Label: "Cheese", FreeText: "From the trolley"},
  }}); err != nil {
    t.Fatalf("upsert failed: %v", err)
  }
  if _, err := svc.SetGuestCount(ctx, GuestCountInput{Date: date, Meal: types.MealLunch, Expected: 10}); err != nil {
    t.Fatalf("set guest count failed: %v", err)
  }

  forecast, err := svc.Forecast(ctx, date, types.MealLunch)
  if err != nil {
    t.Fatalf("forecast failed: %v", err)
  }
  if forecast.Expected != 10 || len(forecast.Courses) != 3 {
    t.Fatalf("unexpected forecast: %+v", forecast)
  }

  soupCourse := forecast.Courses[0]
  if soupCourse.Portions != 10 || len(soupCourse.Ingredients) != 2 {
    t.Fatalf("unexpected soup course: %+v", soupCourse)
  }
  if !almostEqual(soupCourse.Ingredients[0].Quantity, 500) {
    t.Fatalf("expected flour scaled to 500, got %v", soupCourse.Ingredients[0].Quantity)
  }

  // Flour folds across both recipes regardless of case: 500 + 500.
  if len(forecast.ShoppingList) != 2 {
    t.Fatalf("expected 2 shopping list lines, got %v", forecast.ShoppingList)
  }
  flour := forecast.ShoppingList[0]
  if !almostEqual(flour.Quantity, 1000) || flour.Unit != "g" {
    t.Fatalf("unexpected flour demand: %+v", flour)
  }
  milk := forecast.ShoppingList[1]
  if milk.Name != "milk" || !almostEqual(milk.Quantity, 1.25) {
    t.Fatalf("unexpected milk demand: %+v", milk)
  }
}

func TestForecast_WithoutGuestCountUsesRecipePortions(t *testing.T) {
  svc, recipeRepo, db := newTestMenuService(t)
  ctx := context.Background()
  date := time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC)

  stew := seedRecipe(t, db, recipeRepo, "Beef Stew", 6, []*types.RecipeIngredient{
    {ID: uuid.New(), Name: "beef", Quantity: 1.2, Unit: "kg"},
  })
  if _, err := svc.UpsertDay(ctx, MenuDayInput{Date: date, Meal: types.MealDinner, Courses: []MenuCourseInput{
    {Label: "Main", RecipeID: &stew.ID},
  }}); err != nil {
    t.Fatalf("upsert failed: %v", err)
  }

  forecast, err := svc.Forecast(ctx, date, types.MealDinner)
  if err != nil {
    t.Fatalf("forecast failed: %v", err)
  }
  if forecast.Expected != 0 {
    t.Fatalf("expected 0 covers, got %d", forecast.Expected)
  }
  main := forecast.Courses[0]
  if main.Portions != 6 {
    t.Fatalf("expected recipe portions 6, got %d", main.Portions)
  }
  if !almostEqual(main.Ingredients[0].Quantity, 1.2) {
    t.Fatalf("expected unscaled quantity, got %v", main.Ingredients[0].Quantity)
  }
}
