package repos

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

// newTestDB opens an in-memory sqlite database for repo tests. IDs are set
// explicitly in tests because the uuid column defaults only exist on
// Postgres.
func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
  t.Helper()
  db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(0)"), &gorm.Config{})
  if err != nil {
    t.Fatalf("failed to open sqlite: %v", err)
  }
  if err := db.AutoMigrate(
    &types.User{},
    &types.Recipe{},
    &types.RecipeIngredient{},
    &types.RecipeStep{},
    &types.Shift{},
    &types.GuestCount{},
  ); err != nil {
    t.Fatalf("migrate failed: %v", err)
  }
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }
  return db, log
}

func seedUser(t *testing.T, db *gorm.DB) *types.User {
  t.Helper()
  user := &types.User{
    ID:        uuid.New(),
    Email:     uuid.New().String() + "@example.com",
    FirstName: "ana",
    LastName:  "kim",
    Password:  "x",
    Role:      types.RoleChef,
  }
  if err := db.Create(user).Error; err != nil {
    t.Fatalf("seed user failed: %v", err)
  }
  return user
}

func TestRecipeRepo_ReplaceIngredientsKeepsInputOrder(t *testing.T) {
  db, log := newTestDB(t)
  ctx := context.Background()
  repo := NewRecipeRepo(db, log)
  user := seedUser(t, db)

  recipe := &types.Recipe{ID: uuid.New(), UserID: user.ID, Title: "Stock", Portions: 4}
  if _, err := repo.Create(ctx, nil, []*types.Recipe{recipe}); err != nil {
    t.Fatalf("create recipe failed: %v", err)
  }

  first := []*types.RecipeIngredient{
    {ID: uuid.New(), Name: "bones"},
    {ID: uuid.New(), Name: "water"},
  }
  if err := repo.ReplaceIngredients(ctx, nil, recipe.ID, first); err != nil {
    t.Fatalf("replace ingredients failed: %v", err)
  }

  second := []*types.RecipeIngredient{
    {ID: uuid.New(), Name: "carrot"},
    {ID: uuid.New(), Name: "onion"},
    {ID: uuid.New(), Name: "celery"},
  }
  if err := repo.ReplaceIngredients(ctx, nil, recipe.ID, second); err != nil {
    t.Fatalf("second replace failed: %v", err)
  }

  loaded, err := repo.GetByIDs(ctx, nil, []uuid.UUID{recipe.ID})
  if err != nil {
    t.Fatalf("get failed: %v", err)
  }
  if len(loaded) != 1 {
    t.Fatalf("expected 1 recipe got %d", len(loaded))
  }
  ings := loaded[0].Ingredients
  if len(ings) != 3 {
    t.Fatalf("expected 3 ingredients got %d", len(ings))
  }
  want := []string{"carrot", "onion", "celery"}
  for i, w := range want {
    if ings[i].Name != w {
      t.Fatalf("position %d: expected %q got %q", i, w, ings[i].Name)
    }
  }
}

func TestRecipeRepo_ListFiltersByCategoryAndSearch(t *testing.T) {
  db, log := newTestDB(t)
  ctx := context.Background()
  repo := NewRecipeRepo(db, log)
  user := seedUser(t, db)

  recipes := []*types.Recipe{
    {ID: uuid.New(), UserID: user.ID, Title: "Tomato Soup", Category: "soup", Portions: 4},
    {ID: uuid.New(), UserID: user.ID, Title: "Beef Stew", Category: "main", Portions: 4},
    {ID: uuid.New(), UserID: user.ID, Title: "Onion Soup", Category: "soup", Portions: 4},
  }
  if _, err := repo.Create(ctx, nil, recipes); err != nil {
    t.Fatalf("create failed: %v", err)
  }

  soups, err := repo.List(ctx, nil, RecipeFilter{UserID: user.ID, Category: "soup"})
  if err != nil {
    t.Fatalf("list failed: %v", err)
  }
  if len(soups) != 2 {
    t.Fatalf("expected 2 soups got %d", len(soups))
  }

  found, err := repo.List(ctx, nil, RecipeFilter{UserID: user.ID, Search: "tomato"})
  if err != nil {
    t.Fatalf("search failed: %v", err)
  }
  if len(found) != 1 || found[0].Title != "Tomato Soup" {
    t.Fatalf("unexpected search result: %v", found)
  }
}

func TestShiftRepo_ListByUserRangeOverlapBoundaries(t *testing.T) {
  db, log := newTestDB(t)
  ctx := context.Background()
  repo := NewShiftRepo(db, log)
  user := seedUser(t, db)

  dayStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
  existing := &types.Shift{
    ID:       uuid.New(),
    UserID:   user.ID,
    Role:     types.RoleChef,
    StartsAt: dayStart,
    EndsAt:   dayStart.Add(8 * time.Hour),
  }
  if _, err := repo.Create(ctx, nil, []*types.Shift{existing}); err != nil {
    t.Fatalf("create shift failed: %v", err)
  }

  // Overlapping window finds the shift.
  overlapping, err := repo.ListByUserRange(ctx, nil, user.ID, dayStart.Add(4*time.Hour), dayStart.Add(12*time.Hour))
  if err != nil {
    t.Fatalf("list failed: %v", err)
  }
  if len(overlapping) != 1 {
    t.Fatalf("expected 1 overlapping shift got %d", len(overlapping))
  }

  // A back-to-back window starting at the existing end does not collide.
  adjacent, err := repo.ListByUserRange(ctx, nil, user.ID, dayStart.Add(8*time.Hour), dayStart.Add(16*time.Hour))
  if err != nil {
    t.Fatalf("list failed: %v", err)
  }
  if len(adjacent) != 0 {
    t.Fatalf("expected no collision for back-to-back window, got %d", len(adjacent))
  }
}

func TestGuestCountRepo_UpsertReplacesExistingRow(t *testing.T) {
  db, log := newTestDB(t)
  ctx := context.Background()
  repo := NewGuestCountRepo(db, log)

  date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
  if _, err := repo.Upsert(ctx, nil, &types.GuestCount{
    ID:       uuid.New(),
    Date:     date,
    Meal:     types.MealLunch,
    Expected: 40,
  }); err != nil {
    t.Fatalf("first upsert failed: %v", err)
  }

  actual := 52
  if _, err := repo.Upsert(ctx, nil, &types.GuestCount{
    ID:       uuid.New(),
    Date:     date,
    Meal:     types.MealLunch,
    Expected: 50,
    Actual:   &actual,
  }); err != nil {
    t.Fatalf("second upsert failed: %v", err)
  }

  got, err := repo.GetByDateMeal(ctx, nil, date, types.MealLunch)
  if err != nil {
    t.Fatalf("get failed: %v", err)
  }
  if got == nil {
    t.Fatalf("expected a row")
  }
  if got.Expected != 50 || got.Actual == nil || *got.Actual != 52 {
    t.Fatalf("unexpected row: %+v", got)
  }

  counts, err := repo.ListRange(ctx, nil, date, date.AddDate(0, 0, 1))
  if err != nil {
    t.Fatalf("list failed: %v", err)
  }
  if len(counts) != 1 {
    t.Fatalf("expected a single row after upsert, got %d", len(counts))
  }
}
