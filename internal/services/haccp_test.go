package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/sse"
  "github.com/chefboard/chefboard-backend/internal/types"
)

func newServiceTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
  t.Helper()
  db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(0)"), &gorm.Config{})
  if err != nil {
    t.Fatalf("failed to open sqlite: %v", err)
  }
  if err := db.AutoMigrate(
    &types.User{},
    &types.StorageUnit{},
    &types.TemperatureReading{},
    &types.Recipe{},
    &types.RecipeIngredient{},
    &types.RecipeStep{},
    &types.MenuDay{},
    &types.MenuCourse{},
    &types.GuestCount{},
    &types.Shift{},
  ); err != nil {
    t.Fatalf("migrate failed: %v", err)
  }
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }
  return db, log
}

func seedServiceUser(t *testing.T, db *gorm.DB) *types.User {
  t.Helper()
  user := &types.User{
    ID:        uuid.New(),
    Email:     uuid.New().String() + "@example.com",
    FirstName: "lea",
    LastName:  "moreau",
    Password:  "x",
    Role:      types.RoleChef,
  }
  if err := db.Create(user).Error; err != nil {
    t.Fatalf("seed user failed: %v", err)
  }
  return user
}

type recordingNotifier struct {
  events []sse.SSEEvent
}

func (n *recordingNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
  n.events = append(n.events, event)
}

func newTestHACCPService(t *testing.T) (HACCPService, *recordingNotifier, context.Context) {
  t.Helper()
  db, log := newServiceTestDB(t)
  user := seedServiceUser(t, db)
  notifier := &recordingNotifier{}
  svc := NewHACCPService(db, log,
    repos.NewStorageUnitRepo(db, log),
    repos.NewTemperatureReadingRepo(db, log),
    notifier)
  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
  return svc, notifier, ctx
}

func TestValidateUnitInput(t *testing.T) {
  cases := []struct {
    name  string
    input StorageUnitInput
  }{
    {"missing name", StorageUnitInput{Kind: types.StorageKindFridge, MinTemp: 0, MaxTemp: 4}},
    {"unknown kind", StorageUnitInput{Name: "Walk-in", Kind: "cellar", MinTemp: 0, MaxTemp: 4}},
    {"inverted range", StorageUnitInput{Name: "Walk-in", Kind: types.StorageKindFridge, MinTemp: 5, MaxTemp: 2}},
    {"empty range", StorageUnitInput{Name: "Walk-in", Kind: types.StorageKindFridge, MinTemp: 4, MaxTemp: 4}},
  }
  for _, tc := range cases {
    if err := validateUnitInput(tc.input); err == nil {
      t.Fatalf("%s: expected an error", tc.name)
    }
  }
  ok := StorageUnitInput{Name: "Freezer 1", Kind: types.StorageKindFreezer, MinTemp: -22, MaxTemp: -18}
  if err := validateUnitInput(ok); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
}

func TestRecordReading_FlagsViolationAndNotifies(t *testing.T) {
  svc, notifier, ctx := newTestHACCPService(t)

  unit, err := svc.CreateUnit(ctx, StorageUnitInput{
    Name: "Walk-in " + uuid.New().String(), Kind: types.StorageKindFridge, MinTemp: 0, MaxTemp: 4,
  })
  if err != nil {
    t.Fatalf("create unit failed: %v", err)
  }

  inRange, err := svc.RecordReading(ctx, ReadingInput{StorageUnitID: unit.ID, ValueCelsius: 3.2})
  if err != nil {
    t.Fatalf("record reading failed: %v", err)
  }
  if inRange.Violation {
    t.Fatalf("3.2C in [0,4] should not be a violation")
  }
  if len(notifier.events) != 0 {
    t.Fatalf("unexpected notification for a compliant reading")
  }

  warm, err := svc.RecordReading(ctx, ReadingInput{StorageUnitID: unit.ID, ValueCelsius: 7.5})
  if err != nil {
    t.Fatalf("record reading failed: %v", err)
  }
  if !warm.Violation {
    t.Fatalf("7.5C in [0,4] should be a violation")
  }
  if len(notifier.events) != 1 || notifier.events[0] != sse.SSEEventTemperatureViolation {
    t.Fatalf("expected one violation notification, got %v", notifier.events)
  }
}

func TestRecordReading_RejectsFutureTimestamp(t *testing.T) {
  svc, _, ctx := newTestHACCPService(t)
  unit, err := svc.CreateUnit(ctx, StorageUnitInput{
    Name: "Hot hold " + uuid.New().String(), Kind: types.StorageKindHotHold, MinTemp: 63, MaxTemp: 90,
  })
  if err != nil {
    t.Fatalf("create unit failed: %v", err)
  }
  _, err = svc.RecordReading(ctx, ReadingInput{
    StorageUnitID: unit.ID,
    ValueCelsius:  70,
    MeasuredAt:    time.Now().Add(time.Hour),
  })
  if err == nil {
    t.Fatalf("expected a future measured_at to be rejected")
  }
}

func TestDailyReport_UnitWithoutReadingsIsNonCompliant(t *testing.T) {
  svc, _, ctx := newTestHACCPService(t)
  day := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

  checked, err := svc.CreateUnit(ctx, StorageUnitInput{
    Name: "Checked fridge " + uuid.New().String(), Kind: types.StorageKindFridge, MinTemp: 0, MaxTemp: 4,
  })
  if err != nil {
    t.Fatalf("create unit failed: %v", err)
  }
  unchecked, err := svc.CreateUnit(ctx, StorageUnitInput{
    Name: "Forgotten freezer " + uuid.New().String(), Kind: types.StorageKindFreezer, MinTemp: -22, MaxTemp: -18,
  })
  if err != nil {
    t.Fatalf("create unit failed: %v", err)
  }

  for _, v := range []float64{2.0, 3.5} {
    if _, err := svc.RecordReading(ctx, ReadingInput{
      StorageUnitID: checked.ID, ValueCelsius: v, MeasuredAt: day.Add(8 * time.Hour),
    }); err != nil {
      t.Fatalf("record reading failed: %v", err)
    }
  }

  report, err := svc.DailyReport(ctx, day)
  if err != nil {
    t.Fatalf("daily report failed: %v", err)
  }
  if report.Compliant {
    t.Fatalf("report with an unchecked unit must be non-compliant")
  }
  byID := map[uuid.UUID]*UnitDailyReport{}
  for _, ur := range report.Units {
    byID[ur.Unit.ID] = ur
  }
  got, ok := byID[checked.ID]
  if !ok || !got.Compliant || got.ReadingCount != 2 {
    t.Fatalf("unexpected checked unit report: %+v", got)
  }
  if got.MinValue != 2.0 || got.MaxValue != 3.5 {
    t.Fatalf("unexpected min/max: %v %v", got.MinValue, got.MaxValue)
  }
  if got.AvgValue != 2.75 {
    t.Fatalf("unexpected average: %v", got.AvgValue)
  }
  forgotten, ok := byID[unchecked.ID]
  if !ok || forgotten.Compliant || forgotten.ReadingCount != 0 {
    t.Fatalf("unexpected unchecked unit report: %+v", forgotten)
  }
}
