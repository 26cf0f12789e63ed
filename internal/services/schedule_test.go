package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/types"
)

func validShiftInput() ShiftInput {
  start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
  return ShiftInput{
    UserID:   uuid.New(),
    Role:     types.RoleChef,
    Station:  "pass",
    StartsAt: start,
    EndsAt:   start.Add(8 * time.Hour),
  }
}

func TestValidateShiftInput_OK(t *testing.T) {
  if err := validateShiftInput(validShiftInput()); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
}

func TestValidateShiftInput_Rejections(t *testing.T) {
  cases := []struct {
    name   string
    mutate func(*ShiftInput)
  }{
    {"missing user", func(in *ShiftInput) { in.UserID = uuid.Nil }},
    {"unknown role", func(in *ShiftInput) { in.Role = "plongeur" }},
    {"zero start", func(in *ShiftInput) { in.StartsAt = time.Time{} }},
    {"end before start", func(in *ShiftInput) { in.EndsAt = in.StartsAt.Add(-time.Hour) }},
    {"end equals start", func(in *ShiftInput) { in.EndsAt = in.StartsAt }},
    {"over 16 hours", func(in *ShiftInput) { in.EndsAt = in.StartsAt.Add(17 * time.Hour) }},
  }
  for _, tc := range cases {
    in := validShiftInput()
    tc.mutate(&in)
    if err := validateShiftInput(in); err == nil {
      t.Fatalf("%s: expected an error", tc.name)
    }
  }
}

func newTestScheduleService(t *testing.T) (ScheduleService, *types.User) {
  t.Helper()
  db, log := newServiceTestDB(t)
  user := seedServiceUser(t, db)
  svc := NewScheduleService(db, log, repos.NewShiftRepo(db, log), repos.NewUserRepo(db, log))
  return svc, user
}

func TestCreateShift_RejectsOverlapAllowsBackToBack(t *testing.T) {
  svc, user := newTestScheduleService(t)
  ctx := context.Background()
  start := time.Date(2026, 6, 8, 8, 0, 0, 0, time.UTC)

  morning := ShiftInput{UserID: user.ID, Role: types.RoleChef, Station: "pass", StartsAt: start, EndsAt: start.Add(8 * time.Hour)}
  if _, err := svc.CreateShift(ctx, morning); err != nil {
    t.Fatalf("create shift failed: %v", err)
  }

  overlap := morning
  overlap.StartsAt = start.Add(4 * time.Hour)
  overlap.EndsAt = start.Add(12 * time.Hour)
  if _, err := svc.CreateShift(ctx, overlap); err == nil {
    t.Fatalf("expected an overlapping shift to be rejected")
  }

  evening := morning
  evening.StartsAt = start.Add(8 * time.Hour)
  evening.EndsAt = start.Add(14 * time.Hour)
  if _, err := svc.CreateShift(ctx, evening); err != nil {
    t.Fatalf("back-to-back shift should be accepted: %v", err)
  }
}

func TestUpdateShift_OverlapExcludesOwnWindow(t *testing.T) {
  svc, user := newTestScheduleService(t)
  ctx := context.Background()
  start := time.Date(2026, 6, 9, 8, 0, 0, 0, time.UTC)

  morning := ShiftInput{UserID: user.ID, Role: types.RoleChef, StartsAt: start, EndsAt: start.Add(4 * time.Hour)}
  if _, err := svc.CreateShift(ctx, morning); err != nil {
    t.Fatalf("create shift failed: %v", err)
  }
  evening := ShiftInput{UserID: user.ID, Role: types.RoleChef, StartsAt: start.Add(5 * time.Hour), EndsAt: start.Add(10 * time.Hour)}
  created, err := svc.CreateShift(ctx, evening)
  if err != nil {
    t.Fatalf("create shift failed: %v", err)
  }

  // Sliding the evening shift into the morning one is rejected.
  moved := evening
  moved.StartsAt = start.Add(3 * time.Hour)
  if _, err := svc.UpdateShift(ctx, created.ID, moved); err == nil {
    t.Fatalf("expected the moved shift to be rejected")
  }

  // Re-saving its own window is not an overlap with itself.
  evening.Note = "cover the pass"
  updated, err := svc.UpdateShift(ctx, created.ID, evening)
  if err != nil {
    t.Fatalf("update failed: %v", err)
  }
  if updated.Note != "cover the pass" {
    t.Fatalf("unexpected note: %q", updated.Note)
  }
}
