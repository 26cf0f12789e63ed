package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type ShiftInput struct {
  UserID   uuid.UUID `json:"user_id"`
  Role     string    `json:"role"`
  Station  string    `json:"station"`
  StartsAt time.Time `json:"starts_at"`
  EndsAt   time.Time `json:"ends_at"`
  Note     string    `json:"note"`
}

// WeekDay is one day of the week view: its shifts plus scheduled hours.
type WeekDay struct {
  Date   string         `json:"date"`
  Shifts []*types.Shift `json:"shifts"`
  Hours  float64        `json:"hours"`
}

// WeekView is seven consecutive days of shifts with per-person totals.
type WeekView struct {
  WeekStart   string             `json:"week_start"`
  Days        []*WeekDay         `json:"days"`
  HoursByUser map[string]float64 `json:"hours_by_user"`
}

type ScheduleService interface {
  CreateShift(ctx context.Context, input ShiftInput) (*types.Shift, error)
  UpdateShift(ctx context.Context, id uuid.UUID, input ShiftInput) (*types.Shift, error)
  DeleteShift(ctx context.Context, id uuid.UUID) error
  ListShifts(ctx context.Context, from, to time.Time) ([]*types.Shift, error)
  WeekView(ctx context.Context, weekStart time.Time) (*WeekView, error)
}

type scheduleService struct {
  db        *gorm.DB
  log       *logger.Logger
  shiftRepo repos.ShiftRepo
  userRepo  repos.UserRepo
}

func NewScheduleService(db *gorm.DB, log *logger.Logger, shiftRepo repos.ShiftRepo, userRepo repos.UserRepo) ScheduleService {
  serviceLog := log.With("service", "ScheduleService")
  return &scheduleService{db: db, log: serviceLog, shiftRepo: shiftRepo, userRepo: userRepo}
}

func validateShiftInput(input ShiftInput) error {
  if input.UserID == uuid.Nil {
    return fmt.Errorf("A staff member is required")
  }
  if !types.ValidRole(input.Role) {
    return fmt.Errorf("Unknown staff role: %s", input.Role)
  }
  if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
    return fmt.Errorf("Shift start and end are required")
  }
  if !input.StartsAt.Before(input.EndsAt) {
    return fmt.Errorf("Shift must end after it starts")
  }
  if input.EndsAt.Sub(input.StartsAt) > 16*time.Hour {
    return fmt.Errorf("A shift cannot exceed 16 hours")
  }
  return nil
}

// checkOverlap rejects a shift that overlaps any existing shift of the same
// person. Back-to-back shifts (one ends exactly when the next starts) are
// fine; ListByUserRange uses strict inequalities so they do not collide.
func (ss *scheduleService) checkOverlap(ctx context.Context, input ShiftInput, excludeID uuid.UUID) error {
  existing, err := ss.shiftRepo.ListByUserRange(ctx, nil, input.UserID, input.StartsAt, input.EndsAt)
  if err != nil {
    return fmt.Errorf("Failed to check for overlapping shifts: %w", err)
  }
  for _, s := range existing {
    if s.ID == excludeID {
      continue
    }
    return fmt.Errorf("Shift overlaps an existing shift from %s to %s",
      s.StartsAt.Format("15:04"), s.EndsAt.Format("15:04"))
  }
  return nil
}

func (ss *scheduleService) CreateShift(ctx context.Context, input ShiftInput) (*types.Shift, error) {
  if err := validateShiftInput(input); err != nil {
    return nil, err
  }
  users, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{input.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("Staff member not found")
  }
  if err := ss.checkOverlap(ctx, input, uuid.Nil); err != nil {
    return nil, err
  }

  shift := &types.Shift{
    ID:       uuid.New(),
    UserID:   input.UserID,
    Role:     input.Role,
    Station:  strings.TrimSpace(input.Station),
    StartsAt: input.StartsAt,
    EndsAt:   input.EndsAt,
    Note:     strings.TrimSpace(input.Note),
  }
  if _, err := ss.shiftRepo.Create(ctx, nil, []*types.Shift{shift}); err != nil {
    return nil, fmt.Errorf("Failed to create shift: %w", err)
  }
  shift.User = users[0]
  return shift, nil
}

func (ss *scheduleService) UpdateShift(ctx context.Context, id uuid.UUID, input ShiftInput) (*types.Shift, error) {
  if err := validateShiftInput(input); err != nil {
    return nil, err
  }
  shifts, err := ss.shiftRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load shift: %w", err)
  }
  if len(shifts) == 0 {
    return nil, fmt.Errorf("Shift not found")
  }
  if err := ss.checkOverlap(ctx, input, id); err != nil {
    return nil, err
  }

  if err := ss.shiftRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "user_id":   input.UserID,
    "role":      input.Role,
    "station":   strings.TrimSpace(input.Station),
    "starts_at": input.StartsAt,
    "ends_at":   input.EndsAt,
    "note":      strings.TrimSpace(input.Note),
  }); err != nil {
    return nil, fmt.Errorf("Failed to update shift: %w", err)
  }

  updated, err := ss.shiftRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil || len(updated) == 0 {
    return nil, fmt.Errorf("Failed to reload shift: %w", err)
  }
  return updated[0], nil
}

func (ss *scheduleService) DeleteShift(ctx context.Context, id uuid.UUID) error {
  return ss.shiftRepo.Delete(ctx, nil, []uuid.UUID{id})
}

func (ss *scheduleService) ListShifts(ctx context.Context, from, to time.Time) ([]*types.Shift, error) {
  if !from.Before(to) {
    return nil, fmt.Errorf("from must be before to")
  }
  return ss.shiftRepo.ListRange(ctx, nil, from, to)
}

func (ss *scheduleService) WeekView(ctx context.Context, weekStart time.Time) (*WeekView, error) {
  start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
  end := start.AddDate(0, 0, 7)

  shifts, err := ss.shiftRepo.ListRange(ctx, nil, start, end)
  if err != nil {
    return nil, fmt.Errorf("Failed to load shifts: %w", err)
  }

  view := &WeekView{
    WeekStart:   start.Format("2006-01-02"),
    HoursByUser: map[string]float64{},
  }
  days := make([]*WeekDay, 7)
  for i := range days {
    days[i] = &WeekDay{Date: start.AddDate(0, 0, i).Format("2006-01-02")}
  }

  for _, shift := range shifts {
    dayIdx := int(shift.StartsAt.Sub(start).Hours() / 24)
    if dayIdx < 0 || dayIdx > 6 {
      continue
    }
    hours := shift.EndsAt.Sub(shift.StartsAt).Hours()
    days[dayIdx].Shifts = append(days[dayIdx].Shifts, shift)
    days[dayIdx].Hours += hours
    view.HoursByUser[shift.UserID.String()] += hours
  }

  view.Days = days
  return view, nil
}
