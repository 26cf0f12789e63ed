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
  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/sse"
  "github.com/chefboard/chefboard-backend/internal/types"
)

type StorageUnitInput struct {
  Name    string  `json:"name"`
  Kind    string  `json:"kind"`
  MinTemp float64 `json:"min_temp"`
  MaxTemp float64 `json:"max_temp"`
}

type ReadingInput struct {
  StorageUnitID uuid.UUID `json:"storage_unit_id"`
  ValueCelsius  float64   `json:"value_celsius"`
  MeasuredAt    time.Time `json:"measured_at"`
  Note          string    `json:"note"`
}

// UnitDailyReport is one storage unit's compliance summary for a day.
type UnitDailyReport struct {
  Unit         *types.StorageUnit          `json:"unit"`
  Readings     []*types.TemperatureReading `json:"readings"`
  ReadingCount int                         `json:"reading_count"`
  Violations   int                         `json:"violations"`
  MinValue     float64                     `json:"min_value"`
  MaxValue     float64                     `json:"max_value"`
  AvgValue     float64                     `json:"avg_value"`
  Compliant    bool                        `json:"compliant"`
}

// DailyReport is the HACCP daily log: every active unit with its readings,
// violations and an overall compliance verdict. Units with no readings for
// the day are non-compliant, a missing check is itself a finding.
type DailyReport struct {
  Date      string             `json:"date"`
  Units     []*UnitDailyReport `json:"units"`
  Compliant bool               `json:"compliant"`
}

type HACCPService interface {
  CreateUnit(ctx context.Context, input StorageUnitInput) (*types.StorageUnit, error)
  ListUnits(ctx context.Context, activeOnly bool) ([]*types.StorageUnit, error)
  UpdateUnit(ctx context.Context, id uuid.UUID, input StorageUnitInput) (*types.StorageUnit, error)
  DeactivateUnit(ctx context.Context, id uuid.UUID) error
  RecordReading(ctx context.Context, input ReadingInput) (*types.TemperatureReading, error)
  ListReadings(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]*types.TemperatureReading, error)
  DailyReport(ctx context.Context, day time.Time) (*DailyReport, error)
}

type haccpService struct {
  db          *gorm.DB
  log         *logger.Logger
  unitRepo    repos.StorageUnitRepo
  readingRepo repos.TemperatureReadingRepo
  notifier    Notifier
}

func NewHACCPService(
  db *gorm.DB,
  log *logger.Logger,
  unitRepo repos.StorageUnitRepo,
  readingRepo repos.TemperatureReadingRepo,
  notifier Notifier,
) HACCPService {
  serviceLog := log.With("service", "HACCPService")
  return &haccpService{
    db:          db,
    log:         serviceLog,
    unitRepo:    unitRepo,
    readingRepo: readingRepo,
    notifier:    notifier,
  }
}

func validateUnitInput(input StorageUnitInput) error {
  if strings.TrimSpace(input.Name) == "" {
    return fmt.Errorf("A storage unit name is required")
  }
  if !types.ValidStorageKind(input.Kind) {
    return fmt.Errorf("Unknown storage unit kind: %s", input.Kind)
  }
  if input.MinTemp >= input.MaxTemp {
    return fmt.Errorf("min_temp must be below max_temp")
  }
  return nil
}

func (hs *haccpService) CreateUnit(ctx context.Context, input StorageUnitInput) (*types.StorageUnit, error) {
  if err := validateUnitInput(input); err != nil {
    return nil, err
  }
  unit := &types.StorageUnit{
    ID:      uuid.New(),
    Name:    strings.TrimSpace(input.Name),
    Kind:    input.Kind,
    MinTemp: input.MinTemp,
    MaxTemp: input.MaxTemp,
    Active:  true,
  }
  if _, err := hs.unitRepo.Create(ctx, nil, []*types.StorageUnit{unit}); err != nil {
    return nil, fmt.Errorf("Failed to create storage unit: %w", err)
  }
  return unit, nil
}

func (hs *haccpService) ListUnits(ctx context.Context, activeOnly bool) ([]*types.StorageUnit, error) {
  return hs.unitRepo.List(ctx, nil, activeOnly)
}

func (hs *haccpService) UpdateUnit(ctx context.Context, id uuid.UUID, input StorageUnitInput) (*types.StorageUnit, error) {
  if err := validateUnitInput(input); err != nil {
    return nil, err
  }
  units, err := hs.unitRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load storage unit: %w", err)
  }
  if len(units) == 0 {
    return nil, fmt.Errorf("Storage unit not found")
  }
  if err := hs.unitRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "name":     strings.TrimSpace(input.Name),
    "kind":     input.Kind,
    "min_temp": input.MinTemp,
    "max_temp": input.MaxTemp,
  }); err != nil {
    return nil, fmt.Errorf("Failed to update storage unit: %w", err)
  }
  unit := units[0]
  unit.Name = strings.TrimSpace(input.Name)
  unit.Kind = input.Kind
  unit.MinTemp = input.MinTemp
  unit.MaxTemp = input.MaxTemp
  return unit, nil
}

// DeactivateUnit retires a unit from the daily log without deleting its
// reading history.
func (hs *haccpService) DeactivateUnit(ctx context.Context, id uuid.UUID) error {
  return hs.unitRepo.UpdateFields(ctx, nil, id, map[string]interface{}{"active": false})
}

func (hs *haccpService) RecordReading(ctx context.Context, input ReadingInput) (*types.TemperatureReading, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }

  units, err := hs.unitRepo.GetByIDs(ctx, nil, []uuid.UUID{input.StorageUnitID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load storage unit: %w", err)
  }
  if len(units) == 0 {
    return nil, fmt.Errorf("Storage unit not found")
  }
  unit := units[0]

  measuredAt := input.MeasuredAt
  if measuredAt.IsZero() {
    measuredAt = time.Now()
  }
  if measuredAt.After(time.Now().Add(5 * time.Minute)) {
    return nil, fmt.Errorf("measured_at cannot be in the future")
  }

  reading := &types.TemperatureReading{
    ID:            uuid.New(),
    StorageUnitID: unit.ID,
    UserID:        rd.UserID,
    ValueCelsius:  input.ValueCelsius,
    MeasuredAt:    measuredAt,
    Violation:     input.ValueCelsius < unit.MinTemp || input.ValueCelsius > unit.MaxTemp,
    Note:          strings.TrimSpace(input.Note),
  }
  if _, err := hs.readingRepo.Create(ctx, nil, []*types.TemperatureReading{reading}); err != nil {
    return nil, fmt.Errorf("Failed to record reading: %w", err)
  }

  if reading.Violation {
    hs.log.Warn("Temperature violation recorded",
      "unit", unit.Name, "value", reading.ValueCelsius,
      "min", unit.MinTemp, "max", unit.MaxTemp)
    hs.notifier.NotifyUser(ctx, rd.UserID, sse.SSEEventTemperatureViolation, map[string]any{
      "storage_unit_id": unit.ID,
      "unit_name":       unit.Name,
      "value_celsius":   reading.ValueCelsius,
      "min_temp":        unit.MinTemp,
      "max_temp":        unit.MaxTemp,
      "measured_at":     reading.MeasuredAt,
    })
  }
  return reading, nil
}

func (hs *haccpService) ListReadings(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]*types.TemperatureReading, error) {
  if !from.Before(to) {
    return nil, fmt.Errorf("from must be before to")
  }
  if unitID == uuid.Nil {
    return hs.readingRepo.ListRange(ctx, nil, from, to)
  }
  return hs.readingRepo.ListByUnit(ctx, nil, unitID, from, to)
}

func (hs *haccpService) DailyReport(ctx context.Context, day time.Time) (*DailyReport, error) {
  dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
  dayEnd := dayStart.Add(24 * time.Hour)

  units, err := hs.unitRepo.List(ctx, nil, true)
  if err != nil {
    return nil, fmt.Errorf("Failed to load storage units: %w", err)
  }
  readings, err := hs.readingRepo.ListRange(ctx, nil, dayStart, dayEnd)
  if err != nil {
    return nil, fmt.Errorf("Failed to load readings: %w", err)
  }

  byUnit := map[uuid.UUID][]*types.TemperatureReading{}
  for _, r := range readings {
    byUnit[r.StorageUnitID] = append(byUnit[r.StorageUnitID], r)
  }

  report := &DailyReport{
    Date:      dayStart.Format("2006-01-02"),
    Compliant: true,
  }
  for _, unit := range units {
    unitReadings := byUnit[unit.ID]
    ur := &UnitDailyReport{
      Unit:         unit,
      Readings:     unitReadings,
      ReadingCount: len(unitReadings),
    }
    sum := 0.0
    for i, r := range unitReadings {
      if i == 0 || r.ValueCelsius < ur.MinValue {
        ur.MinValue = r.ValueCelsius
      }
      if i == 0 || r.ValueCelsius > ur.MaxValue {
        ur.MaxValue = r.ValueCelsius
      }
      sum += r.ValueCelsius
      if r.Violation {
        ur.Violations++
      }
    }
    if ur.ReadingCount > 0 {
      ur.AvgValue = sum / float64(ur.ReadingCount)
    }
    ur.Compliant = ur.ReadingCount > 0 && ur.Violations == 0
    if !ur.Compliant {
      report.Compliant = false
    }
    report.Units = append(report.Units, ur)
  }
  return report, nil
}
