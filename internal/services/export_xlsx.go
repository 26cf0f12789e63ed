package services

import (
  "bytes"
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "github.com/xuri/excelize/v2"
  "golang.org/x/sync/errgroup"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

// XLSXExportService produces the weekly workbook: one sheet for the staff
// schedule, one for temperature readings of the same week.
type XLSXExportService interface {
  WeekWorkbook(ctx context.Context, weekStart time.Time) ([]byte, string, error)
}

type xlsxExportService struct {
  log      *logger.Logger
  schedule ScheduleService
  haccp    HACCPService
  media    MediaStore
}

func NewXLSXExportService(log *logger.Logger, schedule ScheduleService, haccp HACCPService, media MediaStore) XLSXExportService {
  serviceLog := log.With("service", "XLSXExportService")
  return &xlsxExportService{log: serviceLog, schedule: schedule, haccp: haccp, media: media}
}

func (xs *xlsxExportService) WeekWorkbook(ctx context.Context, weekStart time.Time) ([]byte, string, error) {
  start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
  end := start.AddDate(0, 0, 7)

  var (
    week     *WeekView
    readings []*types.TemperatureReading
    units    []*types.StorageUnit
  )

  g, gctx := errgroup.WithContext(ctx)
  g.Go(func() error {
    var err error
    week, err = xs.schedule.WeekView(gctx, start)
    return err
  })
  g.Go(func() error {
    var err error
    readings, err = xs.haccp.ListReadings(gctx, uuid.Nil, start, end)
    return err
  })
  g.Go(func() error {
    var err error
    units, err = xs.haccp.ListUnits(gctx, false)
    return err
  })
  if err := g.Wait(); err != nil {
    return nil, "", fmt.Errorf("Failed to collect week data: %w", err)
  }

  f := excelize.NewFile()
  defer f.Close()

  if err := xs.writeScheduleSheet(f, week); err != nil {
    return nil, "", err
  }
  if err := xs.writeTemperatureSheet(f, readings, units); err != nil {
    return nil, "", err
  }
  f.DeleteSheet("Sheet1")

  var buf bytes.Buffer
  if err := f.Write(&buf); err != nil {
    return nil, "", fmt.Errorf("Failed to write workbook: %w", err)
  }
  filename := fmt.Sprintf("kitchen_week_%s.xlsx", start.Format("2006-01-02"))
  persistExport(ctx, xs.log, xs.media, filename, buf.Bytes())
  return buf.Bytes(), filename, nil
}

func (xs *xlsxExportService) writeScheduleSheet(f *excelize.File, week *WeekView) error {
  const sheet = "Schedule"
  if _, err := f.NewSheet(sheet); err != nil {
    return fmt.Errorf("Failed to create schedule sheet: %w", err)
  }

  headerStyle, err := f.NewStyle(&excelize.Style{
    Font: &excelize.Font{Bold: true},
    Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
  })
  if err != nil {
    return err
  }

  headers := []string{"Date", "Staff", "Role", "Station", "Start", "End", "Hours", "Note"}
  for i, h := range headers {
    cell, _ := excelize.CoordinatesToCellName(i+1, 1)
    f.SetCellValue(sheet, cell, h)
  }
  f.SetCellStyle(sheet, "A1", "H1", headerStyle)
  f.SetColWidth(sheet, "A", "A", 12)
  f.SetColWidth(sheet, "B", "B", 22)
  f.SetColWidth(sheet, "H", "H", 30)

  row := 2
  for _, day := range week.Days {
    for _, shift := range day.Shifts {
      name := shift.UserID.String()
      if shift.User != nil {
        name = shift.User.FirstName + " " + shift.User.LastName
      }
      hours := shift.EndsAt.Sub(shift.StartsAt).Hours()
      values := []any{
        day.Date,
        name,
        shift.Role,
        shift.Station,
        shift.StartsAt.Format("15:04"),
        shift.EndsAt.Format("15:04"),
        hours,
        shift.Note,
      }
      for i, v := range values {
        cell, _ := excelize.CoordinatesToCellName(i+1, row)
        f.SetCellValue(sheet, cell, v)
      }
      row++
    }
  }
  return nil
}

func (xs *xlsxExportService) writeTemperatureSheet(f *excelize.File, readings []*types.TemperatureReading, units []*types.StorageUnit) error {
  const sheet = "Temperatures"
  if _, err := f.NewSheet(sheet); err != nil {
    return fmt.Errorf("Failed to create temperature sheet: %w", err)
  }

  headerStyle, err := f.NewStyle(&excelize.Style{
    Font: &excelize.Font{Bold: true},
    Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
  })
  if err != nil {
    return err
  }
  violationStyle, err := f.NewStyle(&excelize.Style{
    Font: &excelize.Font{Color: "9C0006"},
    Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
  })
  if err != nil {
    return err
  }

  unitNames := map[string]string{}
  for _, u := range units {
    unitNames[u.ID.String()] = u.Name
  }

  headers := []string{"Measured at", "Unit", "Temp (C)", "Violation", "Note"}
  for i, h := range headers {
    cell, _ := excelize.CoordinatesToCellName(i+1, 1)
    f.SetCellValue(sheet, cell, h)
  }
  f.SetCellStyle(sheet, "A1", "E1", headerStyle)
  f.SetColWidth(sheet, "A", "A", 18)
  f.SetColWidth(sheet, "B", "B", 22)
  f.SetColWidth(sheet, "E", "E", 30)

  for i, r := range readings {
    row := i + 2
    name := unitNames[r.StorageUnitID.String()]
    if name == "" {
      name = r.StorageUnitID.String()
    }
    violation := ""
    if r.Violation {
      violation = "YES"
    }
    values := []any{
      r.MeasuredAt.Format("2006-01-02 15:04"),
      name,
      r.ValueCelsius,
      violation,
      r.Note,
    }
    for j, v := range values {
      cell, _ := excelize.CoordinatesToCellName(j+1, row)
      f.SetCellValue(sheet, cell, v)
    }
    if r.Violation {
      startCell, _ := excelize.CoordinatesToCellName(1, row)
      endCell, _ := excelize.CoordinatesToCellName(5, row)
      f.SetCellStyle(sheet, startCell, endCell, violationStyle)
    }
  }
  return nil
}
