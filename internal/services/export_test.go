package services

import (
  "os"
  "path/filepath"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/types"
)

func TestHACCPDailyReport_PersistsCopyInMediaStore(t *testing.T) {
  root := t.TempDir()
  t.Setenv("MEDIA_ROOT", root)

  haccpSvc, _, ctx := newTestHACCPService(t)
  day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
  unit, err := haccpSvc.CreateUnit(ctx, StorageUnitInput{
    Name: "Binder fridge " + uuid.New().String(), Kind: types.StorageKindFridge, MinTemp: 0, MaxTemp: 4,
  })
  if err != nil {
    t.Fatalf("create unit failed: %v", err)
  }
  if _, err := haccpSvc.RecordReading(ctx, ReadingInput{
    StorageUnitID: unit.ID, ValueCelsius: 3, MeasuredAt: day.Add(9 * time.Hour),
  }); err != nil {
    t.Fatalf("record reading failed: %v", err)
  }

  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }
  media, err := NewMediaStore(log)
  if err != nil {
    t.Fatalf("media store init failed: %v", err)
  }

  pdfSvc := NewPDFExportService(log, nil, haccpSvc, media)
  data, filename, err := pdfSvc.HACCPDailyReport(ctx, day)
  if err != nil {
    t.Fatalf("report failed: %v", err)
  }
  if filename != "haccp_2026-06-15.pdf" {
    t.Fatalf("unexpected filename: %q", filename)
  }
  if len(data) == 0 {
    t.Fatalf("expected PDF bytes")
  }

  info, err := os.Stat(filepath.Join(root, "exports", filename))
  if err != nil {
    t.Fatalf("expected a stored copy: %v", err)
  }
  if info.Size() != int64(len(data)) {
    t.Fatalf("stored copy is %d bytes, download is %d", info.Size(), len(data))
  }
}
