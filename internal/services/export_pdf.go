package services

import (
  "bytes"
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/go-pdf/fpdf"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/logger"
)

// PDFExportService renders printable documents: recipe cards for the pass
// and the HACCP daily log for the inspection binder.
type PDFExportService interface {
  RecipeCard(ctx context.Context, recipeID uuid.UUID, portions int) ([]byte, string, error)
  HACCPDailyReport(ctx context.Context, day time.Time) ([]byte, string, error)
}

type pdfExportService struct {
  log     *logger.Logger
  recipes RecipeService
  haccp   HACCPService
  media   MediaStore
}

func NewPDFExportService(log *logger.Logger, recipes RecipeService, haccp HACCPService, media MediaStore) PDFExportService {
  serviceLog := log.With("service", "PDFExportService")
  return &pdfExportService{log: serviceLog, recipes: recipes, haccp: haccp, media: media}
}

// persistExport writes a copy of a generated document under exports/ in the
// media store. Save failures are logged, not returned.
func persistExport(ctx context.Context, log *logger.Logger, media MediaStore, filename string, data []byte) {
  if media == nil {
    return
  }
  if _, err := media.Save(ctx, "exports/"+filename, data); err != nil {
    log.Warn("Failed to persist export", "file", filename, "error", err)
  }
}

func newPDF(title string) *fpdf.Fpdf {
  pdf := fpdf.New("P", "mm", "A4", "")
  pdf.SetTitle(title, true)
  pdf.SetAutoPageBreak(true, 18)
  pdf.SetFooterFunc(func() {
    pdf.SetY(-14)
    pdf.SetFont("Helvetica", "I", 8)
    pdf.SetTextColor(120, 120, 120)
    pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
  })
  return pdf
}

func (ps *pdfExportService) RecipeCard(ctx context.Context, recipeID uuid.UUID, portions int) ([]byte, string, error) {
  view, err := ps.recipes.Get(ctx, recipeID, portions)
  if err != nil {
    return nil, "", err
  }
  recipe := view.Recipe

  pdf := newPDF(recipe.Title)
  pdf.AddPage()

  pdf.SetFont("Helvetica", "B", 20)
  pdf.SetTextColor(30, 30, 30)
  pdf.MultiCell(0, 10, recipe.Title, "", "L", false)

  pdf.SetFont("Helvetica", "", 10)
  pdf.SetTextColor(90, 90, 90)
  portionCount := recipe.Portions
  if view.ScaledPortions > 0 {
    portionCount = view.ScaledPortions
  }
  meta := fmt.Sprintf("%d portions", portionCount)
  if recipe.PrepMinutes > 0 {
    meta += fmt.Sprintf("  |  Prep %d min", recipe.PrepMinutes)
  }
  if recipe.CookMinutes > 0 {
    meta += fmt.Sprintf("  |  Cook %d min", recipe.CookMinutes)
  }
  if recipe.SourceName != "" {
    meta += "  |  " + recipe.SourceName
  }
  pdf.CellFormat(0, 6, meta, "", 1, "L", false, 0, "")

  if len(view.Allergens) > 0 {
    pdf.SetFont("Helvetica", "B", 10)
    pdf.SetTextColor(180, 40, 40)
    pdf.CellFormat(0, 6, "Allergens: "+strings.Join(view.Allergens, ", "), "", 1, "L", false, 0, "")
  }
  pdf.Ln(3)

  if recipe.Description != "" {
    pdf.SetFont("Helvetica", "I", 10)
    pdf.SetTextColor(60, 60, 60)
    pdf.MultiCell(0, 5, recipe.Description, "", "L", false)
    pdf.Ln(3)
  }

  pdf.SetFont("Helvetica", "B", 13)
  pdf.SetTextColor(30, 30, 30)
  pdf.CellFormat(0, 8, "Ingredients", "", 1, "L", false, 0, "")
  pdf.SetFont("Helvetica", "", 10)
  for _, ing := range recipe.Ingredients {
    line := ing.Name
    if ing.Quantity > 0 {
      qty := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", ing.Quantity), "0"), ".")
      if ing.Unit != "" {
        line = fmt.Sprintf("%s %s %s", qty, ing.Unit, ing.Name)
      } else {
        line = fmt.Sprintf("%s %s", qty, ing.Name)
      }
    }
    if ing.Note != "" {
      line += " (" + ing.Note + ")"
    }
    pdf.CellFormat(6, 5, "-", "", 0, "L", false, 0, "")
    pdf.MultiCell(0, 5, line, "", "L", false)
  }
  pdf.Ln(3)

  pdf.SetFont("Helvetica", "B", 13)
  pdf.CellFormat(0, 8, "Method", "", 1, "L", false, 0, "")
  pdf.SetFont("Helvetica", "", 10)
  for i, step := range recipe.Steps {
    pdf.SetFont("Helvetica", "B", 10)
    pdf.CellFormat(8, 5, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
    pdf.SetFont("Helvetica", "", 10)
    pdf.MultiCell(0, 5, step.Instruction, "", "L", false)
    pdf.Ln(1)
  }

  var buf bytes.Buffer
  if err := pdf.Output(&buf); err != nil {
    return nil, "", fmt.Errorf("Failed to render recipe PDF: %w", err)
  }
  filename := fmt.Sprintf("recipe_%s.pdf", safeFilename(recipe.Title))
  persistExport(ctx, ps.log, ps.media, filename, buf.Bytes())
  return buf.Bytes(), filename, nil
}

func (ps *pdfExportService) HACCPDailyReport(ctx context.Context, day time.Time) ([]byte, string, error) {
  report, err := ps.haccp.DailyReport(ctx, day)
  if err != nil {
    return nil, "", err
  }

  pdf := newPDF("HACCP daily log " + report.Date)
  pdf.AddPage()

  pdf.SetFont("Helvetica", "B", 18)
  pdf.SetTextColor(30, 30, 30)
  pdf.CellFormat(0, 10, "HACCP Daily Temperature Log", "", 1, "L", false, 0, "")
  pdf.SetFont("Helvetica", "", 11)
  pdf.SetTextColor(90, 90, 90)
  verdict := "COMPLIANT"
  if !report.Compliant {
    verdict = "NOT COMPLIANT"
  }
  pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s    Status: %s", report.Date, verdict), "", 1, "L", false, 0, "")
  pdf.Ln(4)

  for _, ur := range report.Units {
    pdf.SetFont("Helvetica", "B", 12)
    if ur.Compliant {
      pdf.SetTextColor(30, 30, 30)
    } else {
      pdf.SetTextColor(180, 40, 40)
    }
    header := fmt.Sprintf("%s (%s, %.1f to %.1f C)", ur.Unit.Name, ur.Unit.Kind, ur.Unit.MinTemp, ur.Unit.MaxTemp)
    pdf.CellFormat(0, 8, header, "", 1, "L", false, 0, "")

    pdf.SetFont("Helvetica", "", 9)
    pdf.SetTextColor(60, 60, 60)
    if ur.ReadingCount == 0 {
      pdf.CellFormat(0, 6, "No readings recorded", "", 1, "L", false, 0, "")
      pdf.Ln(2)
      continue
    }

    pdf.CellFormat(0, 6, fmt.Sprintf("%d readings  min %.1f C  avg %.1f C  max %.1f C  violations %d",
      ur.ReadingCount, ur.MinValue, ur.AvgValue, ur.MaxValue, ur.Violations), "", 1, "L", false, 0, "")

    pdf.SetFillColor(240, 240, 240)
    pdf.SetFont("Helvetica", "B", 9)
    pdf.CellFormat(30, 6, "Time", "1", 0, "L", true, 0, "")
    pdf.CellFormat(30, 6, "Temp (C)", "1", 0, "R", true, 0, "")
    pdf.CellFormat(25, 6, "Status", "1", 0, "L", true, 0, "")
    pdf.CellFormat(0, 6, "Note", "1", 1, "L", true, 0, "")
    pdf.SetFont("Helvetica", "", 9)
    for _, r := range ur.Readings {
      status := "ok"
      if r.Violation {
        status = "VIOLATION"
      }
      pdf.CellFormat(30, 6, r.MeasuredAt.Format("15:04"), "1", 0, "L", false, 0, "")
      pdf.CellFormat(30, 6, fmt.Sprintf("%.1f", r.ValueCelsius), "1", 0, "R", false, 0, "")
      pdf.CellFormat(25, 6, status, "1", 0, "L", false, 0, "")
      pdf.CellFormat(0, 6, r.Note, "1", 1, "L", false, 0, "")
    }
    pdf.Ln(3)
  }

  var buf bytes.Buffer
  if err := pdf.Output(&buf); err != nil {
    return nil, "", fmt.Errorf("Failed to render HACCP PDF: %w", err)
  }
  filename := fmt.Sprintf("haccp_%s.pdf", report.Date)
  persistExport(ctx, ps.log, ps.media, filename, buf.Bytes())
  return buf.Bytes(), filename, nil
}

func safeFilename(s string) string {
  s = strings.ToLower(strings.TrimSpace(s))
  var b strings.Builder
  for _, r := range s {
    switch {
    case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
      b.WriteRune(r)
    case r == ' ' || r == '-' || r == '_':
      b.WriteByte('_')
    }
  }
  if b.Len() == 0 {
    return "untitled"
  }
  return b.String()
}
