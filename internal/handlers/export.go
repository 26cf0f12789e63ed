package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type ExportHandler struct {
  pdfService  services.PDFExportService
  xlsxService services.XLSXExportService
}

func NewExportHandler(pdfService services.PDFExportService, xlsxService services.XLSXExportService) *ExportHandler {
  return &ExportHandler{pdfService: pdfService, xlsxService: xlsxService}
}

func (eh *ExportHandler) RecipePDF(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  portions := 0
  if p := c.Query("portions"); p != "" {
    portions, _ = strconv.Atoi(p)
  }
  data, filename, err := eh.pdfService.RecipeCard(c.Request.Context(), id, portions)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "recipe_pdf_failed", err)
    return
  }
  c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
  c.Data(http.StatusOK, "application/pdf", data)
}

func (eh *ExportHandler) HACCPPDF(c *gin.Context) {
  day, err := parseDate(c.Query("date"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  data, filename, err := eh.pdfService.HACCPDailyReport(c.Request.Context(), day)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "haccp_pdf_failed", err)
    return
  }
  c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
  c.Data(http.StatusOK, "application/pdf", data)
}

func (eh *ExportHandler) WeekXLSX(c *gin.Context) {
  weekStart, err := parseDate(c.Query("week_start"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  data, filename, err := eh.xlsxService.WeekWorkbook(c.Request.Context(), weekStart)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "week_xlsx_failed", err)
    return
  }
  c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
  c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
