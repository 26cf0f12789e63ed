package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type HACCPHandler struct {
  haccpService services.HACCPService
}

func NewHACCPHandler(haccpService services.HACCPService) *HACCPHandler {
  return &HACCPHandler{haccpService: haccpService}
}

func (hh *HACCPHandler) CreateUnit(c *gin.Context) {
  var input services.StorageUnitInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  unit, err := hh.haccpService.CreateUnit(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_unit_failed", err)
    return
  }
  RespondOK(c, unit)
}

func (hh *HACCPHandler) ListUnits(c *gin.Context) {
  activeOnly := c.Query("all") != "true"
  units, err := hh.haccpService.ListUnits(c.Request.Context(), activeOnly)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_units_failed", err)
    return
  }
  RespondOK(c, units)
}

func (hh *HACCPHandler) UpdateUnit(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var input services.StorageUnitInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  unit, err := hh.haccpService.UpdateUnit(c.Request.Context(), id, input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_unit_failed", err)
    return
  }
  RespondOK(c, unit)
}

func (hh *HACCPHandler) DeactivateUnit(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := hh.haccpService.DeactivateUnit(c.Request.Context(), id); err != nil {
    RespondError(c, http.StatusInternalServerError, "deactivate_unit_failed", err)
    return
  }
  RespondOK(c, gin.H{"deactivated": true})
}

func (hh *HACCPHandler) RecordReading(c *gin.Context) {
  var input services.ReadingInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  reading, err := hh.haccpService.RecordReading(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "record_reading_failed", err)
    return
  }
  RespondOK(c, reading)
}

func (hh *HACCPHandler) ListReadings(c *gin.Context) {
  from, to, err := parseRange(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_range", err)
    return
  }
  unitID := uuid.Nil
  if u := c.Query("unit_id"); u != "" {
    unitID, err = uuid.Parse(u)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_unit_id", err)
      return
    }
  }
  readings, err := hh.haccpService.ListReadings(c.Request.Context(), unitID, from, to)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_readings_failed", err)
    return
  }
  RespondOK(c, readings)
}

func (hh *HACCPHandler) DailyReport(c *gin.Context) {
  day, err := parseDate(c.Query("date"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  report, err := hh.haccpService.DailyReport(c.Request.Context(), day)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "daily_report_failed", err)
    return
  }
  RespondOK(c, report)
}

func parseDate(s string) (time.Time, error) {
  if s == "" {
    return time.Now(), nil
  }
  return time.Parse("2006-01-02", s)
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
  from, err := parseDate(c.Query("from"))
  if err != nil {
    return time.Time{}, time.Time{}, err
  }
  to, err := parseDate(c.Query("to"))
  if err != nil {
    return time.Time{}, time.Time{}, err
  }
  if c.Query("to") == "" {
    to = from.AddDate(0, 0, 1)
  }
  return from, to, nil
}
