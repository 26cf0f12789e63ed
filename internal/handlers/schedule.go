package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type ScheduleHandler struct {
  scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
  return &ScheduleHandler{scheduleService: scheduleService}
}

func (sh *ScheduleHandler) CreateShift(c *gin.Context) {
  var input services.ShiftInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  shift, err := sh.scheduleService.CreateShift(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_shift_failed", err)
    return
  }
  RespondOK(c, shift)
}

func (sh *ScheduleHandler) UpdateShift(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var input services.ShiftInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  shift, err := sh.scheduleService.UpdateShift(c.Request.Context(), id, input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_shift_failed", err)
    return
  }
  RespondOK(c, shift)
}

func (sh *ScheduleHandler) DeleteShift(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := sh.scheduleService.DeleteShift(c.Request.Context(), id); err != nil {
    RespondError(c, http.StatusInternalServerError, "delete_shift_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (sh *ScheduleHandler) ListShifts(c *gin.Context) {
  from, to, err := parseRange(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_range", err)
    return
  }
  shifts, err := sh.scheduleService.ListShifts(c.Request.Context(), from, to)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_shifts_failed", err)
    return
  }
  RespondOK(c, shifts)
}

func (sh *ScheduleHandler) WeekView(c *gin.Context) {
  weekStart, err := parseDate(c.Query("week_start"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  view, err := sh.scheduleService.WeekView(c.Request.Context(), weekStart)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "week_view_failed", err)
    return
  }
  RespondOK(c, view)
}
