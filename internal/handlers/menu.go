package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type MenuHandler struct {
  menuService services.MenuService
}

func NewMenuHandler(menuService services.MenuService) *MenuHandler {
  return &MenuHandler{menuService: menuService}
}

func (mh *MenuHandler) UpsertDay(c *gin.Context) {
  var input services.MenuDayInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  day, err := mh.menuService.UpsertDay(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "upsert_menu_failed", err)
    return
  }
  RespondOK(c, day)
}

func (mh *MenuHandler) GetDay(c *gin.Context) {
  date, err := parseDate(c.Query("date"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  day, err := mh.menuService.GetDay(c.Request.Context(), date, c.Query("meal"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "get_menu_failed", err)
    return
  }
  if day == nil {
    RespondError(c, http.StatusNotFound, "menu_not_found", nil)
    return
  }
  RespondOK(c, day)
}

func (mh *MenuHandler) ListRange(c *gin.Context) {
  from, to, err := parseRange(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_range", err)
    return
  }
  days, err := mh.menuService.ListRange(c.Request.Context(), from, to)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_menus_failed", err)
    return
  }
  RespondOK(c, days)
}

func (mh *MenuHandler) DeleteDay(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := mh.menuService.DeleteDay(c.Request.Context(), id); err != nil {
    RespondError(c, http.StatusInternalServerError, "delete_menu_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (mh *MenuHandler) SetGuestCount(c *gin.Context) {
  var input services.GuestCountInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  gc, err := mh.menuService.SetGuestCount(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "set_guest_count_failed", err)
    return
  }
  RespondOK(c, gc)
}

func (mh *MenuHandler) ListGuestCounts(c *gin.Context) {
  from, to, err := parseRange(c)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_range", err)
    return
  }
  counts, err := mh.menuService.ListGuestCounts(c.Request.Context(), from, to)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_guest_counts_failed", err)
    return
  }
  RespondOK(c, counts)
}

func (mh *MenuHandler) Forecast(c *gin.Context) {
  date, err := parseDate(c.Query("date"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_date", err)
    return
  }
  forecast, err := mh.menuService.Forecast(c.Request.Context(), date, c.Query("meal"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "forecast_failed", err)
    return
  }
  RespondOK(c, forecast)
}
