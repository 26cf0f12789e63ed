package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type ImportHandler struct {
  importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
  return &ImportHandler{importService: importService}
}

func (ih *ImportHandler) Enqueue(c *gin.Context) {
  var req struct {
    URL string `json:"url"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  run, err := ih.importService.Enqueue(c.Request.Context(), req.URL)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "enqueue_failed", err)
    return
  }
  c.JSON(http.StatusAccepted, run)
}

func (ih *ImportHandler) GetRun(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  run, err := ih.importService.GetRun(c.Request.Context(), id)
  if err != nil {
    RespondError(c, http.StatusNotFound, "run_not_found", err)
    return
  }
  RespondOK(c, run)
}

func (ih *ImportHandler) ListRuns(c *gin.Context) {
  limit := 0
  if l := c.Query("limit"); l != "" {
    limit, _ = strconv.Atoi(l)
  }
  runs, err := ih.importService.ListRuns(c.Request.Context(), limit)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_runs_failed", err)
    return
  }
  RespondOK(c, runs)
}
