package handlers

import (
  "io"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  user, err := uh.userService.GetMe(c.Request.Context(), nil)
  if err != nil {
    RespondError(c, http.StatusNotFound, "user_not_found", err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) ListStaff(c *gin.Context) {
  users, err := uh.userService.ListStaff(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_staff_failed", err)
    return
  }
  RespondOK(c, users)
}

func (uh *UserHandler) UpdateName(c *gin.Context) {
  var req struct {
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  user, err := uh.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_name_failed", err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UpdateRole(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var req struct {
    Role string `json:"role"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  user, err := uh.userService.UpdateRole(c.Request.Context(), userID, req.Role)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_role_failed", err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UploadAvatar(c *gin.Context) {
  fileHeader, err := c.FormFile("avatar")
  if err != nil {
    RespondError(c, http.StatusBadRequest, "missing_file", err)
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    RespondError(c, http.StatusBadRequest, "unreadable_file", err)
    return
  }
  defer file.Close()
  raw, err := io.ReadAll(io.LimitReader(file, 10<<20))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "unreadable_file", err)
    return
  }
  user, err := uh.userService.UpdateAvatarFromImage(c.Request.Context(), raw)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "avatar_update_failed", err)
    return
  }
  RespondOK(c, user)
}
