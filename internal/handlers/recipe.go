package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/services"
)

type RecipeHandler struct {
  recipeService services.RecipeService
}

func NewRecipeHandler(recipeService services.RecipeService) *RecipeHandler {
  return &RecipeHandler{recipeService: recipeService}
}

func (rh *RecipeHandler) Create(c *gin.Context) {
  var input services.RecipeInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  view, err := rh.recipeService.Create(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_recipe_failed", err)
    return
  }
  RespondOK(c, view)
}

func (rh *RecipeHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  portions := 0
  if p := c.Query("portions"); p != "" {
    portions, _ = strconv.Atoi(p)
  }
  view, err := rh.recipeService.Get(c.Request.Context(), id, portions)
  if err != nil {
    RespondError(c, http.StatusNotFound, "recipe_not_found", err)
    return
  }
  RespondOK(c, view)
}

func (rh *RecipeHandler) List(c *gin.Context) {
  recipes, err := rh.recipeService.List(c.Request.Context(), c.Query("category"), c.Query("search"))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_recipes_failed", err)
    return
  }
  RespondOK(c, recipes)
}

func (rh *RecipeHandler) Update(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  var input services.RecipeInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  view, err := rh.recipeService.Update(c.Request.Context(), id, input)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_recipe_failed", err)
    return
  }
  RespondOK(c, view)
}

func (rh *RecipeHandler) Delete(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  if err := rh.recipeService.Delete(c.Request.Context(), id); err != nil {
    RespondError(c, http.StatusInternalServerError, "delete_recipe_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}
