package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/chefboard/chefboard-backend/internal/handlers"
  "github.com/chefboard/chefboard-backend/internal/middleware"
)

type RouterConfig struct {
  ServiceName        string
  MediaRoot          string
  AllowOrigins       []string
  HealthcheckHandler *handlers.HealthcheckHandler
  AuthHandler        *handlers.AuthHandler
  AuthMiddleware     *middleware.AuthMiddleware
  UserHandler        *handlers.UserHandler
  RecipeHandler      *handlers.RecipeHandler
  ImportHandler      *handlers.ImportHandler
  HACCPHandler       *handlers.HACCPHandler
  ScheduleHandler    *handlers.ScheduleHandler
  MenuHandler        *handlers.MenuHandler
  ExportHandler      *handlers.ExportHandler
  SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(otelgin.Middleware(cfg.ServiceName))
  router.Use(cors.New(cors.Config{
    AllowOrigins:     cfg.AllowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // Generated files (avatars) are served straight off disk.
  if cfg.MediaRoot != "" {
    router.Static("/media", cfg.MediaRoot)
  }

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", cfg.HealthcheckHandler.Healthz)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())

  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  // SSE
  protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)

  // User / staff
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PATCH("/user/name", cfg.UserHandler.UpdateName)
  protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
  protected.GET("/staff", cfg.UserHandler.ListStaff)
  protected.PATCH("/staff/:id/role", cfg.UserHandler.UpdateRole)

  // Recipes
  protected.POST("/recipes", cfg.RecipeHandler.Create)
  protected.GET("/recipes", cfg.RecipeHandler.List)
  protected.GET("/recipes/:id", cfg.RecipeHandler.Get)
  protected.PUT("/recipes/:id", cfg.RecipeHandler.Update)
  protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)

  // Recipe import
  protected.POST("/imports", cfg.ImportHandler.Enqueue)
  protected.GET("/imports", cfg.ImportHandler.ListRuns)
  protected.GET("/imports/:id", cfg.ImportHandler.GetRun)

  // HACCP
  protected.POST("/haccp/units", cfg.HACCPHandler.CreateUnit)
  protected.GET("/haccp/units", cfg.HACCPHandler.ListUnits)
  protected.PUT("/haccp/units/:id", cfg.HACCPHandler.UpdateUnit)
  protected.DELETE("/haccp/units/:id", cfg.HACCPHandler.DeactivateUnit)
  protected.POST("/haccp/readings", cfg.HACCPHandler.RecordReading)
  protected.GET("/haccp/readings", cfg.HACCPHandler.ListReadings)
  protected.GET("/haccp/report", cfg.HACCPHandler.DailyReport)

  // Schedule
  protected.POST("/shifts", cfg.ScheduleHandler.CreateShift)
  protected.GET("/shifts", cfg.ScheduleHandler.ListShifts)
  protected.PUT("/shifts/:id", cfg.ScheduleHandler.UpdateShift)
  protected.DELETE("/shifts/:id", cfg.ScheduleHandler.DeleteShift)
  protected.GET("/schedule/week", cfg.ScheduleHandler.WeekView)

  // Menu planning
  protected.POST("/menus", cfg.MenuHandler.UpsertDay)
  protected.GET("/menus", cfg.MenuHandler.ListRange)
  protected.GET("/menus/day", cfg.MenuHandler.GetDay)
  protected.DELETE("/menus/:id", cfg.MenuHandler.DeleteDay)
  protected.POST("/guest-counts", cfg.MenuHandler.SetGuestCount)
  protected.GET("/guest-counts", cfg.MenuHandler.ListGuestCounts)
  protected.GET("/forecast", cfg.MenuHandler.Forecast)

  // Exports
  protected.GET("/export/recipes/:id/pdf", cfg.ExportHandler.RecipePDF)
  protected.GET("/export/haccp/pdf", cfg.ExportHandler.HACCPPDF)
  protected.GET("/export/week/xlsx", cfg.ExportHandler.WeekXLSX)

  return router
}
