package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  redisclient "github.com/chefboard/chefboard-backend/internal/clients/redis"
  "github.com/chefboard/chefboard-backend/internal/db"
  "github.com/chefboard/chefboard-backend/internal/handlers"
  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/middleware"
  "github.com/chefboard/chefboard-backend/internal/observability"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/server"
  "github.com/chefboard/chefboard-backend/internal/services"
  "github.com/chefboard/chefboard-backend/internal/sse"
  "github.com/chefboard/chefboard-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()

  // Tracing
  serviceName := utils.GetEnv("SERVICE_NAME", "chefboard-backend", log)
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: serviceName,
    Environment: utils.GetEnv("ENVIRONMENT", "development", log),
    Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer shutdownCancel()
      if err := otelShutdown(shutdownCtx); err != nil {
        log.Warn("OTel shutdown failed", "error", err)
      }
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  recipeRepo := repos.NewRecipeRepo(thePG, log)
  storageUnitRepo := repos.NewStorageUnitRepo(thePG, log)
  temperatureReadingRepo := repos.NewTemperatureReadingRepo(thePG, log)
  shiftRepo := repos.NewShiftRepo(thePG, log)
  menuRepo := repos.NewMenuRepo(thePG, log)
  guestCountRepo := repos.NewGuestCountRepo(thePG, log)
  importRunRepo := repos.NewRecipeImportRunRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)

  var sseBus redisclient.SSEBus
  if bus, busErr := redisclient.NewSSEBus(log); busErr != nil {
    log.Warn("Redis SSE bus unavailable, running single-instance", "error", busErr)
  } else {
    sseBus = bus
    if fErr := sseBus.StartForwarder(ctx, sseHub.Broadcast); fErr != nil {
      log.Warn("Failed to start SSE forwarder", "error", fErr)
    }
  }

  var pageCache redisclient.PageCache
  if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
    if cache, cacheErr := redisclient.NewPageCache(log, addr); cacheErr != nil {
      log.Warn("Redis page cache unavailable, imports will refetch", "error", cacheErr)
    } else {
      pageCache = cache
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  mediaStore, err := services.NewMediaStore(log)
  if err != nil {
    log.Error("Could not init MediaStore", "error", err)
    os.Exit(1)
  }
  avatarService, err := services.NewAvatarService(thePG, log, mediaStore)
  if err != nil {
    log.Error("Could not init AvatarService", "error", err)
    os.Exit(1)
  }
  notifier := services.NewNotifier(log, sseHub, sseBus)
  authService := services.NewAuthService(thePG, log, userRepo, avatarService, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, avatarService, notifier)
  recipeService := services.NewRecipeService(thePG, log, recipeRepo)
  pageFetcher := services.NewPageFetcher(log, pageCache)
  importService := services.NewImportService(thePG, log, importRunRepo, recipeRepo, pageFetcher, notifier)
  importService.StartWorker(ctx)
  haccpService := services.NewHACCPService(thePG, log, storageUnitRepo, temperatureReadingRepo, notifier)
  scheduleService := services.NewScheduleService(thePG, log, shiftRepo, userRepo)
  menuService := services.NewMenuService(thePG, log, menuRepo, guestCountRepo, recipeRepo)
  pdfService := services.NewPDFExportService(log, recipeService, haccpService, mediaStore)
  xlsxService := services.NewXLSXExportService(log, scheduleService, haccpService, mediaStore)

  // Handlers
  log.Info("Setting up handlers from main...")
  healthcheckHandler := handlers.NewHealthcheckHandler(thePG)
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  recipeHandler := handlers.NewRecipeHandler(recipeService)
  importHandler := handlers.NewImportHandler(importService)
  haccpHandler := handlers.NewHACCPHandler(haccpService)
  scheduleHandler := handlers.NewScheduleHandler(scheduleService)
  menuHandler := handlers.NewMenuHandler(menuService)
  exportHandler := handlers.NewExportHandler(pdfService, xlsxService)
  sseHandler := handlers.NewSSEHandler(sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")
  router := server.NewRouter(server.RouterConfig{
    ServiceName:        serviceName,
    MediaRoot:          mediaStore.Root(),
    AllowOrigins:       allowOrigins,
    HealthcheckHandler: healthcheckHandler,
    AuthHandler:        authHandler,
    AuthMiddleware:     authMiddleware,
    UserHandler:        userHandler,
    RecipeHandler:      recipeHandler,
    ImportHandler:      importHandler,
    HACCPHandler:       haccpHandler,
    ScheduleHandler:    scheduleHandler,
    MenuHandler:        menuHandler,
    ExportHandler:      exportHandler,
    SSEHandler:         sseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
