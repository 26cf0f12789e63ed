package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/repos"
  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/sse"
  "github.com/chefboard/chefboard-backend/internal/types"
  "github.com/chefboard/chefboard-backend/internal/utils"
)

// Import stages, in order. Progress percentages are fixed per stage so
// clients can render a bar without guessing.
const (
  ImportStageFetch     = "fetch"
  ImportStageExtract   = "extract"
  ImportStageNormalize = "normalize"
  ImportStagePersist   = "persist"
  ImportStageDone      = "done"
)

var importStageProgress = map[string]int{
  ImportStageFetch:     10,
  ImportStageExtract:   40,
  ImportStageNormalize: 65,
  ImportStagePersist:   85,
  ImportStageDone:      100,
}

type ImportService interface {
  Enqueue(ctx context.Context, sourceURL string) (*types.RecipeImportRun, error)
  GetRun(ctx context.Context, id uuid.UUID) (*types.RecipeImportRun, error)
  ListRuns(ctx context.Context, limit int) ([]*types.RecipeImportRun, error)
  StartWorker(ctx context.Context)
}

type importService struct {
  db         *gorm.DB
  log        *logger.Logger
  runRepo    repos.RecipeImportRunRepo
  recipeRepo repos.RecipeRepo
  fetcher    PageFetcher
  notifier   Notifier

  pollInterval time.Duration
  maxAttempts  int
  retryDelay   time.Duration
  staleRunning time.Duration
}

func NewImportService(
  db *gorm.DB,
  log *logger.Logger,
  runRepo repos.RecipeImportRunRepo,
  recipeRepo repos.RecipeRepo,
  fetcher PageFetcher,
  notifier Notifier,
) ImportService {
  serviceLog := log.With("service", "ImportService")
  return &importService{
    db:           db,
    log:          serviceLog,
    runRepo:      runRepo,
    recipeRepo:   recipeRepo,
    fetcher:      fetcher,
    notifier:     notifier,
    pollInterval: time.Duration(utils.GetEnvAsInt("IMPORT_POLL_INTERVAL_SECONDS", 2, log)) * time.Second,
    maxAttempts:  utils.GetEnvAsInt("IMPORT_MAX_ATTEMPTS", 5, log),
    retryDelay:   time.Duration(utils.GetEnvAsInt("IMPORT_RETRY_DELAY_SECONDS", 30, log)) * time.Second,
    staleRunning: time.Duration(utils.GetEnvAsInt("IMPORT_STALE_RUNNING_SECONDS", 120, log)) * time.Second,
  }
}

func (is *importService) Enqueue(ctx context.Context, sourceURL string) (*types.RecipeImportRun, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  sourceURL = strings.TrimSpace(sourceURL)
  if err := ValidateImportURL(sourceURL); err != nil {
    return nil, err
  }

  run := &types.RecipeImportRun{
    ID:        uuid.New(),
    UserID:    rd.UserID,
    SourceURL: sourceURL,
    Status:    types.ImportStatusQueued,
    Stage:     ImportStageFetch,
  }
  if _, err := is.runRepo.Create(ctx, nil, []*types.RecipeImportRun{run}); err != nil {
    return nil, fmt.Errorf("Failed to enqueue import: %w", err)
  }

  is.notifier.NotifyUser(ctx, run.UserID, sse.SSEEventRecipeImportQueued, map[string]any{
    "run_id":     run.ID,
    "source_url": run.SourceURL,
  })
  is.log.Info("Import run queued", "runID", run.ID, "url", sourceURL)
  return run, nil
}

func (is *importService) GetRun(ctx context.Context, id uuid.UUID) (*types.RecipeImportRun, error) {
  runs, err := is.runRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, fmt.Errorf("Failed to load import run: %w", err)
  }
  if len(runs) == 0 {
    return nil, fmt.Errorf("Import run not found")
  }
  return runs[0], nil
}

func (is *importService) ListRuns(ctx context.Context, limit int) ([]*types.RecipeImportRun, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No request data found in context")
  }
  if limit <= 0 {
    limit = 50
  }
  return is.runRepo.ListByUser(ctx, nil, rd.UserID, limit)
}

// StartWorker polls for runnable import runs until ctx is cancelled. One
// worker per process is enough; claims use row locks so extra replicas do
// not double-process.
func (is *importService) StartWorker(ctx context.Context) {
  go func() {
    ticker := time.NewTicker(is.pollInterval)
    defer ticker.Stop()
    is.log.Info("Import worker started", "pollInterval", is.pollInterval)
    for {
      select {
      case <-ctx.Done():
        is.log.Info("Import worker stopped")
        return
      case <-ticker.C:
        for {
          run, err := is.runRepo.ClaimNextRunnable(ctx, nil, is.maxAttempts, is.retryDelay, is.staleRunning)
          if err != nil {
            is.log.Error("Failed to claim import run", "error", err)
            break
          }
          if run == nil {
            break
          }
          is.processRun(ctx, run)
        }
      }
    }
  }()
}

func (is *importService) processRun(ctx context.Context, run *types.RecipeImportRun) {
  log := is.log.With("runID", run.ID, "url", run.SourceURL)

  fail := func(stage string, err error) {
    now := time.Now()
    if uErr := is.runRepo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
      "status":        types.ImportStatusFailed,
      "stage":         stage,
      "error":         err.Error(),
      "last_error_at": now,
      "locked_at":     nil,
      "heartbeat_at":  nil,
    }); uErr != nil {
      log.Error("Failed to record import failure", "error", uErr)
    }
    is.notifier.NotifyUser(ctx, run.UserID, sse.SSEEventRecipeImportFailed, map[string]any{
      "run_id": run.ID,
      "stage":  stage,
      "error":  err.Error(),
    })
    log.Warn("Import run failed", "stage", stage, "error", err)
  }

  progress := func(stage string) {
    pct := importStageProgress[stage]
    if uErr := is.runRepo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
      "stage":    stage,
      "progress": pct,
    }); uErr != nil {
      log.Warn("Failed to update import progress", "stage", stage, "error", uErr)
    }
    if hErr := is.runRepo.Heartbeat(ctx, nil, run.ID); hErr != nil {
      log.Warn("Failed to heartbeat import run", "error", hErr)
    }
    is.notifier.NotifyUser(ctx, run.UserID, sse.SSEEventRecipeImportProgress, map[string]any{
      "run_id":   run.ID,
      "stage":    stage,
      "progress": pct,
    })
  }

  progress(ImportStageFetch)
  page, err := is.fetcher.Fetch(ctx, run.SourceURL)
  if err != nil {
    fail(ImportStageFetch, err)
    return
  }

  progress(ImportStageExtract)
  scraped, err := ExtractRecipe(page, run.SourceURL)
  if err != nil {
    fail(ImportStageExtract, err)
    return
  }

  progress(ImportStageNormalize)
  recipe, ingredients, steps := is.normalizeScraped(run, scraped)

  progress(ImportStagePersist)
  err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := is.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); cErr != nil {
      return cErr
    }
    if iErr := is.recipeRepo.ReplaceIngredients(ctx, tx, recipe.ID, ingredients); iErr != nil {
      return iErr
    }
    return is.recipeRepo.ReplaceSteps(ctx, tx, recipe.ID, steps)
  })
  if err != nil {
    fail(ImportStagePersist, fmt.Errorf("Failed to store imported recipe: %w", err))
    return
  }

  meta, _ := json.Marshal(map[string]any{
    "ingredient_count": len(ingredients),
    "step_count":       len(steps),
  })
  if uErr := is.runRepo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
    "status":       types.ImportStatusSucceeded,
    "stage":        ImportStageDone,
    "progress":     importStageProgress[ImportStageDone],
    "strategy":     scraped.Strategy,
    "recipe_id":    recipe.ID,
    "error":        "",
    "metadata":     datatypes.JSON(meta),
    "locked_at":    nil,
    "heartbeat_at": nil,
  }); uErr != nil {
    log.Error("Failed to mark import run succeeded", "error", uErr)
  }

  is.notifier.NotifyUser(ctx, run.UserID, sse.SSEEventRecipeImportSucceeded, map[string]any{
    "run_id":    run.ID,
    "recipe_id": recipe.ID,
    "strategy":  scraped.Strategy,
  })
  log.Info("Import run succeeded", "recipeID", recipe.ID, "strategy", scraped.Strategy)
}

// normalizeScraped turns raw scraped text into persistable rows: ingredient
// lines are parsed into quantity/unit/name, durations into minutes, and the
// yield into a portion count. Heuristic extractions are flagged for review.
func (is *importService) normalizeScraped(run *types.RecipeImportRun, scraped *ScrapedRecipe) (*types.Recipe, []*types.RecipeIngredient, []*types.RecipeStep) {
  portions := ParseYield(scraped.Yield)
  if portions <= 0 {
    portions = 4
  }

  prepMinutes := ParseISO8601Duration(scraped.PrepText)
  cookMinutes := ParseISO8601Duration(scraped.CookText)
  if prepMinutes == 0 && cookMinutes == 0 {
    if total := ParseISO8601Duration(scraped.TotalText); total > 0 {
      cookMinutes = total
    }
  }

  recipe := &types.Recipe{
    ID:          uuid.New(),
    UserID:      run.UserID,
    Title:       scraped.Title,
    Description: scraped.Description,
    Category:    scraped.Category,
    Portions:    portions,
    PrepMinutes: prepMinutes,
    CookMinutes: cookMinutes,
    SourceURL:   run.SourceURL,
    SourceName:  hostOf(run.SourceURL),
    ImageURL:    scraped.ImageURL,
    NeedsReview: scraped.Strategy == StrategyHeuristic,
  }

  ingredients := make([]*types.RecipeIngredient, 0, len(scraped.Ingredients))
  for _, line := range scraped.Ingredients {
    parsed := ParseIngredientLine(line)
    if parsed.Name == "" {
      continue
    }
    ingredients = append(ingredients, &types.RecipeIngredient{
      ID:       uuid.New(),
      Quantity: parsed.Quantity,
      Unit:     parsed.Unit,
      Name:     parsed.Name,
      Note:     parsed.Note,
    })
  }

  steps := buildSteps(scraped.Steps)
  return recipe, ingredients, steps
}

func hostOf(rawURL string) string {
  if idx := strings.Index(rawURL, "://"); idx >= 0 {
    rawURL = rawURL[idx+3:]
  }
  if idx := strings.IndexByte(rawURL, '/'); idx >= 0 {
    rawURL = rawURL[:idx]
  }
  return strings.TrimPrefix(rawURL, "www.")
}
