package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/chefboard/chefboard-backend/internal/types"
  "github.com/chefboard/chefboard-backend/internal/utils"
  "github.com/chefboard/chefboard-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "chefboard", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Recipe{},
    &types.RecipeIngredient{},
    &types.RecipeStep{},
    &types.StorageUnit{},
    &types.TemperatureReading{},
    &types.Shift{},
    &types.MenuDay{},
    &types.MenuCourse{},
    &types.GuestCount{},
    &types.RecipeImportRun{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  constraints := []struct {
    name string
    ddl  string
  }{
    {
      name: "fk_user_token_user_id",
      ddl: `ALTER TABLE "user_token"
            ADD CONSTRAINT "fk_user_token_user_id"
            FOREIGN KEY ("user_id") REFERENCES "user"("id")
            ON DELETE CASCADE`,
    },
    {
      name: "fk_recipe_ingredient_recipe_id",
      ddl: `ALTER TABLE "recipe_ingredient"
            ADD CONSTRAINT "fk_recipe_ingredient_recipe_id"
            FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id")
            ON DELETE CASCADE`,
    },
    {
      name: "fk_recipe_step_recipe_id",
      ddl: `ALTER TABLE "recipe_step"
            ADD CONSTRAINT "fk_recipe_step_recipe_id"
            FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id")
            ON DELETE CASCADE`,
    },
    {
      name: "fk_temperature_reading_storage_unit_id",
      ddl: `ALTER TABLE "temperature_reading"
            ADD CONSTRAINT "fk_temperature_reading_storage_unit_id"
            FOREIGN KEY ("storage_unit_id") REFERENCES "storage_unit"("id")
            ON DELETE CASCADE`,
    },
    {
      name: "fk_menu_course_menu_day_id",
      ddl: `ALTER TABLE "menu_course"
            ADD CONSTRAINT "fk_menu_course_menu_day_id"
            FOREIGN KEY ("menu_day_id") REFERENCES "menu_day"("id")
            ON DELETE CASCADE`,
    },
  }
  for _, c := range constraints {
    var exists bool
    if err := s.db.Raw(
      `SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
    ).Scan(&exists).Error; err != nil {
      return fmt.Errorf("Failed to check constraint %s: %w", c.name, err)
    }
    if exists {
      continue
    }
    if err := s.db.Exec(c.ddl).Error; err != nil {
      return fmt.Errorf("Failed to add %s: %w", c.name, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
