package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Recipe struct {
  ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
  UserID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
  User         *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Title        string             `gorm:"column:title;not null" json:"title"`
  Description  string             `gorm:"column:description" json:"description"`
  Category     string             `gorm:"column:category;index" json:"category"`
  Portions     int                `gorm:"column:portions;not null;default:4" json:"portions"`
  PrepMinutes  int                `gorm:"column:prep_minutes;not null;default:0" json:"prep_minutes"`
  CookMinutes  int                `gorm:"column:cook_minutes;not null;default:0" json:"cook_minutes"`
  SourceURL    string             `gorm:"column:source_url" json:"source_url"`
  SourceName   string             `gorm:"column:source_name" json:"source_name"`
  ImageURL     string             `gorm:"column:image_url" json:"image_url"`
  NeedsReview  bool               `gorm:"column:needs_review;not null;default:false" json:"needs_review"`
  Metadata     datatypes.JSON     `gorm:"column:metadata;type:jsonb" json:"metadata"`
  Ingredients  []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"ingredients"`
  Steps        []RecipeStep       `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"steps"`
  CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
  UpdatedAt    time.Time          `gorm:"not null" json:"updated_at"`
  DeletedAt    gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (Recipe) TableName() string { return "recipe" }

type RecipeIngredient struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  RecipeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipe_id"`
  SortOrder int            `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
  Quantity  float64        `gorm:"column:quantity;not null;default:0" json:"quantity"`
  Unit      string         `gorm:"column:unit" json:"unit"`
  Name      string         `gorm:"column:name;not null" json:"name"`
  Note      string         `gorm:"column:note" json:"note"`
  Allergens datatypes.JSON `gorm:"column:allergens;type:jsonb" json:"allergens"`
  CreatedAt time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }

type RecipeStep struct {
  ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
  Position    int       `gorm:"column:position;not null;default:0" json:"position"`
  Instruction string    `gorm:"column:instruction;not null" json:"instruction"`
  CreatedAt   time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (RecipeStep) TableName() string { return "recipe_step" }
