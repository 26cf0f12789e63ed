package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// MenuDay is one planned service day. Courses order its entries; an entry
// points at a recipe or carries free text only.
type MenuDay struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  Date      time.Time      `gorm:"column:date;not null;index" json:"date"`
  Meal      string         `gorm:"column:meal;not null;default:'lunch'" json:"meal"`
  Note      string         `gorm:"column:note" json:"note"`
  Courses   []MenuCourse   `gorm:"constraint:OnDelete:CASCADE;foreignKey:MenuDayID;references:ID" json:"courses"`
  CreatedAt time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MenuDay) TableName() string { return "menu_day" }

type MenuCourse struct {
  ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  MenuDayID uuid.UUID  `gorm:"type:uuid;not null;index" json:"menu_day_id"`
  Label     string     `gorm:"column:label;not null" json:"label"`
  RecipeID  *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id,omitempty"`
  Recipe    *Recipe    `gorm:"constraint:OnDelete:SET NULL;foreignKey:RecipeID;references:ID" json:"recipe,omitempty"`
  FreeText  string     `gorm:"column:free_text" json:"free_text"`
  SortOrder int        `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
  CreatedAt time.Time  `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (MenuCourse) TableName() string { return "menu_course" }

const (
  MealBreakfast = "breakfast"
  MealLunch     = "lunch"
  MealDinner    = "dinner"
)

func ValidMeal(meal string) bool {
  switch meal {
  case MealBreakfast, MealLunch, MealDinner:
    return true
  }
  return false
}
