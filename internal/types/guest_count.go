package types

import (
  "time"

  "github.com/google/uuid"
)

// GuestCount tracks expected vs actual covers per date and meal. One row
// per (date, meal).
type GuestCount struct {
  ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Date      time.Time `gorm:"column:date;not null;uniqueIndex:idx_guest_count_date_meal" json:"date"`
  Meal      string    `gorm:"column:meal;not null;uniqueIndex:idx_guest_count_date_meal" json:"meal"`
  Expected  int       `gorm:"column:expected;not null;default:0" json:"expected"`
  Actual    *int      `gorm:"column:actual" json:"actual,omitempty"`
  Note      string    `gorm:"column:note" json:"note"`
  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GuestCount) TableName() string { return "guest_count" }
