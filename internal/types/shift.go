package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Shift struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Role      string         `gorm:"column:role;not null" json:"role"`
  Station   string         `gorm:"column:station" json:"station"`
  StartsAt  time.Time      `gorm:"column:starts_at;not null;index" json:"starts_at"`
  EndsAt    time.Time      `gorm:"column:ends_at;not null" json:"ends_at"`
  Note      string         `gorm:"column:note" json:"note"`
  CreatedAt time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Shift) TableName() string { return "shift" }
