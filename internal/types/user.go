package types

import (
  "time"
  "github.com/google/uuid"
)

type User struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email             string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password          string          `gorm:"not null;column:password" json:"-"`
  FirstName         string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName          string          `gorm:"not null;column:last_name" json:"last_name"`
  Role              string          `gorm:"not null;default:'line';column:role" json:"role"`
  AvatarKey         string          `gorm:"column:avatar_key" json:"avatar_key"`
  AvatarURL         string          `gorm:"column:avatar_url" json:"avatar_url"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}

// Staff roles. Free-form titles live in Shift.Station; this stays coarse.
const (
  RoleChef    = "chef"
  RoleSous    = "sous"
  RoleLine    = "line"
  RoleService = "service"
)

func ValidRole(role string) bool {
  switch role {
  case RoleChef, RoleSous, RoleLine, RoleService:
    return true
  }
  return false
}
