package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// StorageUnit is a HACCP-monitored appliance or room: fridge, freezer,
// cold room, hot hold.
type StorageUnit struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  Name      string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
  Kind      string         `gorm:"column:kind;not null" json:"kind"`
  MinTemp   float64        `gorm:"column:min_temp;not null" json:"min_temp"`
  MaxTemp   float64        `gorm:"column:max_temp;not null" json:"max_temp"`
  Active    bool           `gorm:"column:active;not null;default:true" json:"active"`
  CreatedAt time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StorageUnit) TableName() string { return "storage_unit" }

const (
  StorageKindFridge   = "fridge"
  StorageKindFreezer  = "freezer"
  StorageKindColdRoom = "cold_room"
  StorageKindHotHold  = "hot_hold"
  StorageKindDryStore = "dry_store"
)

func ValidStorageKind(kind string) bool {
  switch kind {
  case StorageKindFridge, StorageKindFreezer, StorageKindColdRoom, StorageKindHotHold, StorageKindDryStore:
    return true
  }
  return false
}
