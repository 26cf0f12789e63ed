package types

import (
  "time"

  "github.com/google/uuid"
)

type TemperatureReading struct {
  ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  StorageUnitID uuid.UUID    `gorm:"type:uuid;not null;index" json:"storage_unit_id"`
  StorageUnit   *StorageUnit `gorm:"constraint:OnDelete:CASCADE;foreignKey:StorageUnitID;references:ID" json:"storage_unit,omitempty"`
  UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
  ValueCelsius  float64      `gorm:"column:value_celsius;not null" json:"value_celsius"`
  MeasuredAt    time.Time    `gorm:"column:measured_at;not null;index" json:"measured_at"`
  Violation     bool         `gorm:"column:violation;not null;default:false" json:"violation"`
  Note          string       `gorm:"column:note" json:"note"`
  CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (TemperatureReading) TableName() string { return "temperature_reading" }
