package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Record is a persisted key/value document. Partition and key together
// address one record; the value is the JSON-encoded domain object.
type Record struct {
	Partition string         `gorm:"type:varchar(40);primaryKey"`
	Key       string         `gorm:"type:varchar(80);primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Record.
func (Record) TableName() string {
	return "records"
}
