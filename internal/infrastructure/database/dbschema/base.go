package dbschema

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel is the common column set for every schema type.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
