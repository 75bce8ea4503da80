package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is one entry in the dashboard inbox. The dashboard is a
// single-organization session, so there is no per-user targeting.
type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TypeCode  string         `gorm:"type:varchar(50);index" json:"type_code"`
	Title     string         `gorm:"type:varchar(200)" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
