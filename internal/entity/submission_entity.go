package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission is the local audit trail of accepted ingestions. It records
// provenance only: the raw content itself lives in the remote system once
// accepted. Document is filled for listings (the canonical JSON sent as
// text), nil for everything else.
type Submission struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReplicaId string    `gorm:"type:varchar(64);index"`
	Kind      string    `gorm:"type:varchar(20)"`
	Title     string
	RemoteId  int64
	Document  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
}
