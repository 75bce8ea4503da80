package entity

import "time"

// Setting is a durable key/value row. The organization secret and the
// generated acting user id live here, read once at startup and rewritten only
// by explicit re-configuration.
type Setting struct {
	Key       string `gorm:"primaryKey;type:varchar(100)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

const (
	SettingOrganizationSecret = "sensay_organization_secret"
	SettingUserID             = "sensay_user_id"
)
