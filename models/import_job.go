package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportJob records one bulk-import run for auditing. The original system
// only printed per-row failures to the process log; keeping a row per
// upload lets admins see what a file actually produced.
type ImportJob struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Filename     string         `gorm:"size:255" json:"filename"`
	RowCount     int            `json:"rowCount"`
	CreatedCount int            `json:"createdCount"`
	UsersCreated int            `json:"usersCreated"`
	SkippedCount int            `json:"skippedCount"`
	UploadedBy   string         `gorm:"size:100" json:"uploadedBy"`
	Details      datatypes.JSON `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
