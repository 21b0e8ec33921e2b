package domain

import "time"

// LoadStatus represents the outcome of a catalogue load.
// Values include LoadStatusSuccess, LoadStatusFallback, and LoadStatusFailed.
type LoadStatus string

const (
	LoadStatusSuccess  LoadStatus = "success"
	LoadStatusFallback LoadStatus = "fallback"
	LoadStatusFailed   LoadStatus = "failed"
)

// LoadRun records one full data load and which source served it.
type LoadRun struct {
	ID          string     `gorm:"type:text;primaryKey" json:"id"`
	Source      string     `gorm:"type:text;index" json:"source"`
	Status      LoadStatus `gorm:"type:text;index;default:success" json:"status"`
	RecordCount int        `gorm:"default:0" json:"record_count"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for LoadRun.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (LoadRun) TableName() string {
	return "load_runs"
}
