package models

import "time"

// SegmentationRun represents one execution of the segmentation pipeline
type SegmentationRun struct {
	ID        string `json:"id" db:"id"`
	SkillName string `json:"skill_name" db:"skill_name"`
	Status    string `json:"status" db:"status"` // pending, running, completed, failed

	// Parameters
	CutoffDate        time.Time `json:"cutoff_date" db:"cutoff_date"`
	ActivityThreshold int       `json:"activity_threshold" db:"activity_threshold"`
	ReferenceDate     time.Time `json:"reference_date" db:"reference_date"`
	NewCustomerDays   int       `json:"new_customer_days" db:"new_customer_days"`

	// Results
	SessionsConsidered int    `json:"sessions_considered" db:"sessions_considered"`
	ActiveUsers        int    `json:"active_users" db:"active_users"`
	SegmentCount       int    `json:"segment_count" db:"segment_count"`
	ErrorMessage       string `json:"error_message,omitempty" db:"error_message"`

	// Metadata
	CreatedBy   string     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RunStatus constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunParams are the tunable inputs of a run. Empty fields fall back to the configured defaults.
type RunParams struct {
	CutoffDate        string `json:"cutoff_date" binding:"omitempty,datetime=2006-01-02"`
	ActivityThreshold *int   `json:"activity_threshold" binding:"omitempty,min=0"`
	ReferenceDate     string `json:"reference_date" binding:"omitempty,datetime=2006-01-02"`
	NewCustomerDays   *int   `json:"new_customer_days" binding:"omitempty,min=0"`
}
