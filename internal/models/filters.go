package models

// UserSegmentFilter represents filter parameters for querying user segments
type UserSegmentFilter struct {
	RunID    string `form:"runId"`
	Segment  string `form:"segment"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// RunFilter represents filter parameters for listing runs
type RunFilter struct {
	Status string `form:"status"` // pending, running, completed, failed
	Limit  int    `form:"limit"`
}
