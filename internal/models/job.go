package models

// Export job statuses.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ExportJob tracks an asynchronous user export. Jobs live in memory only;
// they are not persisted across restarts.
type ExportJob struct {
	ID     string                 `json:"job_id"`
	UserID string                 `json:"user_id"`
	Status string                 `json:"status"`
	Result map[string]interface{} `json:"result,omitempty"`
}
