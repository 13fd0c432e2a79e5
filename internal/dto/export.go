package dto

import "time"

// Export job lifecycle states.
const (
	ExportJobPending = "pending"
	ExportJobDone    = "done"
	ExportJobFailed  = "failed"
)

// ExportJob describes a queued report export. The token authorizes the
// download once the job is done.
type ExportJob struct {
	JobID     string    `json:"job_id"`
	Code      string    `json:"code"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
