package models

import "time"

// ImportMetrics summarizes one completed full processing run. Written
// best-effort; a failed insert never changes the job's terminal status.
type ImportMetrics struct {
	ID              int64     `db:"id" json:"id"`
	JobID           int64     `db:"job_id" json:"job_id"`
	TotalRows       int       `db:"total_rows" json:"total_rows"`
	ProcessedRows   int       `db:"processed_rows" json:"processed_rows"`
	FailedRows      int       `db:"failed_rows" json:"failed_rows"`
	DurationSeconds float64   `db:"duration_seconds" json:"duration_seconds"`
	RowsPerSecond   float64   `db:"rows_per_second" json:"rows_per_second"`
	SuccessRate     float64   `db:"success_rate" json:"success_rate"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	FinishedAt      time.Time `db:"finished_at" json:"finished_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
