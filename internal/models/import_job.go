package models

import (
	"encoding/json"
	"time"
)

// Import job statuses. A job moves pending -> validating -> validated ->
// processing and ends in exactly one of the terminal states.
const (
	JobStatusPending             = "pending"
	JobStatusValidating          = "validating"
	JobStatusValidated           = "validated"
	JobStatusProcessing          = "processing"
	JobStatusCompleted           = "completed"
	JobStatusCompletedWithErrors = "completed_with_errors"
	JobStatusFailed              = "failed"
)

// Only the "accounts" import type is implemented. Anything else is rejected
// before any row is touched.
const ImportTypeAccounts = "accounts"

type ImportJob struct {
	ID             int64     `db:"id" json:"id"`
	JobCode        string    `db:"job_code" json:"job_code"`
	ImportType     string    `db:"import_type" json:"import_type"`
	PortfolioID    *int64    `db:"portfolio_id" json:"portfolio_id"`
	Status         string    `db:"status" json:"status"`
	Progress       int       `db:"progress" json:"progress"`
	TotalRows      int       `db:"total_rows" json:"total_rows"`
	ProcessedRows  int       `db:"processed_rows" json:"processed_rows"`
	NextStartIndex int       `db:"next_start_index" json:"next_start_index"`
	// JSON columns; nil until validation/processing has written them.
	ValidationResults []byte    `db:"validation_results" json:"-"`
	ProcessingErrors  []byte    `db:"processing_errors" json:"-"`
	CreatedBy         int       `db:"created_by" json:"created_by"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (j *ImportJob) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusCompletedWithErrors, JobStatusFailed:
		return true
	}
	return false
}

// Report decodes the stored validation report. Returns nil when validation
// has not run yet.
func (j *ImportJob) Report() (*ValidationReport, error) {
	if len(j.ValidationResults) == 0 {
		return nil, nil
	}
	var report ValidationReport
	if err := json.Unmarshal(j.ValidationResults, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ErrorList decodes processing_errors; a missing column reads as an empty list.
func (j *ImportJob) ErrorList() []string {
	if len(j.ProcessingErrors) == 0 {
		return []string{}
	}
	var errs []string
	if err := json.Unmarshal(j.ProcessingErrors, &errs); err != nil {
		return []string{}
	}
	return errs
}

// ValidationReport is persisted onto the job record as a whole; re-validation
// replaces any prior report.
type ValidationReport struct {
	TotalRows   int             `json:"totalRows"`
	ValidRows   int             `json:"validRows"`
	InvalidRows int             `json:"invalidRows"`
	Errors      []string        `json:"errors"`
	Warnings    []string        `json:"warnings"`
	RowDetails  []RowValidation `json:"rowDetails"`
}

// ValidRowNumbers returns the row numbers of valid rows in rowDetails order.
func (r *ValidationReport) ValidRowNumbers() []int {
	rows := make([]int, 0, r.ValidRows)
	for _, d := range r.RowDetails {
		if d.IsValid {
			rows = append(rows, d.RowNumber)
		}
	}
	return rows
}

type RowValidation struct {
	RowNumber int      `json:"rowNumber"`
	IsValid   bool     `json:"isValid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}
