package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"collections-web/internal/models"

	"github.com/sirupsen/logrus"
)

// ImportValidator evaluates staged rows against the per-type rule set and
// persists the resulting report onto the job record.
type ImportValidator struct {
	jobs     jobStore
	staging  stagingStore
	log      *logrus.Logger
	pageSize int
}

func NewImportValidator(jobs jobStore, staging stagingStore, log *logrus.Logger, pageSize int) *ImportValidator {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &ImportValidator{
		jobs:     jobs,
		staging:  staging,
		log:      log,
		pageSize: pageSize,
	}
}

// Validate runs the full validation pass for a job. Re-validation replaces any
// prior report; a job that is processing or already finished is rejected.
func (s *ImportValidator) Validate(jobID int64) (*models.ValidationReport, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	if job.ImportType != models.ImportTypeAccounts {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImportType, job.ImportType)
	}
	if job.Status == models.JobStatusProcessing || job.IsTerminal() {
		return nil, ErrJobBusy
	}

	if err := s.jobs.UpdateStatus(job.ID, models.JobStatusValidating); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	// Progress checkpoints below are cosmetic caller feedback only.
	s.checkpoint(job.ID, 5)

	rows, err := s.fetchAllRows(job.ID)
	if err != nil {
		message := fmt.Sprintf("Failed to fetch staging rows: %v", err)
		if markErr := s.jobs.MarkFailed(job.ID, message); markErr != nil {
			s.log.WithError(markErr).WithField("job_id", job.ID).Error("Failed to mark job failed")
		}
		return nil, fmt.Errorf("failed to fetch staging rows: %w", err)
	}
	s.checkpoint(job.ID, 30)

	report := s.evaluate(rows)
	s.checkpoint(job.ID, 80)

	if err := s.jobs.SaveValidationReport(job.ID, report, models.JobStatusValidated); err != nil {
		return nil, fmt.Errorf("failed to save validation report: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"job_id":       job.ID,
		"total_rows":   report.TotalRows,
		"valid_rows":   report.ValidRows,
		"invalid_rows": report.InvalidRows,
	}).Info("Validation completed")

	return report, nil
}

// fetchAllRows pages through the staging store in row-number order.
func (s *ImportValidator) fetchAllRows(jobID int64) ([]models.StagingRow, error) {
	total, err := s.staging.CountByJob(jobID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.StagingRow, 0, total)
	for offset := 0; offset < total; offset += s.pageSize {
		page, err := s.staging.GetPageByJob(jobID, s.pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		rows = append(rows, page...)
	}
	return rows, nil
}

func (s *ImportValidator) evaluate(rows []models.StagingRow) *models.ValidationReport {
	report := &models.ValidationReport{
		TotalRows:  len(rows),
		Errors:     []string{},
		Warnings:   []string{},
		RowDetails: make([]models.RowValidation, 0, len(rows)),
	}

	for i := range rows {
		row := &rows[i]
		detail := models.RowValidation{
			RowNumber: row.RowNumber,
			Errors:    []string{},
			Warnings:  []string{},
		}

		fields, err := row.Fields()
		if err != nil {
			detail.Errors = append(detail.Errors, "mapped data is not readable")
		} else {
			detail.Errors, detail.Warnings = validateAccountRow(fields)
		}

		detail.IsValid = len(detail.Errors) == 0
		if detail.IsValid {
			report.ValidRows++
		} else {
			report.InvalidRows++
		}

		for _, msg := range detail.Errors {
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", row.RowNumber, msg))
		}
		for _, msg := range detail.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Row %d: %s", row.RowNumber, msg))
		}

		report.RowDetails = append(report.RowDetails, detail)
	}

	return report
}

// validateAccountRow applies the "accounts" rule set to one mapped row.
// Errors make the row invalid; warnings leave it importable.
func validateAccountRow(fields map[string]string) (errs []string, warnings []string) {
	errs = []string{}
	warnings = []string{}

	if strings.TrimSpace(fields[models.FieldAccountNumber]) == "" {
		errs = append(errs, "account_number is required")
	}

	balance := strings.TrimSpace(fields[models.FieldCurrentBalance])
	if balance == "" {
		errs = append(errs, "current_balance is required")
	} else if _, err := parseMoney(balance); err != nil {
		errs = append(errs, fmt.Sprintf("current_balance is not a valid number: %s", balance))
	}

	if ssn := strings.TrimSpace(fields[models.FieldSSN]); ssn != "" {
		if len(digitsOnly(ssn)) != 9 {
			warnings = append(warnings, "ssn should contain exactly 9 digits")
		}
	}

	for _, field := range []string{models.FieldChargeOffDate, models.FieldLastPaymentDate} {
		if raw := strings.TrimSpace(fields[field]); raw != "" {
			if _, err := parseDate(raw); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s is not a recognizable date: %s", field, raw))
			}
		}
	}

	if strings.TrimSpace(fields[models.FieldOriginalAccountNumber]) == "" {
		warnings = append(warnings, "original_account_number is missing")
	}

	if phone := strings.TrimSpace(fields[models.FieldPhone]); phone != "" {
		if digits := digitsOnly(phone); len(digits) < 10 || len(digits) > 15 {
			warnings = append(warnings, "phone should contain 10 to 15 digits")
		}
	}

	if email := strings.TrimSpace(fields[models.FieldEmail]); email != "" {
		if !emailPattern.MatchString(email) {
			warnings = append(warnings, fmt.Sprintf("email format looks invalid: %s", email))
		}
	}

	return errs, warnings
}

func (s *ImportValidator) checkpoint(jobID int64, progress int) {
	if err := s.jobs.UpdateProgress(jobID, progress); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Warn("Failed to update validation progress")
	}
}
