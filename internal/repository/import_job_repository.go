package repository

import (
	"collections-web/internal/models"
	"encoding/json"

	"github.com/jmoiron/sqlx"
)

type ImportJobRepository struct {
	db *sqlx.DB
}

func NewImportJobRepository(db *sqlx.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(job *models.ImportJob) error {
	query := `INSERT INTO import_jobs (job_code, import_type, portfolio_id, status, created_by)
	          VALUES (:job_code, :import_type, :portfolio_id, :status, :created_by)`
	result, err := r.db.NamedExec(query, job)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	job.ID = id
	return nil
}

func (r *ImportJobRepository) FindByID(id int64) (*models.ImportJob, error) {
	var job models.ImportJob
	query := "SELECT * FROM import_jobs WHERE id = ? LIMIT 1"
	err := r.db.Get(&job, query, id)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportJobRepository) FindByCode(code string) (*models.ImportJob, error) {
	var job models.ImportJob
	query := "SELECT * FROM import_jobs WHERE job_code = ? LIMIT 1"
	err := r.db.Get(&job, query, code)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportJobRepository) FindAll(limit, offset int) ([]models.ImportJob, int, error) {
	var jobs []models.ImportJob
	var total int

	countQuery := "SELECT COUNT(*) FROM import_jobs"
	if err := r.db.Get(&total, countQuery); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM import_jobs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	if err := r.db.Select(&jobs, query, limit, offset); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *ImportJobRepository) UpdateStatus(id int64, status string) error {
	query := "UPDATE import_jobs SET status = ?, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *ImportJobRepository) UpdateProgress(id int64, progress int) error {
	query := "UPDATE import_jobs SET progress = ?, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, progress, id)
	return err
}

// SaveValidationReport replaces any prior report on the job in one statement.
func (r *ImportJobRepository) SaveValidationReport(id int64, report *models.ValidationReport, status string) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	query := `UPDATE import_jobs SET validation_results = ?, total_rows = ?, status = ?,
	          progress = 100, updated_at = NOW() WHERE id = ?`
	_, err = r.db.Exec(query, payload, report.TotalRows, status, id)
	return err
}

// BeginProcessing resets the job counters for the first chunk of a run.
func (r *ImportJobRepository) BeginProcessing(id int64, totalRows int) error {
	query := `UPDATE import_jobs SET status = ?, total_rows = ?, processed_rows = 0,
	          progress = 0, next_start_index = 0, processing_errors = NULL,
	          updated_at = NOW() WHERE id = ?`
	_, err := r.db.Exec(query, models.JobStatusProcessing, totalRows, id)
	return err
}

// AddProcessedRows advances the counters with a single atomic increment.
// MySQL evaluates SET assignments left to right, so progress is derived from
// the already-incremented processed_rows; concurrent chunk calls cannot lose
// an update the way a read-modify-write sequence can.
func (r *ImportJobRepository) AddProcessedRows(id int64, delta int) (processed int, progress int, err error) {
	query := `UPDATE import_jobs
	          SET processed_rows = processed_rows + ?,
	              progress = LEAST(100, ROUND(processed_rows / NULLIF(total_rows, 0) * 100)),
	              updated_at = NOW()
	          WHERE id = ?`
	if _, err = r.db.Exec(query, delta, id); err != nil {
		return 0, 0, err
	}

	var counters struct {
		ProcessedRows int `db:"processed_rows"`
		Progress      int `db:"progress"`
	}
	err = r.db.Get(&counters, "SELECT processed_rows, progress FROM import_jobs WHERE id = ?", id)
	if err != nil {
		return 0, 0, err
	}
	return counters.ProcessedRows, counters.Progress, nil
}

// AppendProcessingErrors appends row errors to the job's error list in one
// statement so concurrent chunks cannot clobber each other's entries.
func (r *ImportJobRepository) AppendProcessingErrors(id int64, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	payload, err := json.Marshal(errs)
	if err != nil {
		return err
	}
	query := `UPDATE import_jobs
	          SET processing_errors = JSON_MERGE_PRESERVE(COALESCE(processing_errors, JSON_ARRAY()), CAST(? AS JSON)),
	              updated_at = NOW()
	          WHERE id = ?`
	_, err = r.db.Exec(query, payload, id)
	return err
}

// SetNextStartIndex persists the resumption cursor so a caller that lost the
// returned nextStartIndex can resume from the job record.
func (r *ImportJobRepository) SetNextStartIndex(id int64, next int) error {
	query := "UPDATE import_jobs SET next_start_index = ?, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, next, id)
	return err
}

func (r *ImportJobRepository) MarkCompleted(id int64, status string) error {
	query := "UPDATE import_jobs SET status = ?, progress = 100, updated_at = NOW() WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

// MarkFailed moves the job to its terminal failed state and records why.
func (r *ImportJobRepository) MarkFailed(id int64, message string) error {
	payload, err := json.Marshal([]string{message})
	if err != nil {
		return err
	}
	query := `UPDATE import_jobs
	          SET status = ?,
	              processing_errors = JSON_MERGE_PRESERVE(COALESCE(processing_errors, JSON_ARRAY()), CAST(? AS JSON)),
	              updated_at = NOW()
	          WHERE id = ?`
	_, err = r.db.Exec(query, models.JobStatusFailed, payload, id)
	return err
}
