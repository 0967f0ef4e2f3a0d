package repository

import (
	"collections-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportMetricsRepository struct {
	db *sqlx.DB
}

func NewImportMetricsRepository(db *sqlx.DB) *ImportMetricsRepository {
	return &ImportMetricsRepository{db: db}
}

func (r *ImportMetricsRepository) Insert(metrics *models.ImportMetrics) error {
	query := `INSERT INTO import_metrics (job_id, total_rows, processed_rows, failed_rows,
	          duration_seconds, rows_per_second, success_rate, started_at, finished_at)
	          VALUES (:job_id, :total_rows, :processed_rows, :failed_rows,
	          :duration_seconds, :rows_per_second, :success_rate, :started_at, :finished_at)`
	result, err := r.db.NamedExec(query, metrics)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	metrics.ID = id
	return nil
}

func (r *ImportMetricsRepository) FindByJob(jobID int64) (*models.ImportMetrics, error) {
	var metrics models.ImportMetrics
	query := "SELECT * FROM import_metrics WHERE job_id = ? ORDER BY created_at DESC LIMIT 1"
	err := r.db.Get(&metrics, query, jobID)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}
