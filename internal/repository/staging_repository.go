package repository

import (
	"collections-web/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type StagingRepository struct {
	db *sqlx.DB
}

func NewStagingRepository(db *sqlx.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

func (r *StagingRepository) CountByJob(jobID int64) (int, error) {
	var total int
	query := "SELECT COUNT(*) FROM staging_rows WHERE job_id = ?"
	err := r.db.Get(&total, query, jobID)
	return total, err
}

// GetPageByJob fetches one fixed-size page of staging rows in row-number order.
func (r *StagingRepository) GetPageByJob(jobID int64, limit, offset int) ([]models.StagingRow, error) {
	var rows []models.StagingRow
	query := "SELECT * FROM staging_rows WHERE job_id = ? ORDER BY row_number LIMIT ? OFFSET ?"
	err := r.db.Select(&rows, query, jobID, limit, offset)
	return rows, err
}

// GetByRowNumbers fetches exactly the requested rows, row-number ascending.
func (r *StagingRepository) GetByRowNumbers(jobID int64, rowNumbers []int) ([]models.StagingRow, error) {
	if len(rowNumbers) == 0 {
		return []models.StagingRow{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM staging_rows WHERE job_id = ? AND row_number IN (?) ORDER BY row_number",
		jobID, rowNumbers,
	)
	if err != nil {
		return nil, err
	}

	var rows []models.StagingRow
	err = r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

// BulkInsert writes staged rows in chunks to stay under the MySQL placeholder
// limit (65535).
func (r *StagingRepository) BulkInsert(rows []models.StagingRow) error {
	if len(rows) == 0 {
		return nil
	}

	const chunkSize = 5000

	for i := 0; i < len(rows); i += chunkSize {
		end := i + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		chunk := rows[i:end]

		query := `INSERT INTO staging_rows (job_id, row_number, raw_data, mapped_data)
		          VALUES (:job_id, :row_number, :raw_data, :mapped_data)`
		if _, err := r.db.NamedExec(query, chunk); err != nil {
			return fmt.Errorf("error inserting staging rows %d-%d: %w", i+1, end, err)
		}
	}

	return nil
}

func (r *StagingRepository) DeleteByJob(jobID int64) error {
	query := "DELETE FROM staging_rows WHERE job_id = ?"
	_, err := r.db.Exec(query, jobID)
	return err
}
