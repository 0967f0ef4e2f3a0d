package service

import "collections-web/internal/models"

// Narrow store contracts consumed by the pipeline services. The repository
// package satisfies all of them; tests substitute in-memory fakes.

type jobStore interface {
	FindByID(id int64) (*models.ImportJob, error)
	UpdateStatus(id int64, status string) error
	UpdateProgress(id int64, progress int) error
	SaveValidationReport(id int64, report *models.ValidationReport, status string) error
	BeginProcessing(id int64, totalRows int) error
	AddProcessedRows(id int64, delta int) (processed int, progress int, err error)
	AppendProcessingErrors(id int64, errs []string) error
	SetNextStartIndex(id int64, next int) error
	MarkCompleted(id int64, status string) error
	MarkFailed(id int64, message string) error
}

type stagingStore interface {
	CountByJob(jobID int64) (int, error)
	GetPageByJob(jobID int64, limit, offset int) ([]models.StagingRow, error)
	GetByRowNumbers(jobID int64, rowNumbers []int) ([]models.StagingRow, error)
}

type debtorStore interface {
	Upsert(debtor *models.Debtor) (int64, error)
	InsertAddress(address *models.DebtorAddress) error
	InsertPhone(phone *models.DebtorPhone) error
	InsertEmail(email *models.DebtorEmail) error
}

type accountStore interface {
	Insert(account *models.DebtAccount) error
}

type metricsStore interface {
	Insert(metrics *models.ImportMetrics) error
}

type portfolioStore interface {
	FindByID(id int64) (*models.Portfolio, error)
}
