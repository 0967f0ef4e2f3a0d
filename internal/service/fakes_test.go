package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"collections-web/internal/models"
)

// In-memory stores backing the service tests.

type fakeJobStore struct {
	jobs map[int64]*models.ImportJob
}

func newFakeJobStore(jobs ...*models.ImportJob) *fakeJobStore {
	s := &fakeJobStore{jobs: map[int64]*models.ImportJob{}}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) FindByID(id int64) (*models.ImportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (s *fakeJobStore) UpdateStatus(id int64, status string) error {
	s.jobs[id].Status = status
	return nil
}

func (s *fakeJobStore) UpdateProgress(id int64, progress int) error {
	s.jobs[id].Progress = progress
	return nil
}

func (s *fakeJobStore) SaveValidationReport(id int64, report *models.ValidationReport, status string) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	job := s.jobs[id]
	job.ValidationResults = payload
	job.TotalRows = report.TotalRows
	job.Status = status
	job.Progress = 100
	return nil
}

func (s *fakeJobStore) BeginProcessing(id int64, totalRows int) error {
	job := s.jobs[id]
	job.Status = models.JobStatusProcessing
	job.TotalRows = totalRows
	job.ProcessedRows = 0
	job.Progress = 0
	job.NextStartIndex = 0
	job.ProcessingErrors = nil
	return nil
}

func (s *fakeJobStore) AddProcessedRows(id int64, delta int) (int, int, error) {
	job := s.jobs[id]
	job.ProcessedRows += delta
	if job.TotalRows > 0 {
		progress := int(math.Round(float64(job.ProcessedRows) / float64(job.TotalRows) * 100))
		if progress > 100 {
			progress = 100
		}
		job.Progress = progress
	}
	return job.ProcessedRows, job.Progress, nil
}

func (s *fakeJobStore) AppendProcessingErrors(id int64, errs []string) error {
	job := s.jobs[id]
	list := job.ErrorList()
	list = append(list, errs...)
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	job.ProcessingErrors = payload
	return nil
}

func (s *fakeJobStore) SetNextStartIndex(id int64, next int) error {
	s.jobs[id].NextStartIndex = next
	return nil
}

func (s *fakeJobStore) MarkCompleted(id int64, status string) error {
	job := s.jobs[id]
	job.Status = status
	job.Progress = 100
	return nil
}

func (s *fakeJobStore) MarkFailed(id int64, message string) error {
	job := s.jobs[id]
	job.Status = models.JobStatusFailed
	return s.AppendProcessingErrors(id, []string{message})
}

type fakeStagingStore struct {
	rows     map[int64][]models.StagingRow
	fetchErr error
}

func newFakeStagingStore() *fakeStagingStore {
	return &fakeStagingStore{rows: map[int64][]models.StagingRow{}}
}

// stage appends rows for a job from canonical field maps, numbering from 1.
func (s *fakeStagingStore) stage(jobID int64, fieldMaps ...map[string]string) {
	for _, fields := range fieldMaps {
		mapped, _ := json.Marshal(fields)
		s.rows[jobID] = append(s.rows[jobID], models.StagingRow{
			ID:         int64(len(s.rows[jobID]) + 1),
			JobID:      jobID,
			RowNumber:  len(s.rows[jobID]) + 1,
			RawData:    mapped,
			MappedData: mapped,
		})
	}
}

func (s *fakeStagingStore) CountByJob(jobID int64) (int, error) {
	if s.fetchErr != nil {
		return 0, s.fetchErr
	}
	return len(s.rows[jobID]), nil
}

func (s *fakeStagingStore) GetPageByJob(jobID int64, limit, offset int) ([]models.StagingRow, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	all := s.rows[jobID]
	if offset >= len(all) {
		return []models.StagingRow{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeStagingStore) GetByRowNumbers(jobID int64, rowNumbers []int) ([]models.StagingRow, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	wanted := map[int]bool{}
	for _, n := range rowNumbers {
		wanted[n] = true
	}
	var out []models.StagingRow
	for _, row := range s.rows[jobID] {
		if wanted[row.RowNumber] {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeDebtorStore struct {
	nextID    int64
	bySSN     map[string]int64
	debtors   []*models.Debtor
	addresses []*models.DebtorAddress
	phones    []*models.DebtorPhone
	emails    []*models.DebtorEmail
	upsertErr error
}

func newFakeDebtorStore() *fakeDebtorStore {
	return &fakeDebtorStore{bySSN: map[string]int64{}}
}

func (s *fakeDebtorStore) Upsert(debtor *models.Debtor) (int64, error) {
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	key := fmt.Sprintf("%d:%s", debtor.ClientID, debtor.SSN)
	if id, ok := s.bySSN[key]; ok {
		return id, nil
	}
	s.nextID++
	debtor.ID = s.nextID
	s.bySSN[key] = s.nextID
	s.debtors = append(s.debtors, debtor)
	return s.nextID, nil
}

func (s *fakeDebtorStore) InsertAddress(address *models.DebtorAddress) error {
	s.addresses = append(s.addresses, address)
	return nil
}

func (s *fakeDebtorStore) InsertPhone(phone *models.DebtorPhone) error {
	s.phones = append(s.phones, phone)
	return nil
}

func (s *fakeDebtorStore) InsertEmail(email *models.DebtorEmail) error {
	s.emails = append(s.emails, email)
	return nil
}

type fakeAccountStore struct {
	accounts []*models.DebtAccount
	// failFor simulates a store failure for specific account numbers.
	failFor map[string]error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{failFor: map[string]error{}}
}

func (s *fakeAccountStore) Insert(account *models.DebtAccount) error {
	if err, ok := s.failFor[account.AccountNumber]; ok {
		return err
	}
	account.ID = int64(len(s.accounts) + 1)
	s.accounts = append(s.accounts, account)
	return nil
}

type fakeMetricsStore struct {
	records   []*models.ImportMetrics
	insertErr error
}

func (s *fakeMetricsStore) Insert(metrics *models.ImportMetrics) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records = append(s.records, metrics)
	return nil
}

type fakePortfolioStore struct {
	portfolios map[int64]*models.Portfolio
}

func newFakePortfolioStore(portfolios ...*models.Portfolio) *fakePortfolioStore {
	s := &fakePortfolioStore{portfolios: map[int64]*models.Portfolio{}}
	for _, p := range portfolios {
		s.portfolios[p.ID] = p
	}
	return s
}

func (s *fakePortfolioStore) FindByID(id int64) (*models.Portfolio, error) {
	portfolio, ok := s.portfolios[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return portfolio, nil
}
