package service

import (
	"context"
	"fmt"
	"testing"

	"collections-web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	jobs       *fakeJobStore
	staging    *fakeStagingStore
	debtors    *fakeDebtorStore
	accounts   *fakeAccountStore
	metrics    *fakeMetricsStore
	portfolios *fakePortfolioStore
	processor  *ImportProcessor
}

func newProcessorFixture(t *testing.T, rows ...map[string]string) *processorFixture {
	t.Helper()

	f := &processorFixture{
		jobs:       newFakeJobStore(pendingJob(1, 10)),
		staging:    newFakeStagingStore(),
		debtors:    newFakeDebtorStore(),
		accounts:   newFakeAccountStore(),
		metrics:    &fakeMetricsStore{},
		portfolios: newFakePortfolioStore(&models.Portfolio{ID: 10, ClientID: 7, Name: "Q3 Chargeoffs"}),
	}
	f.staging.stage(1, rows...)

	log := testLogger()
	resolver := NewEntityResolver(f.debtors, f.accounts, log)
	f.processor = NewImportProcessor(f.jobs, f.staging, f.portfolios, resolver, f.metrics, log, 100, 500, 0)

	// Store a real report the way the pipeline would.
	validator := NewImportValidator(f.jobs, f.staging, log, 500)
	_, err := validator.Validate(1)
	require.NoError(t, err)

	return f
}

func rowWithSSN(accountNumber, ssn string) map[string]string {
	row := validRow(accountNumber)
	row[models.FieldSSN] = ssn
	return row
}

func TestProcessChunkSequence(t *testing.T) {
	f := newProcessorFixture(t,
		validRow("ACC-1"), validRow("ACC-2"), validRow("ACC-3"), validRow("ACC-4"), validRow("ACC-5"),
	)

	first, err := f.processor.ProcessChunk(1, 2, 0, 9)
	require.NoError(t, err)
	assert.False(t, first.Completed)
	assert.Equal(t, 2, first.ProcessedCount)
	assert.Equal(t, 2, first.NextStartIndex)
	assert.Equal(t, 2, first.TotalProcessed)
	assert.Equal(t, 40, first.Progress)
	assert.Empty(t, first.Errors)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Equal(t, 5, job.TotalRows)
	assert.Equal(t, 2, job.NextStartIndex)

	second, err := f.processor.ProcessChunk(1, 2, first.NextStartIndex, 9)
	require.NoError(t, err)
	assert.False(t, second.Completed)
	assert.Equal(t, 2, second.ProcessedCount)
	assert.Equal(t, 4, second.TotalProcessed)
	assert.Equal(t, 80, second.Progress)

	third, err := f.processor.ProcessChunk(1, 2, second.NextStartIndex, 9)
	require.NoError(t, err)
	assert.True(t, third.Completed)
	assert.Equal(t, 1, third.ProcessedCount)
	assert.Equal(t, 5, third.TotalProcessed)
	assert.Equal(t, 100, third.Progress)

	job, _ = f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 5, job.ProcessedRows)
	assert.Len(t, f.accounts.accounts, 5)
}

func TestProcessChunkRequiresValidation(t *testing.T) {
	jobs := newFakeJobStore(pendingJob(1, 10))
	log := testLogger()
	resolver := NewEntityResolver(newFakeDebtorStore(), newFakeAccountStore(), log)
	processor := NewImportProcessor(jobs, newFakeStagingStore(), newFakePortfolioStore(), resolver, &fakeMetricsStore{}, log, 100, 500, 0)

	_, err := processor.ProcessChunk(1, 100, 0, 9)
	assert.ErrorIs(t, err, ErrValidationRequired)
}

func TestProcessChunkJobNotFound(t *testing.T) {
	log := testLogger()
	resolver := NewEntityResolver(newFakeDebtorStore(), newFakeAccountStore(), log)
	processor := NewImportProcessor(newFakeJobStore(), newFakeStagingStore(), newFakePortfolioStore(), resolver, &fakeMetricsStore{}, log, 100, 500, 0)

	_, err := processor.ProcessChunk(99, 100, 0, 9)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestProcessChunkStartBeyondEnd(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"))

	result, err := f.processor.ProcessChunk(1, 100, 50, 9)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 0, result.ProcessedCount)
	assert.Empty(t, result.Errors)

	// No further work: status and counters untouched.
	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusValidated, job.Status)
	assert.Empty(t, f.accounts.accounts)
}

func TestProcessChunkFirstChunkResetsCounters(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"), validRow("ACC-2"))
	f.jobs.jobs[1].ProcessedRows = 99
	require.NoError(t, f.jobs.AppendProcessingErrors(1, []string{"stale error"}))

	result, err := f.processor.ProcessChunk(1, 100, 0, 9)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 2, result.TotalProcessed)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, 2, job.ProcessedRows)
	assert.Empty(t, job.ErrorList())
}

func TestProcessChunkSkipsInvalidRows(t *testing.T) {
	f := newProcessorFixture(t,
		validRow("ACC-1"),
		map[string]string{models.FieldCurrentBalance: "10"}, // no account number
		validRow("ACC-3"),
	)

	result, err := f.processor.ProcessChunk(1, 100, 0, 9)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 2, result.ProcessedCount)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, 2, job.TotalRows)
	assert.Len(t, f.accounts.accounts, 2)
}

func TestProcessChunkMissingPortfolio(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"))
	f.jobs.jobs[1].PortfolioID = nil

	_, err := f.processor.ProcessChunk(1, 100, 0, 9)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusFailed, job.Status)
}

func TestProcessChunkDeduplicatesDebtorsBySSN(t *testing.T) {
	f := newProcessorFixture(t,
		rowWithSSN("ACC-1", "123-45-6789"),
		rowWithSSN("ACC-2", "123456789"), // same person, different formatting
	)

	result, err := f.processor.ProcessChunk(1, 100, 0, 9)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Empty(t, result.Errors)

	require.Len(t, f.debtors.debtors, 1)
	require.Len(t, f.accounts.accounts, 2)
	assert.Equal(t, *f.accounts.accounts[0].DebtorID, *f.accounts.accounts[1].DebtorID)
	assert.Equal(t, int64(7), f.accounts.accounts[0].ClientID)
	assert.Equal(t, int64(10), f.accounts.accounts[0].PortfolioID)
}

func TestProcessChunkCoercesUnknownEnums(t *testing.T) {
	row := validRow("ACC-1")
	row[models.FieldAccountType] = "spaceship"
	row[models.FieldAccountStatus] = "hibernating"
	f := newProcessorFixture(t, row)

	result, err := f.processor.ProcessChunk(1, 100, 0, 9)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	require.Len(t, f.accounts.accounts, 1)
	assert.Equal(t, "other", f.accounts.accounts[0].AccountType)
	assert.Equal(t, "active", f.accounts.accounts[0].AccountStatus)

	// Coercion is silent on the job record too.
	job, _ := f.jobs.FindByID(1)
	assert.Empty(t, job.ErrorList())
}

func TestProcessChunkRowWithoutSSN(t *testing.T) {
	noSSN := validRow("ACC-2")
	delete(noSSN, models.FieldSSN)
	f := newProcessorFixture(t, validRow("ACC-1"), noSSN)

	result, err := f.processor.ProcessChunk(1, 100, 0, 9)
	require.NoError(t, err)
	assert.True(t, result.Completed)

	// The row still counts as processed but produces no account.
	assert.Equal(t, 2, result.ProcessedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 2:")
	assert.Contains(t, result.Errors[0], "missing ssn")
	assert.Len(t, f.accounts.accounts, 1)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, 2, job.ProcessedRows)
	require.Len(t, job.ErrorList(), 1)
}

func TestProcessChunkStampsActor(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"))

	_, err := f.processor.ProcessChunk(1, 100, 0, 42)
	require.NoError(t, err)

	require.Len(t, f.accounts.accounts, 1)
	assert.Equal(t, 42, f.accounts.accounts[0].CreatedBy)
	require.Len(t, f.debtors.debtors, 1)
	assert.Equal(t, 42, f.debtors.debtors[0].CreatedBy)
}

func TestProcessFullRunWithRowFailure(t *testing.T) {
	rows := make([]map[string]string, 0, 10)
	for i := 1; i <= 10; i++ {
		rows = append(rows, validRow(fmt.Sprintf("ACC-%d", i)))
	}
	f := newProcessorFixture(t, rows...)
	f.accounts.failFor["ACC-7"] = assert.AnError

	result, err := f.processor.Process(context.Background(), 1, 9)
	require.NoError(t, err)

	assert.Equal(t, 10, result.ProcessedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 7:")
	assert.Equal(t, models.JobStatusCompletedWithErrors, result.Status)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusCompletedWithErrors, job.Status)
	assert.Equal(t, 10, job.ProcessedRows)
	assert.Equal(t, 100, job.Progress)
	assert.Len(t, f.accounts.accounts, 9)

	require.Len(t, f.metrics.records, 1)
	metrics := f.metrics.records[0]
	assert.Equal(t, int64(1), metrics.JobID)
	assert.Equal(t, 10, metrics.ProcessedRows)
	assert.Equal(t, 1, metrics.FailedRows)
	assert.InDelta(t, 90.0, metrics.SuccessRate, 0.01)
}

func TestProcessCleanRun(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"), validRow("ACC-2"))

	result, err := f.processor.Process(context.Background(), 1, 9)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, models.JobStatusCompleted, result.Status)

	require.Len(t, f.metrics.records, 1)
	assert.InDelta(t, 100.0, f.metrics.records[0].SuccessRate, 0.01)
}

func TestProcessMetricsFailureDoesNotChangeStatus(t *testing.T) {
	f := newProcessorFixture(t, validRow("ACC-1"))
	f.metrics.insertErr = assert.AnError

	result, err := f.processor.Process(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, result.Status)

	job, _ := f.jobs.FindByID(1)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
}

type recordingSink struct {
	published []int
}

func (s *recordingSink) Publish(_ context.Context, _ int64, progress, _ int) error {
	s.published = append(s.published, progress)
	return nil
}

func TestProcessPublishesProgress(t *testing.T) {
	rows := make([]map[string]string, 0, 6)
	for i := 1; i <= 6; i++ {
		rows = append(rows, validRow(fmt.Sprintf("ACC-%d", i)))
	}
	f := newProcessorFixture(t, rows...)

	sink := &recordingSink{}
	f.processor.SetProgressSink(sink)
	f.processor.pageSize = 2

	_, err := f.processor.Process(context.Background(), 1, 9)
	require.NoError(t, err)

	require.NotEmpty(t, sink.published)
	assert.Equal(t, 100, sink.published[len(sink.published)-1])
}
