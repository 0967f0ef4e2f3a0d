package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"collections-web/internal/models"

	"github.com/sirupsen/logrus"
)

// ChunkResult is the outcome of one bounded processing slice. NextStartIndex,
// Progress and TotalProcessed are meaningful only while Completed is false.
type ChunkResult struct {
	Completed      bool     `json:"completed"`
	ProcessedCount int      `json:"processedCount"`
	Errors         []string `json:"errors"`
	NextStartIndex int      `json:"nextStartIndex"`
	Progress       int      `json:"progress"`
	TotalProcessed int      `json:"totalProcessed"`
	Message        string   `json:"message"`
}

// RunResult is the outcome of a full processing run.
type RunResult struct {
	ProcessedCount int      `json:"processedCount"`
	Errors         []string `json:"errors"`
	Status         string   `json:"status"`
}

// ProgressSink receives progress updates during a full run so callers polling
// the job can see movement before the run finishes. Publish failures are
// logged and ignored.
type ProgressSink interface {
	Publish(ctx context.Context, jobID int64, progress, processed int) error
}

// ImportProcessor drives validated staging rows through the entity resolver.
// ProcessChunk handles one caller-driven slice; Process owns a whole run.
type ImportProcessor struct {
	jobs       jobStore
	staging    stagingStore
	portfolios portfolioStore
	resolver   *EntityResolver
	metrics    metricsStore
	log        *logrus.Logger

	chunkSize int
	pageSize  int
	warnAfter time.Duration
	sink      ProgressSink
}

func NewImportProcessor(
	jobs jobStore,
	staging stagingStore,
	portfolios portfolioStore,
	resolver *EntityResolver,
	metrics metricsStore,
	log *logrus.Logger,
	chunkSize, pageSize int,
	warnAfter time.Duration,
) *ImportProcessor {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	if pageSize <= 0 {
		pageSize = 500
	}
	return &ImportProcessor{
		jobs:       jobs,
		staging:    staging,
		portfolios: portfolios,
		resolver:   resolver,
		metrics:    metrics,
		log:        log,
		chunkSize:  chunkSize,
		pageSize:   pageSize,
		warnAfter:  warnAfter,
	}
}

// SetProgressSink attaches an optional live-progress publisher. The worker
// wires redis here; synchronous HTTP runs leave it nil.
func (s *ImportProcessor) SetProgressSink(sink ProgressSink) {
	s.sink = sink
}

// ProcessChunk processes exactly one slice of the job's valid rows. The caller
// holds the resumption cursor and must call again with NextStartIndex until
// Completed is true. Rows that error still count as processed.
func (s *ImportProcessor) ProcessChunk(jobID int64, chunkSize, startIndex, actorID int) (*ChunkResult, error) {
	if chunkSize <= 0 {
		chunkSize = s.chunkSize
	}
	if startIndex < 0 {
		startIndex = 0
	}

	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	report, err := job.Report()
	if err != nil {
		s.failJob(job.ID, fmt.Sprintf("Validation report unreadable: %v", err))
		return nil, fmt.Errorf("validation report unreadable: %w", err)
	}
	if report == nil {
		return nil, ErrValidationRequired
	}

	target, err := s.resolveTarget(job)
	if err != nil {
		return nil, err
	}

	validRows := report.ValidRowNumbers()
	end := startIndex + chunkSize
	if end > len(validRows) {
		end = len(validRows)
	}
	if startIndex >= len(validRows) {
		return &ChunkResult{
			Completed:      true,
			ProcessedCount: 0,
			Errors:         []string{},
			Message:        "No rows to process",
		}, nil
	}
	slice := validRows[startIndex:end]

	if startIndex == 0 {
		if err := s.jobs.BeginProcessing(job.ID, len(validRows)); err != nil {
			return nil, fmt.Errorf("failed to initialize processing: %w", err)
		}
	}

	rows, err := s.staging.GetByRowNumbers(job.ID, slice)
	if err != nil {
		s.failJob(job.ID, fmt.Sprintf("Failed to fetch staging rows: %v", err))
		return nil, fmt.Errorf("failed to fetch staging rows: %w", err)
	}

	chunkErrors := []string{}
	for i := range rows {
		row := &rows[i]
		if err := s.resolver.ResolveRow(row, target, job.ID, actorID); err != nil {
			chunkErrors = append(chunkErrors, fmt.Sprintf("Row %d: %v", row.RowNumber, err))
		}
	}

	// Every attempted row counts, errored ones included.
	processedCount := len(slice)
	totalProcessed, progress, err := s.jobs.AddProcessedRows(job.ID, processedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress counters: %w", err)
	}
	if len(chunkErrors) > 0 {
		if err := s.jobs.AppendProcessingErrors(job.ID, chunkErrors); err != nil {
			s.log.WithError(err).WithField("job_id", job.ID).Error("Failed to append processing errors")
		}
	}

	if startIndex+chunkSize >= len(validRows) {
		if err := s.jobs.MarkCompleted(job.ID, models.JobStatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete job: %w", err)
		}
		if err := s.jobs.SetNextStartIndex(job.ID, len(validRows)); err != nil {
			s.log.WithError(err).WithField("job_id", job.ID).Warn("Failed to persist resumption cursor")
		}
		return &ChunkResult{
			Completed:      true,
			ProcessedCount: processedCount,
			Errors:         chunkErrors,
			Progress:       100,
			TotalProcessed: totalProcessed,
			Message:        fmt.Sprintf("Import completed: %d rows processed", totalProcessed),
		}, nil
	}

	nextStartIndex := startIndex + chunkSize
	if err := s.jobs.SetNextStartIndex(job.ID, nextStartIndex); err != nil {
		s.log.WithError(err).WithField("job_id", job.ID).Warn("Failed to persist resumption cursor")
	}

	return &ChunkResult{
		Completed:      false,
		ProcessedCount: processedCount,
		Errors:         chunkErrors,
		NextStartIndex: nextStartIndex,
		Progress:       progress,
		TotalProcessed: totalProcessed,
		Message:        fmt.Sprintf("Processed %d rows, %d of %d total", processedCount, totalProcessed, len(validRows)),
	}, nil
}

// Process runs the whole job in page-size slices within this call and records
// metrics at the end. Row errors downgrade the terminal status to
// completed_with_errors; they never abort the run.
func (s *ImportProcessor) Process(ctx context.Context, jobID int64, actorID int) (*RunResult, error) {
	startedAt := time.Now()
	allErrors := []string{}
	totalProcessed := 0
	startIndex := 0

	for {
		chunk, err := s.ProcessChunk(jobID, s.pageSize, startIndex, actorID)
		if err != nil {
			return nil, err
		}

		totalProcessed += chunk.ProcessedCount
		allErrors = append(allErrors, chunk.Errors...)
		s.publishProgress(ctx, jobID, chunk)

		if s.warnAfter > 0 && time.Since(startedAt) > s.warnAfter {
			s.log.WithFields(logrus.Fields{
				"job_id":  jobID,
				"elapsed": time.Since(startedAt).String(),
			}).Warn("Import run exceeding expected duration")
		}

		if chunk.Completed {
			break
		}
		startIndex = chunk.NextStartIndex
	}

	status := models.JobStatusCompleted
	if len(allErrors) > 0 {
		status = models.JobStatusCompletedWithErrors
	}
	if err := s.jobs.MarkCompleted(jobID, status); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Error("Failed to set terminal status")
	}

	s.recordMetrics(jobID, totalProcessed, len(allErrors), startedAt)

	s.log.WithFields(logrus.Fields{
		"job_id":    jobID,
		"processed": totalProcessed,
		"errors":    len(allErrors),
		"status":    status,
	}).Info("Import run finished")

	return &RunResult{
		ProcessedCount: totalProcessed,
		Errors:         allErrors,
		Status:         status,
	}, nil
}

func (s *ImportProcessor) resolveTarget(job *models.ImportJob) (ImportTarget, error) {
	if job.PortfolioID == nil {
		s.failJob(job.ID, "Import job has no portfolio reference")
		return ImportTarget{}, ErrPortfolioNotFound
	}
	portfolio, err := s.portfolios.FindByID(*job.PortfolioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.failJob(job.ID, fmt.Sprintf("Portfolio %d not found", *job.PortfolioID))
			return ImportTarget{}, ErrPortfolioNotFound
		}
		return ImportTarget{}, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return ImportTarget{ClientID: portfolio.ClientID, PortfolioID: portfolio.ID}, nil
}

func (s *ImportProcessor) publishProgress(ctx context.Context, jobID int64, chunk *ChunkResult) {
	if s.sink == nil {
		return
	}
	progress := chunk.Progress
	if chunk.Completed {
		progress = 100
	}
	if err := s.sink.Publish(ctx, jobID, progress, chunk.TotalProcessed); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Warn("Failed to publish progress")
	}
}

// recordMetrics persists the run summary. Best-effort: a failed insert is
// logged and never changes the job's terminal status.
func (s *ImportProcessor) recordMetrics(jobID int64, processed, failed int, startedAt time.Time) {
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt).Seconds()

	metrics := &models.ImportMetrics{
		JobID:           jobID,
		TotalRows:       processed,
		ProcessedRows:   processed,
		FailedRows:      failed,
		DurationSeconds: duration,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
	}
	if duration > 0 {
		metrics.RowsPerSecond = float64(processed) / duration
	}
	if processed > 0 {
		metrics.SuccessRate = float64(processed-failed) / float64(processed) * 100
	}

	if err := s.metrics.Insert(metrics); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Error("Failed to record import metrics")
	}
}

func (s *ImportProcessor) failJob(jobID int64, message string) {
	if err := s.jobs.MarkFailed(jobID, message); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Error("Failed to mark job failed")
	}
}
