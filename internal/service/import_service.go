package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"collections-web/internal/models"
	"collections-web/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateImportRequest stages pre-parsed row data for a new job. Rows arrive
// already mapped onto the canonical field names; parsing spreadsheets is the
// upload service's job, not this backend's.
type CreateImportRequest struct {
	ImportType  string              `json:"import_type"`
	PortfolioID int64               `json:"portfolio_id"`
	Rows        []map[string]string `json:"rows"`
}

// ImportJobService owns job lifecycle administration: creation with staged
// rows, lookup and listing. The pipeline services mutate jobs from there.
type ImportJobService struct {
	jobRepo       *repository.ImportJobRepository
	stagingRepo   *repository.StagingRepository
	portfolioRepo *repository.PortfolioRepository
	log           *logrus.Logger
}

func NewImportJobService(
	jobRepo *repository.ImportJobRepository,
	stagingRepo *repository.StagingRepository,
	portfolioRepo *repository.PortfolioRepository,
	log *logrus.Logger,
) *ImportJobService {
	return &ImportJobService{
		jobRepo:       jobRepo,
		stagingRepo:   stagingRepo,
		portfolioRepo: portfolioRepo,
		log:           log,
	}
}

// CreateJob creates a pending job and stages its rows. Row numbers are
// assigned 1-based in arrival order.
func (s *ImportJobService) CreateJob(req CreateImportRequest, actorID int) (*models.ImportJob, error) {
	importType := strings.TrimSpace(req.ImportType)
	if importType == "" {
		importType = models.ImportTypeAccounts
	}
	if importType != models.ImportTypeAccounts {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImportType, importType)
	}

	if _, err := s.portfolioRepo.FindByID(req.PortfolioID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	job := &models.ImportJob{
		JobCode:     "IMP-" + uuid.New().String()[:8],
		ImportType:  importType,
		PortfolioID: &req.PortfolioID,
		Status:      models.JobStatusPending,
		CreatedBy:   actorID,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	if len(req.Rows) > 0 {
		staged := make([]models.StagingRow, 0, len(req.Rows))
		for i, fields := range req.Rows {
			mapped, err := json.Marshal(fields)
			if err != nil {
				return nil, fmt.Errorf("failed to encode row %d: %w", i+1, err)
			}
			staged = append(staged, models.StagingRow{
				JobID:      job.ID,
				RowNumber:  i + 1,
				RawData:    mapped,
				MappedData: mapped,
			})
		}
		if err := s.stagingRepo.BulkInsert(staged); err != nil {
			return nil, fmt.Errorf("failed to stage rows: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_code": job.JobCode,
		"rows":     len(req.Rows),
	}).Info("Import job created")

	return job, nil
}

func (s *ImportJobService) GetJob(id int64) (*models.ImportJob, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return job, nil
}

func (s *ImportJobService) ListJobs(limit, offset int) ([]models.ImportJob, int, error) {
	return s.jobRepo.FindAll(limit, offset)
}
