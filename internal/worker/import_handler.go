package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collections-web/internal/config"
	"collections-web/internal/repository"
	"collections-web/internal/service"
	"collections-web/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ImportTaskHandler runs full import jobs in the background. Progress is
// published to redis so the HTTP status endpoint can overlay live numbers.
type ImportTaskHandler struct {
	processor *service.ImportProcessor
	jobRepo   *repository.ImportJobRepository
	log       *logrus.Logger
}

func NewImportTaskHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *ImportTaskHandler {
	log := utils.GetLogger()

	jobRepo := repository.NewImportJobRepository(db)
	stagingRepo := repository.NewStagingRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	accountRepo := repository.NewDebtAccountRepository(db)
	metricsRepo := repository.NewImportMetricsRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	resolver := service.NewEntityResolver(debtorRepo, accountRepo, log)
	processor := service.NewImportProcessor(
		jobRepo, stagingRepo, portfolioRepo, resolver, metricsRepo, log,
		cfg.ChunkSize, cfg.StagingPageSize, cfg.ProcessWarnAfter,
	)
	processor.SetProgressSink(&RedisProgressSink{Client: redisClient})

	return &ImportTaskHandler{
		processor: processor,
		jobRepo:   jobRepo,
		log:       log,
	}
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ImportProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := h.log.WithFields(logrus.Fields{
		"job_id":   payload.JobID,
		"job_code": payload.JobCode,
	})

	job, err := h.jobRepo.FindByID(payload.JobID)
	if err != nil {
		return fmt.Errorf("failed to load job %d: %w", payload.JobID, err)
	}
	if job.IsTerminal() {
		log.WithField("status", job.Status).Info("Job already finished, skipping")
		return nil
	}

	log.Info("Starting background import run")

	result, err := h.processor.Process(ctx, payload.JobID, payload.ActorID)
	if err != nil {
		return fmt.Errorf("import run for job %d failed: %w", payload.JobID, err)
	}

	log.WithFields(logrus.Fields{
		"processed": result.ProcessedCount,
		"errors":    len(result.Errors),
		"status":    result.Status,
	}).Info("Background import run finished")

	return nil
}

// RedisProgressSink implements service.ProgressSink on a redis client.
type RedisProgressSink struct {
	Client *redis.Client
}

func (s *RedisProgressSink) Publish(ctx context.Context, jobID int64, progress, processed int) error {
	payload, err := json.Marshal(map[string]int{
		"progress":  progress,
		"processed": processed,
	})
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, ProgressKey(jobID), payload, time.Hour).Err()
}
