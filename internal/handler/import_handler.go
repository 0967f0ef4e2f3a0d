package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"collections-web/internal/models"
	"collections-web/internal/service"
	"collections-web/internal/utils"
	"collections-web/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ImportHandler exposes the import pipeline. The validate/process/
// process-chunk endpoints return flat response shapes rather than the
// standard envelope; chunk drivers consume these fields directly.
type ImportHandler struct {
	jobService  *service.ImportJobService
	validator   *service.ImportValidator
	processor   *service.ImportProcessor
	asynqClient *asynq.Client
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewImportHandler(
	jobService *service.ImportJobService,
	validator *service.ImportValidator,
	processor *service.ImportProcessor,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	log *logrus.Logger,
) *ImportHandler {
	return &ImportHandler{
		jobService:  jobService,
		validator:   validator,
		processor:   processor,
		asynqClient: asynqClient,
		redisClient: redisClient,
		log:         log,
	}
}

// Create stages a new import job from pre-parsed row data.
func (h *ImportHandler) Create(c *fiber.Ctx) error {
	var req service.CreateImportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.PortfolioID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "portfolio_id is required", nil)
	}

	job, err := h.jobService.CreateJob(req, actorID(c))
	if err != nil {
		return utils.ErrorResponse(c, statusForError(err), err.Error(), nil)
	}

	c.Status(fiber.StatusCreated)
	return utils.SuccessResponse(c, "Import job created", job)
}

func (h *ImportHandler) List(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	jobs, total, err := h.jobService.ListJobs(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list import jobs", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Import jobs retrieved", jobs, pagination)
}

// Get returns the job record. While a background run is active the progress
// counters are overlaid with the live values published to redis.
func (h *ImportHandler) Get(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job id", err)
	}

	job, err := h.jobService.GetJob(int64(jobID))
	if err != nil {
		return utils.ErrorResponse(c, statusForError(err), err.Error(), nil)
	}

	progress := job.Progress
	processedRows := job.ProcessedRows
	if job.Status == models.JobStatusProcessing {
		if live, ok := h.liveProgress(c.Context(), job.ID); ok {
			progress = live.Progress
			processedRows = live.Processed
		}
	}

	report, reportErr := job.Report()
	if reportErr != nil {
		h.log.WithError(reportErr).WithField("job_id", job.ID).Warn("Stored validation report unreadable")
	}

	return utils.SuccessResponse(c, "Import job retrieved", fiber.Map{
		"id":                 job.ID,
		"job_code":           job.JobCode,
		"import_type":        job.ImportType,
		"portfolio_id":       job.PortfolioID,
		"status":             job.Status,
		"progress":           progress,
		"total_rows":         job.TotalRows,
		"processed_rows":     processedRows,
		"next_start_index":   job.NextStartIndex,
		"validation_results": report,
		"processing_errors":  job.ErrorList(),
		"created_by":         job.CreatedBy,
		"created_at":         job.CreatedAt,
		"updated_at":         job.UpdatedAt,
	})
}

func (h *ImportHandler) Validate(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil {
		return flatError(c, fiber.StatusBadRequest, "Invalid job id")
	}

	report, err := h.validator.Validate(int64(jobID))
	if err != nil {
		return flatError(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"validationResults": report,
		"message": fmt.Sprintf("Validation completed: %d valid, %d invalid of %d rows",
			report.ValidRows, report.InvalidRows, report.TotalRows),
	})
}

// Process runs the whole job synchronously within this request.
func (h *ImportHandler) Process(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil {
		return flatError(c, fiber.StatusBadRequest, "Invalid job id")
	}

	result, err := h.processor.Process(c.Context(), int64(jobID), actorID(c))
	if err != nil {
		return flatError(c, statusForError(err), err.Error())
	}

	message := fmt.Sprintf("Import completed: %d rows processed", result.ProcessedCount)
	if len(result.Errors) > 0 {
		message = fmt.Sprintf("Import completed: %d rows processed, %d errors", result.ProcessedCount, len(result.Errors))
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"processedCount": result.ProcessedCount,
		"errors":         result.Errors,
		"message":        message,
	})
}

// ProcessChunk runs one bounded slice; the caller drives the next call with
// the returned nextStartIndex until completed is true.
func (h *ImportHandler) ProcessChunk(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil {
		return flatError(c, fiber.StatusBadRequest, "Invalid job id")
	}
	chunkSize := c.QueryInt("chunk_size", 0)
	startIndex := c.QueryInt("start_index", 0)

	result, err := h.processor.ProcessChunk(int64(jobID), chunkSize, startIndex, actorID(c))
	if err != nil {
		return flatError(c, statusForError(err), err.Error())
	}

	body := fiber.Map{
		"success":        true,
		"processedCount": result.ProcessedCount,
		"errors":         result.Errors,
		"completed":      result.Completed,
		"message":        result.Message,
	}
	if !result.Completed {
		body["nextStartIndex"] = result.NextStartIndex
		body["progress"] = result.Progress
		body["totalProcessed"] = result.TotalProcessed
	}

	return c.JSON(body)
}

// ProcessAsync enqueues the full run onto the background worker.
func (h *ImportHandler) ProcessAsync(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job id", err)
	}

	// No queue without Redis; the synchronous endpoints still work.
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background processing is unavailable", nil)
	}

	job, err := h.jobService.GetJob(int64(jobID))
	if err != nil {
		return utils.ErrorResponse(c, statusForError(err), err.Error(), nil)
	}
	if len(job.ValidationResults) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, service.ErrValidationRequired.Error(), nil)
	}
	if job.Status == models.JobStatusProcessing || job.IsTerminal() {
		return utils.ErrorResponse(c, fiber.StatusConflict, service.ErrJobBusy.Error(), nil)
	}

	task, err := worker.NewImportProcessTask(job.ID, job.JobCode, actorID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build task", err)
	}
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to enqueue import", err)
	}

	h.log.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"task_id": info.ID,
	}).Info("Import run enqueued")

	c.Status(fiber.StatusAccepted)
	return utils.SuccessResponse(c, "Import enqueued", fiber.Map{
		"job_id":   job.ID,
		"job_code": job.JobCode,
		"task_id":  info.ID,
	})
}

type liveProgress struct {
	Progress  int `json:"progress"`
	Processed int `json:"processed"`
}

func (h *ImportHandler) liveProgress(ctx context.Context, jobID int64) (liveProgress, bool) {
	var live liveProgress
	if h.redisClient == nil {
		return live, false
	}
	raw, err := h.redisClient.Get(ctx, worker.ProgressKey(jobID)).Result()
	if err != nil {
		return live, false
	}
	if err := json.Unmarshal([]byte(raw), &live); err != nil {
		return live, false
	}
	return live, true
}

func actorID(c *fiber.Ctx) int {
	if id, ok := c.Locals("user_id").(int); ok {
		return id
	}
	return 0
}

func flatError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrJobNotFound), errors.Is(err, service.ErrPortfolioNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrValidationRequired), errors.Is(err, service.ErrUnsupportedImportType):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrJobBusy):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
