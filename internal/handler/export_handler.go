package handler

import (
	"encoding/json"

	"surety-web/internal/models"
	"surety-web/internal/utils"
	"surety-web/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// ExportHandler enqueues background export jobs and reports their status.
type ExportHandler struct {
	asynqClient *asynq.Client
	redis       *redis.Client
}

func NewExportHandler(asynqClient *asynq.Client, redis *redis.Client) *ExportHandler {
	return &ExportHandler{
		asynqClient: asynqClient,
		redis:       redis,
	}
}

func (h *ExportHandler) CreateExportJob(c *fiber.Ctx) error {
	if h.asynqClient == nil || h.redis == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable,
			"Background job processing is not available (Redis not connected)", nil)
	}

	code := uuid.New().String()[:8]

	payload, _ := json.Marshal(worker.ExportTaskPayload{Code: code})
	task := asynq.NewTask(worker.TaskExportSureties, payload)
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue export task", err)
	}

	job := models.ExportJob{Code: code, Status: models.ExportStatusQueued}
	if data, err := json.Marshal(job); err == nil {
		h.redis.Set(c.Context(), worker.ExportStatusKey(code), data, 0)
	}

	return utils.SuccessResponse(c, "Export queued", job)
}

func (h *ExportHandler) GetExportJob(c *fiber.Ctx) error {
	if h.redis == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable,
			"Background job processing is not available (Redis not connected)", nil)
	}

	code := c.Params("code")

	data, err := h.redis.Get(c.Context(), worker.ExportStatusKey(code)).Bytes()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Export job not found", nil)
	}

	var job models.ExportJob
	if err := json.Unmarshal(data, &job); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read export job status", err)
	}

	if job.Status == models.ExportStatusCompleted && c.Query("download") == "true" {
		return c.Download(job.FilePath)
	}

	return utils.SuccessResponse(c, "Export job status retrieved", job)
}
