package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"surety-web/internal/config"
	"surety-web/internal/models"
	"surety-web/internal/repository"
	"surety-web/internal/service"
	"surety-web/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Export job status keys live for a day; the dashboard polls them by code.
const exportStatusTTL = 24 * time.Hour

func ExportStatusKey(code string) string {
	return fmt.Sprintf("export:status:%s", code)
}

type ExportTaskHandler struct {
	redis        *redis.Client
	cfg          *config.Config
	suretyRepo   *repository.SuretyRepository
	excelService *service.ExcelService
}

func NewExportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ExportTaskHandler {
	return &ExportTaskHandler{
		redis:        redis,
		cfg:          cfg,
		suretyRepo:   repository.NewSuretyRepository(db),
		excelService: service.NewExcelService(),
	}
}

type ExportTaskPayload struct {
	Code string `json:"code"`
}

func (h *ExportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	log := utils.GetLogger()

	var payload ExportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.WithField("code", payload.Code).Info("Starting surety export")
	h.setStatus(ctx, payload.Code, models.ExportJob{
		Code:   payload.Code,
		Status: models.ExportStatusProcessing,
	})

	sureties, _, err := h.suretyRepo.GetAll(1000000, 0)
	if err != nil {
		h.setStatus(ctx, payload.Code, models.ExportJob{
			Code:   payload.Code,
			Status: models.ExportStatusFailed,
			Error:  err.Error(),
		})
		return fmt.Errorf("failed to load sureties: %w", err)
	}

	exportPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("export_%s.xlsx", payload.Code))
	if err := h.excelService.ExportSureties(sureties, exportPath); err != nil {
		h.setStatus(ctx, payload.Code, models.ExportJob{
			Code:   payload.Code,
			Status: models.ExportStatusFailed,
			Error:  err.Error(),
		})
		return fmt.Errorf("failed to write export file: %w", err)
	}

	h.setStatus(ctx, payload.Code, models.ExportJob{
		Code:     payload.Code,
		Status:   models.ExportStatusCompleted,
		FilePath: exportPath,
	})

	log.WithField("code", payload.Code).WithField("records", len(sureties)).Info("Surety export completed")
	return nil
}

func (h *ExportTaskHandler) setStatus(ctx context.Context, code string, job models.ExportJob) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	h.redis.Set(ctx, ExportStatusKey(code), data, exportStatusTTL)
}
