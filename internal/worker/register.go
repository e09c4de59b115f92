package worker

import (
	"surety-web/internal/config"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// TaskExportSureties generates a full surety workbook in the background.
const TaskExportSureties = "surety:export"

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	exportHandler := NewExportTaskHandler(db, redis, cfg)
	mux.HandleFunc(TaskExportSureties, exportHandler.Handle)
}
