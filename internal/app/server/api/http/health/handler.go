package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/metrics"
)

// Pinger проверка доступности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db         Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(db Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		db:         db,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	if err := h.db.Ping(ctx); err != nil {
		metrics.SetDatabaseUp(false)
		h.log.Error("health check: database unreachable", "error", err)
		return nil, huma.Error503ServiceUnavailable("database unreachable")
	}
	metrics.SetDatabaseUp(true)

	return &Output{
		Body: Response{
			Status:     "OK",
			Database:   "up",
			ServerTime: time.Now().UTC(),
		},
	}, nil
}
