package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// healthCheckOp проба клиента для определения доступности сервера
func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Service and database status",
		Description: "Used by clients as the connectivity probe. Responds 503 when the database is unreachable.",
		Tags:        []string{"service"},
		Middlewares: h.middleware,
	}
}
