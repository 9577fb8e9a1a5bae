package theme

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "themes-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/themes",
		Summary:     "Список тем пользователя",
		Tags:        []string{"themes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putOp() huma.Operation {
	return huma.Operation{
		OperationID:   "themes-put",
		Method:        http.MethodPut,
		Path:          "/api/v1/themes/{id}",
		Summary:       "Создать или обновить тему",
		Tags:          []string{"themes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "themes-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/themes/{id}",
		Summary:       "Удалить тему",
		Tags:          []string{"themes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
