package source

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "sources-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/sources",
		Summary:     "Список источников пользователя",
		Tags:        []string{"sources"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putOp() huma.Operation {
	return huma.Operation{
		OperationID:   "sources-put",
		Method:        http.MethodPut,
		Path:          "/api/v1/sources/{id}",
		Summary:       "Создать или обновить источник",
		Description:   "Идемпотентно: повторный запрос с тем же ID обновляет имя, адрес и тип.",
		Tags:          []string{"sources"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "sources-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sources/{id}",
		Summary:       "Удалить источник вместе со статьями и связями",
		Tags:          []string{"sources"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) listLinksOp() huma.Operation {
	return huma.Operation{
		OperationID: "source-themes-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/source-themes",
		Summary:     "Связи источников с темами",
		Tags:        []string{"themes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) linkOp() huma.Operation {
	return huma.Operation{
		OperationID:   "source-themes-put",
		Method:        http.MethodPut,
		Path:          "/api/v1/source-themes/{source_id}/{theme_id}",
		Summary:       "Привязать тему к источнику",
		Tags:          []string{"themes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) unlinkOp() huma.Operation {
	return huma.Operation{
		OperationID:   "source-themes-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/source-themes/{source_id}/{theme_id}",
		Summary:       "Отвязать тему от источника",
		Tags:          []string{"themes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
