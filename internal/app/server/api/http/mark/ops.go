package mark

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listFavoritesOp() huma.Operation {
	return huma.Operation{
		OperationID: "favorites-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "Избранные статьи пользователя",
		Tags:        []string{"favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putFavoriteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "favorites-put",
		Method:        http.MethodPut,
		Path:          "/api/v1/favorites/{article_id}",
		Summary:       "Добавить статью в избранное",
		Tags:          []string{"favorites"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteFavoriteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "favorites-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/favorites/{article_id}",
		Summary:       "Убрать статью из избранного",
		Tags:          []string{"favorites"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) listReadMarksOp() huma.Operation {
	return huma.Operation{
		OperationID: "read-marks-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/read-marks",
		Summary:     "Прочитанные статьи пользователя",
		Tags:        []string{"read-marks"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putReadMarkOp() huma.Operation {
	return huma.Operation{
		OperationID:   "read-marks-put",
		Method:        http.MethodPut,
		Path:          "/api/v1/read-marks/{article_id}",
		Summary:       "Отметить статью прочитанной",
		Tags:          []string{"read-marks"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) deleteReadMarkOp() huma.Operation {
	return huma.Operation{
		OperationID:   "read-marks-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/read-marks/{article_id}",
		Summary:       "Снять отметку о прочтении",
		Tags:          []string{"read-marks"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
