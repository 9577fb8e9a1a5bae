package article

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "articles-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles",
		Summary:     "Последние статьи из источников пользователя",
		Description: "Статьи упорядочены по дате публикации, новые первыми.",
		Tags:        []string{"articles"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) ingestOp() huma.Operation {
	return huma.Operation{
		OperationID: "articles-ingest",
		Method:      http.MethodPut,
		Path:        "/api/v1/articles",
		Summary:     "Загрузить статьи от сборщика",
		Description: "Повтор по паре (source_id, url) обновляет статью. Статьи чужих источников пропускаются.",
		Tags:        []string{"articles"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
