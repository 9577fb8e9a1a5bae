package httperr

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/news"
)

// FromNews переводит ошибки домена новостей в HTTP-ответы.
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func FromNews(log *slog.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, news.ErrNotFound):
		return huma.Error404NotFound("not found")
	case errors.Is(err, news.ErrInvalidInput),
		errors.Is(err, news.ErrInvalidSourceType),
		errors.Is(err, news.ErrEmptyName),
		errors.Is(err, news.ErrEmptyURL):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		log.Error("request failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}

// Unauthorized ответ для запросов без пользователя в контексте
func Unauthorized() error {
	return huma.Error401Unauthorized("Unauthorized")
}
