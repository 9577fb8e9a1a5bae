package theme

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/api/http/httperr"
	"feedkeeper/internal/app/server/api/http/middleware/auth"
	"feedkeeper/internal/domain/news"
)

type Handler struct {
	service    news.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service news.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("handler", "theme")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.putOp(), h.put)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	themes, err := h.service.Themes(ctx, userID)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return &listOutput{Body: themeList{Items: themes}}, nil
}

func (h *Handler) put(ctx context.Context, input *putInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	theme := news.Theme{ID: input.ID, Name: input.Body.Name, Color: input.Body.Color}
	if err := h.service.PutTheme(ctx, userID, theme); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.DeleteTheme(ctx, userID, input.ID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}
