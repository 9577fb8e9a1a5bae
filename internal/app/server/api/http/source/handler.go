package source

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
		log:        log.With(slog.String("handler", "source")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.putOp(), h.put)
	huma.Register(api, h.deleteOp(), h.delete)

	huma.Register(api, h.listLinksOp(), h.listLinks)
	huma.Register(api, h.linkOp(), h.link)
	huma.Register(api, h.unlinkOp(), h.unlink)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	sources, err := h.service.Sources(ctx, userID)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}

	return &listOutput{Body: sourceList{Items: sources}}, nil
}

// put создаёт источник с клиентским ID или обновляет его
func (h *Handler) put(ctx context.Context, input *putInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	src := news.Source{
		ID:   input.ID,
		URL:  input.Body.URL,
		Name: input.Body.Name,
		Type: news.SourceType(input.Body.Type),
	}
	if err := h.service.PutSource(ctx, userID, src); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.DeleteSource(ctx, userID, input.ID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) listLinks(ctx context.Context, _ *struct{}) (*linkListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	links, err := h.service.SourceThemes(ctx, userID)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}

	return &linkListOutput{Body: linkList{Items: links}}, nil
}

func (h *Handler) link(ctx context.Context, input *linkInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.Link(ctx, userID, input.SourceID, input.ThemeID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) unlink(ctx context.Context, input *linkInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.Unlink(ctx, userID, input.SourceID, input.ThemeID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}
