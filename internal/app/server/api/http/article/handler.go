package article

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/api/http/httperr"
	"feedkeeper/internal/app/server/api/http/middleware/auth"
	"feedkeeper/internal/app/server/metrics"
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
		log:        log.With(slog.String("handler", "article")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.ingestOp(), h.ingest)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	articles, err := h.service.Articles(ctx, userID, input.Limit)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return &listOutput{Body: articleList{Items: articles}}, nil
}

func (h *Handler) ingest(ctx context.Context, input *ingestInput) (*ingestOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	articles := make([]news.Article, 0, len(input.Body.Items))
	for _, item := range input.Body.Items {
		a := news.Article{
			ID:          item.ID,
			SourceID:    item.SourceID,
			URL:         item.URL,
			Title:       item.Title,
			Summary:     item.Summary,
			ImageURL:    item.ImageURL,
			Author:      item.Author,
			PublishedAt: item.PublishedAt,
		}
		if item.FetchedAt != nil {
			a.FetchedAt = *item.FetchedAt
		}
		articles = append(articles, a)
	}

	stored, err := h.service.IngestArticles(ctx, userID, articles)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	metrics.RecordIngested(stored)

	return &ingestOutput{Body: ingestResponse{Received: len(articles), Stored: stored}}, nil
}
