package mark

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/api/http/httperr"
	"feedkeeper/internal/app/server/api/http/middleware/auth"
	"feedkeeper/internal/domain/news"
)

// Handler избранное и отметки о прочтении. Обе коллекции адресуются ID статьи.
type Handler struct {
	service    news.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service news.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("handler", "mark")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listFavoritesOp(), h.listFavorites)
	huma.Register(api, h.putFavoriteOp(), h.putFavorite)
	huma.Register(api, h.deleteFavoriteOp(), h.deleteFavorite)

	huma.Register(api, h.listReadMarksOp(), h.listReadMarks)
	huma.Register(api, h.putReadMarkOp(), h.putReadMark)
	huma.Register(api, h.deleteReadMarkOp(), h.deleteReadMark)
}

// ==================== Favorites ====================

func (h *Handler) listFavorites(ctx context.Context, _ *struct{}) (*favoriteListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	favorites, err := h.service.Favorites(ctx, userID)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return &favoriteListOutput{Body: favoriteList{Items: favorites}}, nil
}

func (h *Handler) putFavorite(ctx context.Context, input *putFavoriteInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	fav := news.Favorite{
		ID:        input.Body.ID,
		ArticleID: input.ArticleID,
		CreatedAt: input.Body.CreatedAt,
	}
	if err := h.service.PutFavorite(ctx, userID, fav); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) deleteFavorite(ctx context.Context, input *articlePath) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.DeleteFavorite(ctx, userID, input.ArticleID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

// ==================== Read marks ====================

func (h *Handler) listReadMarks(ctx context.Context, _ *struct{}) (*readMarkListOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	marks, err := h.service.ReadMarks(ctx, userID)
	if err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return &readMarkListOutput{Body: readMarkList{Items: marks}}, nil
}

func (h *Handler) putReadMark(ctx context.Context, input *putReadMarkInput) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	mark := news.ReadMark{
		ID:        input.Body.ID,
		ArticleID: input.ArticleID,
		ReadAt:    input.Body.ReadAt,
	}
	if err := h.service.PutReadMark(ctx, userID, mark); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}

func (h *Handler) deleteReadMark(ctx context.Context, input *articlePath) (*struct{}, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, httperr.Unauthorized()
	}

	if err := h.service.DeleteReadMark(ctx, userID, input.ArticleID); err != nil {
		return nil, httperr.FromNews(h.log, err)
	}
	return nil, nil
}
