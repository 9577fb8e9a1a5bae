package client

import (
	"context"
	"fmt"

	"feedkeeper/internal/domain/news"
)

// Identity учётные данные текущего пользователя. Передаётся явно в каждую
// операцию, глобальной сессии нет.
type Identity struct {
	UserID string `json:"user_id"`
	Login  string `json:"login,omitempty"`
	Token  string `json:"token"`
}

// Valid сообщает, можно ли выполнять операции от имени пользователя
func (i Identity) Valid() bool {
	return i.UserID != "" && i.Token != ""
}

// RemoteStore серверное хранилище, все операции ограничены пользователем.
// Удаление отсутствующего ключа и повторная вставка существующего считаются успехом.
type RemoteStore interface {
	HealthCheck(ctx context.Context) error

	FetchSources(ctx context.Context, id Identity) ([]news.Source, error)
	FetchThemes(ctx context.Context, id Identity) ([]news.Theme, error)
	FetchSourceThemes(ctx context.Context, id Identity) ([]news.SourceTheme, error)
	FetchArticles(ctx context.Context, id Identity, limit int) ([]news.Article, error)
	FetchFavorites(ctx context.Context, id Identity) ([]news.Favorite, error)
	FetchReadMarks(ctx context.Context, id Identity) ([]news.ReadMark, error)

	PutSource(ctx context.Context, id Identity, src news.Source) error
	DeleteSource(ctx context.Context, id Identity, sourceID string) error
	PutTheme(ctx context.Context, id Identity, theme news.Theme) error
	DeleteTheme(ctx context.Context, id Identity, themeID string) error
	LinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error
	UnlinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error
	PutFavorite(ctx context.Context, id Identity, fav news.Favorite) error
	DeleteFavorite(ctx context.Context, id Identity, articleID string) error
	PutReadMark(ctx context.Context, id Identity, mark news.ReadMark) error
	DeleteReadMark(ctx context.Context, id Identity, articleID string) error
}

// applyRemote выполняет операцию очереди на сервере
func applyRemote(ctx context.Context, remote RemoteStore, id Identity, op Operation) error {
	switch o := op.(type) {
	case AddFavoriteOp:
		return remote.PutFavorite(ctx, id, news.Favorite{
			ID:        o.ID,
			UserID:    id.UserID,
			ArticleID: o.ArticleID,
			CreatedAt: o.CreatedAt,
		})
	case RemoveFavoriteOp:
		return remote.DeleteFavorite(ctx, id, o.ArticleID)
	case MarkReadOp:
		return remote.PutReadMark(ctx, id, news.ReadMark{
			ID:        o.ID,
			UserID:    id.UserID,
			ArticleID: o.ArticleID,
			ReadAt:    o.ReadAt,
		})
	case MarkUnreadOp:
		return remote.DeleteReadMark(ctx, id, o.ArticleID)
	case AddSourceOp:
		return remote.PutSource(ctx, id, o.Source)
	case UpdateSourceOp:
		return remote.PutSource(ctx, id, o.Source)
	case DeleteSourceOp:
		return remote.DeleteSource(ctx, id, o.SourceID)
	case AddThemeOp:
		return remote.PutTheme(ctx, id, o.Theme)
	case UpdateThemeOp:
		return remote.PutTheme(ctx, id, o.Theme)
	case DeleteThemeOp:
		return remote.DeleteTheme(ctx, id, o.ThemeID)
	case AssignThemeOp:
		return remote.LinkSourceTheme(ctx, id, o.SourceID, o.ThemeID)
	case UnassignThemeOp:
		return remote.UnlinkSourceTheme(ctx, id, o.SourceID, o.ThemeID)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownOperation, op)
	}
}
