package news

import (
	"context"
)

// Repository серверное хранилище сущностей новостей, все операции ограничены владельцем
type Repository interface {
	// Источники
	ListSources(ctx context.Context, userID string) ([]Source, error)
	UpsertSource(ctx context.Context, src Source) error
	DeleteSource(ctx context.Context, userID, sourceID string) (bool, error)

	// Темы
	ListThemes(ctx context.Context, userID string) ([]Theme, error)
	UpsertTheme(ctx context.Context, theme Theme) error
	DeleteTheme(ctx context.Context, userID, themeID string) (bool, error)

	// Связи источник-тема
	ListSourceThemes(ctx context.Context, userID string) ([]SourceTheme, error)
	LinkSourceTheme(ctx context.Context, userID, sourceID, themeID string) error
	UnlinkSourceTheme(ctx context.Context, userID, sourceID, themeID string) (bool, error)

	// Статьи
	ListArticles(ctx context.Context, userID string, limit int) ([]Article, error)
	UpsertArticles(ctx context.Context, userID string, articles []Article) (int, error)

	// Пользовательские отметки
	ListFavorites(ctx context.Context, userID string) ([]Favorite, error)
	PutFavorite(ctx context.Context, fav Favorite) error
	DeleteFavorite(ctx context.Context, userID, articleID string) (bool, error)
	ListReadMarks(ctx context.Context, userID string) ([]ReadMark, error)
	PutReadMark(ctx context.Context, mark ReadMark) error
	DeleteReadMark(ctx context.Context, userID, articleID string) (bool, error)
}
