// Package mocks содержит testify-моки сервисов домена новостей для тестов обработчиков.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"feedkeeper/internal/domain/news"
)

type Servicer struct {
	mock.Mock
}

var _ news.Servicer = (*Servicer)(nil)

func (m *Servicer) Sources(ctx context.Context, userID string) ([]news.Source, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]news.Source), args.Error(1)
}

func (m *Servicer) PutSource(ctx context.Context, userID string, src news.Source) error {
	return m.Called(ctx, userID, src).Error(0)
}

func (m *Servicer) DeleteSource(ctx context.Context, userID, sourceID string) error {
	return m.Called(ctx, userID, sourceID).Error(0)
}

func (m *Servicer) Themes(ctx context.Context, userID string) ([]news.Theme, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]news.Theme), args.Error(1)
}

func (m *Servicer) PutTheme(ctx context.Context, userID string, theme news.Theme) error {
	return m.Called(ctx, userID, theme).Error(0)
}

func (m *Servicer) DeleteTheme(ctx context.Context, userID, themeID string) error {
	return m.Called(ctx, userID, themeID).Error(0)
}

func (m *Servicer) SourceThemes(ctx context.Context, userID string) ([]news.SourceTheme, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]news.SourceTheme), args.Error(1)
}

func (m *Servicer) Link(ctx context.Context, userID, sourceID, themeID string) error {
	return m.Called(ctx, userID, sourceID, themeID).Error(0)
}

func (m *Servicer) Unlink(ctx context.Context, userID, sourceID, themeID string) error {
	return m.Called(ctx, userID, sourceID, themeID).Error(0)
}

func (m *Servicer) Articles(ctx context.Context, userID string, limit int) ([]news.Article, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]news.Article), args.Error(1)
}

func (m *Servicer) IngestArticles(ctx context.Context, userID string, articles []news.Article) (int, error) {
	args := m.Called(ctx, userID, articles)
	return args.Int(0), args.Error(1)
}

func (m *Servicer) Favorites(ctx context.Context, userID string) ([]news.Favorite, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]news.Favorite), args.Error(1)
}

func (m *Servicer) PutFavorite(ctx context.Context, userID string, fav news.Favorite) error {
	return m.Called(ctx, userID, fav).Error(0)
}

func (m *Servicer) DeleteFavorite(ctx context.Context, userID, articleID string) error {
	return m.Called(ctx, userID, articleID).Error(0)
}

func (m *Servicer) ReadMarks(ctx context.Context, userID string) ([]news.ReadMark, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]news.ReadMark), args.Error(1)
}

func (m *Servicer) PutReadMark(ctx context.Context, userID string, mark news.ReadMark) error {
	return m.Called(ctx, userID, mark).Error(0)
}

func (m *Servicer) DeleteReadMark(ctx context.Context, userID, articleID string) error {
	return m.Called(ctx, userID, articleID).Error(0)
}
