package client

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feedkeeper/internal/domain/news"
)

var testIdentity = Identity{UserID: "user-1", Login: "alice", Token: "token-1"}

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// MockRemote мок RemoteStore
type MockRemote struct {
	mock.Mock
}

var _ RemoteStore = (*MockRemote)(nil)

func (m *MockRemote) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRemote) FetchSources(ctx context.Context, id Identity) ([]news.Source, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]news.Source), args.Error(1)
}

func (m *MockRemote) FetchThemes(ctx context.Context, id Identity) ([]news.Theme, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]news.Theme), args.Error(1)
}

func (m *MockRemote) FetchSourceThemes(ctx context.Context, id Identity) ([]news.SourceTheme, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]news.SourceTheme), args.Error(1)
}

func (m *MockRemote) FetchArticles(ctx context.Context, id Identity, limit int) ([]news.Article, error) {
	args := m.Called(ctx, id, limit)
	return args.Get(0).([]news.Article), args.Error(1)
}

func (m *MockRemote) FetchFavorites(ctx context.Context, id Identity) ([]news.Favorite, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]news.Favorite), args.Error(1)
}

func (m *MockRemote) FetchReadMarks(ctx context.Context, id Identity) ([]news.ReadMark, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]news.ReadMark), args.Error(1)
}

func (m *MockRemote) PutSource(ctx context.Context, id Identity, src news.Source) error {
	return m.Called(ctx, id, src).Error(0)
}

func (m *MockRemote) DeleteSource(ctx context.Context, id Identity, sourceID string) error {
	return m.Called(ctx, id, sourceID).Error(0)
}

func (m *MockRemote) PutTheme(ctx context.Context, id Identity, theme news.Theme) error {
	return m.Called(ctx, id, theme).Error(0)
}

func (m *MockRemote) DeleteTheme(ctx context.Context, id Identity, themeID string) error {
	return m.Called(ctx, id, themeID).Error(0)
}

func (m *MockRemote) LinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	return m.Called(ctx, id, sourceID, themeID).Error(0)
}

func (m *MockRemote) UnlinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	return m.Called(ctx, id, sourceID, themeID).Error(0)
}

func (m *MockRemote) PutFavorite(ctx context.Context, id Identity, fav news.Favorite) error {
	return m.Called(ctx, id, fav).Error(0)
}

func (m *MockRemote) DeleteFavorite(ctx context.Context, id Identity, articleID string) error {
	return m.Called(ctx, id, articleID).Error(0)
}

func (m *MockRemote) PutReadMark(ctx context.Context, id Identity, mark news.ReadMark) error {
	return m.Called(ctx, id, mark).Error(0)
}

func (m *MockRemote) DeleteReadMark(ctx context.Context, id Identity, articleID string) error {
	return m.Called(ctx, id, articleID).Error(0)
}

// expectEmptyPull все загрузки возвращают пустые списки
func (m *MockRemote) expectEmptyPull() {
	m.On("FetchSources", mock.Anything, mock.Anything).Return([]news.Source{}, nil)
	m.On("FetchThemes", mock.Anything, mock.Anything).Return([]news.Theme{}, nil)
	m.On("FetchSourceThemes", mock.Anything, mock.Anything).Return([]news.SourceTheme{}, nil)
	m.On("FetchArticles", mock.Anything, mock.Anything, mock.Anything).Return([]news.Article{}, nil)
	m.On("FetchFavorites", mock.Anything, mock.Anything).Return([]news.Favorite{}, nil)
	m.On("FetchReadMarks", mock.Anything, mock.Anything).Return([]news.ReadMark{}, nil)
}

// staticNetwork состояние связи, управляемое из теста
type staticNetwork struct {
	online atomic.Bool
}

func newStaticNetwork(online bool) *staticNetwork {
	n := &staticNetwork{}
	n.online.Store(online)
	return n
}

func (n *staticNetwork) IsOnline() bool { return n.online.Load() }
