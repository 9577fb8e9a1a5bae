package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/news"
)

func newTestSyncService(t *testing.T, store *SQLiteStorage, remote RemoteStore) *SyncService {
	t.Helper()
	return NewSyncService(store, remote, DefaultSyncConfig(), t.TempDir(), slog.Default())
}

func enqueueFavorite(t *testing.T, store *SQLiteStorage, articleID string) int64 {
	t.Helper()
	id, err := store.Enqueue(context.Background(), AddFavoriteOp{
		ID:        "fav-" + articleID,
		ArticleID: articleID,
		CreatedAt: baseTime,
	})
	require.NoError(t, err)
	return id
}

func favoriteFor(articleID string) interface{} {
	return mock.MatchedBy(func(f news.Favorite) bool { return f.ArticleID == articleID })
}

func TestSyncService_Push_EmptyQueue(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)

	result, err := service.Push(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 0, Failed: 0}, result)
	remote.AssertExpectations(t)
}

func TestSyncService_Push_Success(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	enqueueFavorite(t, store, "article-1")

	remote.On("PutFavorite", mock.Anything, testIdentity, news.Favorite{
		ID:        "fav-article-1",
		UserID:    "user-1",
		ArticleID: "article-1",
		CreatedAt: baseTime,
	}).Return(nil).Once()

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 1, Failed: 0}, result)

	size, err := store.QueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	remote.AssertExpectations(t)
}

func TestSyncService_Push_EvictsAtRetryCap(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	entryID := enqueueFavorite(t, store, "article-1")
	for i := 0; i < MaxRetries; i++ {
		require.NoError(t, store.RecordQueueError(ctx, entryID, "Insert failed"))
	}

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 0, Failed: 1}, result)

	size, err := store.QueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	remote.AssertNotCalled(t, "PutFavorite", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncService_Push_RecordsFailure(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	enqueueFavorite(t, store, "article-1")
	remote.On("PutFavorite", mock.Anything, testIdentity, mock.Anything).Return(errors.New("Insert failed"))

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 0, Failed: 1}, result)

	entries, err := store.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].RetryCount)
	require.NotNil(t, entries[0].LastError)
	assert.Equal(t, "Insert failed", *entries[0].LastError)
}

func TestSyncService_Push_FailureDoesNotAbortDrain(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	enqueueFavorite(t, store, "article-1")
	enqueueFavorite(t, store, "article-2")

	remote.On("PutFavorite", mock.Anything, testIdentity, favoriteFor("article-1")).Return(errors.New("boom"))
	remote.On("PutFavorite", mock.Anything, testIdentity, favoriteFor("article-2")).Return(nil)

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 1, Failed: 1}, result)

	entries, err := store.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "article-1", entries[0].RecordID)
}

func TestSyncService_Push_EventuallyEvicts(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	enqueueFavorite(t, store, "article-1")
	remote.On("PutFavorite", mock.Anything, testIdentity, mock.Anything).Return(errors.New("boom"))

	for i := 0; i < MaxRetries; i++ {
		result, err := service.Push(ctx, testIdentity)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
	}

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 0, Failed: 1}, result)

	size, err := store.QueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	remote.AssertNumberOfCalls(t, "PutFavorite", MaxRetries)
}

func TestSyncService_Push_CorruptPayload(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO sync_queue (action, table_name, record_id, payload, created_at, retry_count)
		VALUES ('INSERT', 'favorites', 'a1', 'not json', ?, 0)
	`, baseTime)
	require.NoError(t, err)

	result, err := service.Push(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{Processed: 0, Failed: 1}, result)

	entries, err := store.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].RetryCount)
}

func TestSyncService_Push_RequiresIdentity(t *testing.T) {
	service := newTestSyncService(t, newTestStorage(t), new(MockRemote))

	_, err := service.Push(context.Background(), Identity{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = service.Pull(context.Background(), Identity{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSyncService_Pull_PartialFailure(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	remote.On("FetchSources", mock.Anything, testIdentity).Return([]news.Source{
		{ID: "s1", UserID: "user-1", URL: "https://a.example/rss", Name: "Alpha", Type: news.SourceTypeFeed, Status: news.SourceStatusActive},
		{ID: "s2", UserID: "user-1", URL: "https://b.example/rss", Name: "Beta", Type: news.SourceTypeFeed, Status: news.SourceStatusActive},
	}, nil)
	remote.On("FetchThemes", mock.Anything, testIdentity).Return([]news.Theme{
		{ID: "t1", UserID: "user-1", Name: "Tech"},
	}, nil)
	remote.On("FetchSourceThemes", mock.Anything, testIdentity).Return([]news.SourceTheme{}, nil)
	remote.On("FetchArticles", mock.Anything, testIdentity, news.DefaultArticles).
		Return([]news.Article(nil), errors.New("Network error"))
	remote.On("FetchFavorites", mock.Anything, testIdentity).Return([]news.Favorite{
		{ID: "f1", UserID: "user-1", ArticleID: "a1", CreatedAt: baseTime},
	}, nil)
	remote.On("FetchReadMarks", mock.Anything, testIdentity).Return([]news.ReadMark{}, nil)

	result, err := service.Pull(ctx, testIdentity)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Network error")
	assert.Contains(t, result.Errors[0], TableArticles)
	assert.Equal(t, 2, result.SourcesCount)
	assert.Equal(t, 1, result.ThemesCount)
	assert.Equal(t, 1, result.FavoritesCount)
	assert.Equal(t, 0, result.ArticlesCount)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Sources)
	assert.Equal(t, 1, counts.Themes)
	assert.Equal(t, 1, counts.Favorites)
	remote.AssertExpectations(t)
}

func TestSyncService_Pull_Success(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	remote.expectEmptyPull()
	service := newTestSyncService(t, store, remote)

	result, err := service.Pull(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
}

func TestSyncService_FullSync_PushesBeforePull(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)

	enqueueFavorite(t, store, "article-1")

	var mu sync.Mutex
	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			calls = append(calls, name)
			mu.Unlock()
		}
	}

	remote.On("PutFavorite", mock.Anything, testIdentity, mock.Anything).Return(nil).Run(record("push"))
	remote.On("FetchSources", mock.Anything, testIdentity).Return([]news.Source{}, nil).Run(record("pull"))
	remote.On("FetchThemes", mock.Anything, testIdentity).Return([]news.Theme{}, nil).Run(record("pull"))
	remote.On("FetchSourceThemes", mock.Anything, testIdentity).Return([]news.SourceTheme{}, nil).Run(record("pull"))
	remote.On("FetchArticles", mock.Anything, testIdentity, mock.Anything).Return([]news.Article{}, nil).Run(record("pull"))
	remote.On("FetchFavorites", mock.Anything, testIdentity).Return([]news.Favorite{}, nil).Run(record("pull"))
	remote.On("FetchReadMarks", mock.Anything, testIdentity).Return([]news.ReadMark{}, nil).Run(record("pull"))

	result, err := service.FullSync(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, calls, 7)
	assert.Equal(t, "push", calls[0])
	for _, c := range calls[1:] {
		assert.Equal(t, "pull", c)
	}
	assert.False(t, service.IsSyncing())
}

func TestSyncService_FullSync_Guards(t *testing.T) {
	store := newTestStorage(t)

	t.Run("not authenticated", func(t *testing.T) {
		service := newTestSyncService(t, store, new(MockRemote))
		_, err := service.FullSync(context.Background(), Identity{})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := DefaultSyncConfig()
		cfg.Enabled = false
		service := NewSyncService(store, new(MockRemote), cfg, "", slog.Default())
		_, err := service.FullSync(context.Background(), testIdentity)
		assert.ErrorIs(t, err, ErrSyncDisabled)
	})

	t.Run("already running", func(t *testing.T) {
		service := newTestSyncService(t, store, new(MockRemote))
		service.isSyncing = true
		_, err := service.FullSync(context.Background(), testIdentity)
		assert.ErrorIs(t, err, ErrSyncInProgress)
	})
}

func TestSyncService_StatsPersisted(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	remote.expectEmptyPull()
	dir := t.TempDir()

	service := NewSyncService(store, remote, DefaultSyncConfig(), dir, slog.Default())
	_, err := service.FullSync(context.Background(), testIdentity)
	require.NoError(t, err)

	stats := service.Stats()
	assert.Equal(t, 1, stats.TotalSyncs)
	assert.False(t, stats.LastSuccessful.IsZero())
	assert.False(t, service.LastSyncTime().IsZero())

	_, err = os.Stat(filepath.Join(dir, "sync_stats.json"))
	require.NoError(t, err)

	reloaded := NewSyncService(store, remote, DefaultSyncConfig(), dir, slog.Default())
	assert.Equal(t, 1, reloaded.Stats().TotalSyncs)

	reloaded.ResetStats()
	assert.Equal(t, SyncStats{}, reloaded.Stats())
}

func TestSyncService_Pull_SaveFailureIsFatal(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	service := newTestSyncService(t, store, remote)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, "DROP TABLE sources")
	require.NoError(t, err)

	remote.On("FetchSources", mock.Anything, testIdentity).Return([]news.Source{
		{ID: "s1", UserID: "user-1", URL: "https://a.example/rss", Name: "Alpha", Type: news.SourceTypeFeed},
	}, nil)
	remote.On("FetchThemes", mock.Anything, mock.Anything).Return([]news.Theme{}, nil).Maybe()
	remote.On("FetchSourceThemes", mock.Anything, mock.Anything).Return([]news.SourceTheme{}, nil).Maybe()
	remote.On("FetchArticles", mock.Anything, mock.Anything, mock.Anything).Return([]news.Article{}, nil).Maybe()
	remote.On("FetchFavorites", mock.Anything, mock.Anything).Return([]news.Favorite{}, nil).Maybe()
	remote.On("FetchReadMarks", mock.Anything, mock.Anything).Return([]news.ReadMark{}, nil).Maybe()

	result, err := service.Pull(ctx, testIdentity)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), TableSources)
	remote.AssertExpectations(t)
}

func TestSyncService_StartAutoSync(t *testing.T) {
	store := newTestStorage(t)
	remote := new(MockRemote)
	remote.expectEmptyPull()

	cfg := DefaultSyncConfig()
	cfg.Interval = 10 * time.Millisecond
	service := NewSyncService(store, remote, cfg, t.TempDir(), slog.Default())

	network := newStaticNetwork(false)
	var (
		idMu sync.Mutex
		id   = testIdentity
	)
	identity := func() Identity {
		idMu.Lock()
		defer idMu.Unlock()
		return id
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.StartAutoSync(ctx, identity, network.IsOnline)
	}()

	// Без связи тики пропускаются
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, service.Stats().TotalSyncs)
	remote.AssertNotCalled(t, "FetchSources", mock.Anything, mock.Anything)

	// Без пользователя тоже
	idMu.Lock()
	id = Identity{}
	idMu.Unlock()
	network.online.Store(true)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, service.Stats().TotalSyncs)

	idMu.Lock()
	id = testIdentity
	idMu.Unlock()
	require.Eventually(t, func() bool {
		return service.Stats().TotalSyncs >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("auto sync did not stop after cancel")
	}
}

func TestSyncService_StartAutoSync_Disabled(t *testing.T) {
	cfg := DefaultSyncConfig()
	cfg.Enabled = false
	service := NewSyncService(newTestStorage(t), new(MockRemote), cfg, "", slog.Default())

	done := make(chan struct{})
	go func() {
		defer close(done)
		service.StartAutoSync(context.Background(), func() Identity { return testIdentity }, func() bool { return true })
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled auto sync must return immediately")
	}
}
