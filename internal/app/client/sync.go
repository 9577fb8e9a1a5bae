package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"feedkeeper/internal/domain/news"
)

// SyncService сверяет локальное хранилище с сервером в обе стороны
type SyncService struct {
	store     *SQLiteStorage
	remote    RemoteStore
	log       *slog.Logger
	config    *SyncConfig
	statsPath string
	mu        sync.RWMutex
	lastSync  time.Time
	isSyncing bool
	stats     *SyncStats
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	Enabled       bool          `json:"enabled"`
	Interval      time.Duration `json:"interval"`
	MaxRetries    int           `json:"max_retries"`
	ArticleWindow int           `json:"article_window"`
}

// DefaultSyncConfig значения по умолчанию
func DefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		Enabled:       true,
		Interval:      time.Minute,
		MaxRetries:    MaxRetries,
		ArticleWindow: news.DefaultArticles,
	}
}

// SyncStats накопленная статистика синхронизации
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalPushed     int       `json:"total_pushed"`
	TotalPushFailed int       `json:"total_push_failed"`
	TotalPulled     int       `json:"total_pulled"`
	TotalErrors     int       `json:"total_errors"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

// PullResult итог загрузки с сервера
type PullResult struct {
	Success        bool     `json:"success"`
	SourcesCount   int      `json:"sourcesCount"`
	ThemesCount    int      `json:"themesCount"`
	ArticlesCount  int      `json:"articlesCount"`
	FavoritesCount int      `json:"favoritesCount"`
	LinksCount     int      `json:"linksCount"`
	ReadMarksCount int      `json:"readMarksCount"`
	Errors         []string `json:"errors"`
}

// PushResult итог разбора очереди
type PushResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// NewSyncService создает сервис синхронизации. Статистика хранится в statsDir.
func NewSyncService(store *SQLiteStorage, remote RemoteStore, cfg *SyncConfig, statsDir string, log *slog.Logger) *SyncService {
	if cfg == nil {
		cfg = DefaultSyncConfig()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = MaxRetries
	}
	if cfg.ArticleWindow <= 0 {
		cfg.ArticleWindow = news.DefaultArticles
	}

	s := &SyncService{
		store:  store,
		remote: remote,
		log:    log.With(slog.String("component", "sync")),
		config: cfg,
		stats:  &SyncStats{},
	}

	if statsDir != "" {
		s.statsPath = filepath.Join(statsDir, "sync_stats.json")
		if stats, err := loadStats(s.statsPath); err == nil {
			s.stats = stats
		}
	}

	return s
}

// Config возвращает копию текущей конфигурации
func (s *SyncService) Config() SyncConfig {
	return *s.config
}

// Push отправляет накопленные операции на сервер по одной, от старых к новым.
// Ошибка отдельной записи не останавливает разбор; наружу возвращаются
// только ошибки локального хранилища.
func (s *SyncService) Push(ctx context.Context, id Identity) (*PushResult, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	entries, err := s.store.DequeueAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &PushResult{}

	for _, entry := range entries {
		if entry.RetryCount >= s.config.MaxRetries {
			if err := s.store.RemoveQueueEntry(ctx, entry.ID); err != nil {
				return result, err
			}
			result.Failed++

			lastErr := ""
			if entry.LastError != nil {
				lastErr = *entry.LastError
			}
			s.log.Warn("Операция удалена из очереди после исчерпания попыток",
				"entry_id", entry.ID,
				"table", entry.TableName,
				"action", entry.Action,
				"record_id", entry.RecordID,
				"retries", entry.RetryCount,
				"last_error", lastErr,
			)
			continue
		}

		op, err := entry.Operation()
		if err == nil {
			err = applyRemote(ctx, s.remote, id, op)
		}

		if err != nil {
			if rerr := s.store.RecordQueueError(ctx, entry.ID, err.Error()); rerr != nil {
				return result, rerr
			}
			result.Failed++
			s.log.Debug("Не удалось отправить операцию",
				"entry_id", entry.ID,
				"retry", entry.RetryCount+1,
				"error", err,
			)
			continue
		}

		if err := s.store.RemoveQueueEntry(ctx, entry.ID); err != nil {
			return result, err
		}
		result.Processed++
	}

	if len(entries) > 0 {
		s.log.Info("Очередь обработана",
			"processed", result.Processed,
			"failed", result.Failed,
		)
	}

	return result, nil
}

// Pull параллельно загружает все типы сущностей и сохраняет их локально.
// Сбой загрузки одного типа попадает в Errors и не мешает остальным;
// ошибка локального сохранения прерывает всю операцию.
func (s *SyncService) Pull(ctx context.Context, id Identity) (*PullResult, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	result := &PullResult{Errors: []string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	g.Go(pullStep(gctx, s, &mu, result, TableSources,
		func(ctx context.Context) ([]news.Source, error) { return s.remote.FetchSources(ctx, id) },
		s.store.SaveSources, &result.SourcesCount))

	g.Go(pullStep(gctx, s, &mu, result, TableThemes,
		func(ctx context.Context) ([]news.Theme, error) { return s.remote.FetchThemes(ctx, id) },
		s.store.SaveThemes, &result.ThemesCount))

	g.Go(pullStep(gctx, s, &mu, result, TableSourceThemes,
		func(ctx context.Context) ([]news.SourceTheme, error) { return s.remote.FetchSourceThemes(ctx, id) },
		s.store.SaveSourceThemes, &result.LinksCount))

	g.Go(pullStep(gctx, s, &mu, result, TableArticles,
		func(ctx context.Context) ([]news.Article, error) {
			return s.remote.FetchArticles(ctx, id, s.config.ArticleWindow)
		},
		s.store.SaveArticles, &result.ArticlesCount))

	g.Go(pullStep(gctx, s, &mu, result, TableFavorites,
		func(ctx context.Context) ([]news.Favorite, error) { return s.remote.FetchFavorites(ctx, id) },
		s.store.SaveFavorites, &result.FavoritesCount))

	g.Go(pullStep(gctx, s, &mu, result, TableReadArticles,
		func(ctx context.Context) ([]news.ReadMark, error) { return s.remote.FetchReadMarks(ctx, id) },
		s.store.SaveReadMarks, &result.ReadMarksCount))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Success = len(result.Errors) == 0

	s.log.Info("Загрузка с сервера завершена",
		"success", result.Success,
		"sources", result.SourcesCount,
		"themes", result.ThemesCount,
		"articles", result.ArticlesCount,
		"favorites", result.FavoritesCount,
		"errors", len(result.Errors),
	)

	return result, nil
}

// pullStep загрузка и сохранение одного типа сущностей
func pullStep[T any](
	ctx context.Context,
	s *SyncService,
	mu *sync.Mutex,
	result *PullResult,
	entity string,
	fetch func(context.Context) ([]T, error),
	save func(context.Context, []T) error,
	count *int,
) func() error {
	return func() error {
		items, err := fetch(ctx)
		if err != nil {
			s.log.Warn("Ошибка загрузки с сервера", "entity", entity, "error", err)
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entity, err))
			mu.Unlock()
			return nil
		}

		if err := save(ctx, items); err != nil {
			return fmt.Errorf("ошибка сохранения %s: %w", entity, err)
		}

		mu.Lock()
		*count = len(items)
		mu.Unlock()
		return nil
	}
}

// FullSync сначала отправляет очередь, затем загружает свежие данные.
// Результат отправки пишется в лог, итогом считается результат загрузки.
func (s *SyncService) FullSync(ctx context.Context, id Identity) (*PullResult, error) {
	if !s.config.Enabled {
		return nil, ErrSyncDisabled
	}
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.log.Info("Начало синхронизации")

	push, err := s.Push(ctx, id)
	if err != nil {
		s.updateStats(nil, nil, time.Since(start))
		return nil, fmt.Errorf("ошибка отправки очереди: %w", err)
	}

	pull, err := s.Pull(ctx, id)
	if err != nil {
		s.updateStats(push, nil, time.Since(start))
		return nil, fmt.Errorf("ошибка загрузки с сервера: %w", err)
	}

	duration := time.Since(start)
	s.updateStats(push, pull, duration)

	if pull.Success {
		s.log.Info("Синхронизация успешно завершена",
			"duration", duration,
			"pushed", push.Processed,
			"push_failed", push.Failed,
		)
	} else {
		s.log.Warn("Синхронизация завершена с ошибками",
			"duration", duration,
			"errors", len(pull.Errors),
		)
	}

	return pull, nil
}

// updateStats обновляет статистику синхронизации
func (s *SyncService) updateStats(push *PushResult, pull *PullResult, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.stats.TotalSyncs++

	if push != nil {
		s.stats.TotalPushed += push.Processed
		s.stats.TotalPushFailed += push.Failed
	}

	switch {
	case pull == nil:
		s.stats.LastFailed = now
		s.stats.TotalErrors++
	case pull.Success:
		s.stats.LastSuccessful = now
		s.lastSync = now
	default:
		s.stats.LastFailed = now
		s.stats.TotalErrors += len(pull.Errors)
	}

	if pull != nil {
		s.stats.TotalPulled += pull.SourcesCount + pull.ThemesCount + pull.LinksCount +
			pull.ArticlesCount + pull.FavoritesCount + pull.ReadMarksCount
	}

	s.stats.AvgSyncDuration = (s.stats.AvgSyncDuration*float64(s.stats.TotalSyncs-1) +
		duration.Seconds()) / float64(s.stats.TotalSyncs)

	s.saveStats()
}

// StartAutoSync периодически запускает FullSync, пока есть связь и пользователь
func (s *SyncService) StartAutoSync(ctx context.Context, identity func() Identity, online func() bool) {
	if !s.config.Enabled {
		s.log.Info("Автоматическая синхронизация отключена")
		return
	}

	s.log.Info("Запуск автоматической синхронизации", "interval", s.config.Interval)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Автоматическая синхронизация остановлена")
			return
		case <-ticker.C:
			id := identity()
			if !id.Valid() || !online() {
				continue
			}
			if _, err := s.FullSync(ctx, id); err != nil {
				s.log.Error("Ошибка автоматической синхронизации", "error", err)
			}
		}
	}
}

// Stats возвращает копию статистики
func (s *SyncService) Stats() SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.stats
}

// LastSyncTime время последней успешной синхронизации
func (s *SyncService) LastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// ResetStats сбрасывает статистику синхронизации
func (s *SyncService) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = &SyncStats{}
	s.saveStats()
}

func loadStats(path string) (*SyncStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stats SyncStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("ошибка парсинга статистики: %w", err)
	}
	return &stats, nil
}

// saveStats вызывается под s.mu
func (s *SyncService) saveStats() {
	if s.statsPath == "" {
		return
	}

	data, err := json.MarshalIndent(s.stats, "", "  ")
	if err != nil {
		s.log.Error("Ошибка сериализации статистики", "error", err)
		return
	}

	if err := os.WriteFile(s.statsPath, data, 0600); err != nil {
		s.log.Error("Ошибка записи статистики", "error", err)
	}
}
