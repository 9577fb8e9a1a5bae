package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Reader путь чтения: при наличии связи освежает окно статей с сервера,
// иначе или при ошибке сервера отдаёт то, что уже есть локально.
// Ошибка локального сохранения возвращается вызывающему.
type Reader struct {
	store   *SQLiteStorage
	remote  RemoteStore
	network Connectivity
	log     *slog.Logger
	window  int
}

func NewReader(store *SQLiteStorage, remote RemoteStore, network Connectivity, window int, log *slog.Logger) *Reader {
	return &Reader{
		store:   store,
		remote:  remote,
		network: network,
		log:     log.With(slog.String("component", "reader")),
		window:  window,
	}
}

// Articles возвращает статьи из локального хранилища с отметками пользователя.
// Второй результат сообщает, удалось ли обновить данные с сервера.
func (r *Reader) Articles(ctx context.Context, id Identity, filter ArticleFilter) ([]ArticleView, bool, error) {
	if !id.Valid() {
		return nil, false, ErrNotAuthenticated
	}
	filter.UserID = id.UserID

	refreshed := false
	if r.network.IsOnline() {
		var err error
		if refreshed, err = r.refresh(ctx, id); err != nil {
			return nil, false, err
		}
	}

	articles, err := r.store.Articles(ctx, filter)
	if err != nil {
		return nil, refreshed, err
	}

	favorites, err := r.store.FavoriteIDs(ctx, id.UserID)
	if err != nil {
		return nil, refreshed, err
	}
	read, err := r.store.ReadIDs(ctx, id.UserID)
	if err != nil {
		return nil, refreshed, err
	}

	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		_, fav := favorites[a.ID]
		_, isRead := read[a.ID]
		views = append(views, ArticleView{Article: a, IsFavorite: fav, IsRead: isRead})
	}
	return views, refreshed, nil
}

// refresh недоступность сервера не ошибка, false означает чтение из кэша
func (r *Reader) refresh(ctx context.Context, id Identity) (bool, error) {
	start := time.Now()

	articles, err := r.remote.FetchArticles(ctx, id, r.window)
	if err != nil {
		r.log.Warn("Не удалось получить статьи с сервера, используем локальные", "error", err)
		return false, nil
	}

	if err := r.store.SaveArticles(ctx, articles); err != nil {
		return false, fmt.Errorf("ошибка сохранения статей с сервера: %w", err)
	}

	r.log.Debug("Статьи обновлены с сервера",
		"count", len(articles),
		"duration", time.Since(start),
	)
	return true, nil
}
