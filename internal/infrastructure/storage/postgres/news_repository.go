package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/news"
)

// NewsRepository хранит источники, темы, статьи и отметки пользователей.
// Каждый запрос ограничен владельцем: чужая запись выглядит как отсутствующая.
type NewsRepository struct {
	db  *Storage
	log *slog.Logger
}

var _ news.Repository = (*NewsRepository)(nil)

func NewNewsRepository(db *Storage, log *slog.Logger) *NewsRepository {
	return &NewsRepository{
		db:  db,
		log: log.With(slog.String("component", "news_repository")),
	}
}

// ==================== Sources ====================

func (r *NewsRepository) ListSources(ctx context.Context, userID string) ([]news.Source, error) {
	const query = `
		SELECT id, user_id, url, name, type, status, last_fetched_at, last_error
		FROM sources
		WHERE user_id = $1
		ORDER BY name, id`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list sources", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	sources := make([]news.Source, 0)
	for rows.Next() {
		var (
			src         news.Source
			typ, status string
		)
		if err := rows.Scan(&src.ID, &src.UserID, &src.URL, &src.Name, &typ, &status,
			&src.LastFetchedAt, &src.LastError); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		src.Type = news.SourceType(typ)
		src.Status = news.SourceStatus(status)
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// UpsertSource вставляет источник или обновляет поля, которые задаёт пользователь.
// Статус сборщика при обновлении не трогается.
func (r *NewsRepository) UpsertSource(ctx context.Context, src news.Source) error {
	const query = `
		INSERT INTO sources (id, user_id, url, name, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			updated_at = NOW()
		WHERE sources.user_id = EXCLUDED.user_id`

	tag, err := r.db.Pool().Exec(ctx, query,
		src.ID, src.UserID, src.URL, src.Name, string(src.Type), string(src.Status))
	if err != nil {
		r.log.Error("failed to upsert source", "source_id", src.ID, "error", err)
		return fmt.Errorf("upsert source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *NewsRepository) DeleteSource(ctx context.Context, userID, sourceID string) (bool, error) {
	return r.execDelete(ctx, "delete source",
		`DELETE FROM sources WHERE id = $1 AND user_id = $2`, sourceID, userID)
}

// ==================== Themes ====================

func (r *NewsRepository) ListThemes(ctx context.Context, userID string) ([]news.Theme, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, user_id, name, color FROM themes WHERE user_id = $1 ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	themes := make([]news.Theme, 0)
	for rows.Next() {
		var t news.Theme
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (r *NewsRepository) UpsertTheme(ctx context.Context, theme news.Theme) error {
	const query = `
		INSERT INTO themes (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			updated_at = NOW()
		WHERE themes.user_id = EXCLUDED.user_id`

	tag, err := r.db.Pool().Exec(ctx, query, theme.ID, theme.UserID, theme.Name, theme.Color)
	if err != nil {
		return fmt.Errorf("upsert theme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *NewsRepository) DeleteTheme(ctx context.Context, userID, themeID string) (bool, error) {
	return r.execDelete(ctx, "delete theme",
		`DELETE FROM themes WHERE id = $1 AND user_id = $2`, themeID, userID)
}

// ==================== Links ====================

func (r *NewsRepository) ListSourceThemes(ctx context.Context, userID string) ([]news.SourceTheme, error) {
	const query = `
		SELECT st.source_id, st.theme_id
		FROM source_themes st
		JOIN sources s ON s.id = st.source_id
		WHERE s.user_id = $1
		ORDER BY st.source_id, st.theme_id`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list source themes: %w", err)
	}
	defer rows.Close()

	links := make([]news.SourceTheme, 0)
	for rows.Next() {
		var l news.SourceTheme
		if err := rows.Scan(&l.SourceID, &l.ThemeID); err != nil {
			return nil, fmt.Errorf("scan source theme: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// LinkSourceTheme создаёт связь, только если источник и тема принадлежат пользователю.
// Повторная привязка считается успехом.
func (r *NewsRepository) LinkSourceTheme(ctx context.Context, userID, sourceID, themeID string) error {
	const query = `
		INSERT INTO source_themes (source_id, theme_id)
		SELECT $1::text, $2::text
		WHERE EXISTS (SELECT 1 FROM sources WHERE id = $1 AND user_id = $3)
		  AND EXISTS (SELECT 1 FROM themes WHERE id = $2 AND user_id = $3)
		ON CONFLICT (source_id, theme_id) DO UPDATE SET created_at = source_themes.created_at`

	tag, err := r.db.Pool().Exec(ctx, query, sourceID, themeID, userID)
	if err != nil {
		return fmt.Errorf("link source theme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *NewsRepository) UnlinkSourceTheme(ctx context.Context, userID, sourceID, themeID string) (bool, error) {
	const query = `
		DELETE FROM source_themes st
		USING sources s
		WHERE st.source_id = s.id
		  AND st.source_id = $1 AND st.theme_id = $2 AND s.user_id = $3`

	return r.execDelete(ctx, "unlink source theme", query, sourceID, themeID, userID)
}

// ==================== Articles ====================

// ListArticles возвращает последние статьи из источников пользователя, новые первыми
func (r *NewsRepository) ListArticles(ctx context.Context, userID string, limit int) ([]news.Article, error) {
	const query = `
		SELECT a.id, a.source_id, a.url, a.title, a.summary, a.image_url, a.author,
		       a.published_at, a.fetched_at
		FROM articles a
		JOIN sources s ON s.id = a.source_id
		WHERE s.user_id = $1
		ORDER BY COALESCE(a.published_at, a.fetched_at) DESC, a.id
		LIMIT $2`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("failed to list articles", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]news.Article, 0, limit)
	for rows.Next() {
		var a news.Article
		if err := rows.Scan(&a.ID, &a.SourceID, &a.URL, &a.Title, &a.Summary, &a.ImageURL,
			&a.Author, &a.PublishedAt, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// UpsertArticles сохраняет пачку статей в одной транзакции. Статьи чужих источников
// пропускаются, успешно обновлённые источники переходят в статус active.
func (r *NewsRepository) UpsertArticles(ctx context.Context, userID string, articles []news.Article) (stored int, err error) {
	const upsertQuery = `
		INSERT INTO articles (id, source_id, url, title, summary, image_url, author, published_at, fetched_at)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::timestamptz, $9::timestamptz
		WHERE EXISTS (SELECT 1 FROM sources WHERE id = $2 AND user_id = $10)
		ON CONFLICT (source_id, url) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			image_url = EXCLUDED.image_url,
			author = EXCLUDED.author,
			published_at = EXCLUDED.published_at,
			fetched_at = EXCLUDED.fetched_at`

	const touchQuery = `
		UPDATE sources
		SET status = 'active', last_fetched_at = NOW(), last_error = NULL, updated_at = NOW()
		WHERE id = ANY($1) AND user_id = $2`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Error("rollback failed", "error", rbErr)
			}
		}
	}()

	touched := make([]string, 0)
	seen := make(map[string]struct{})
	for _, a := range articles {
		tag, err := tx.Exec(ctx, upsertQuery,
			a.ID, a.SourceID, a.URL, a.Title, a.Summary, a.ImageURL, a.Author,
			utcTime(a.PublishedAt), a.FetchedAt.UTC(), userID)
		if err != nil {
			return 0, fmt.Errorf("upsert article %s: %w", a.URL, err)
		}
		if tag.RowsAffected() == 0 {
			r.log.Warn("article skipped, source not owned", "source_id", a.SourceID, "user_id", userID)
			continue
		}
		stored++
		if _, ok := seen[a.SourceID]; !ok {
			seen[a.SourceID] = struct{}{}
			touched = append(touched, a.SourceID)
		}
	}

	if len(touched) > 0 {
		if _, err := tx.Exec(ctx, touchQuery, touched, userID); err != nil {
			return 0, fmt.Errorf("update source status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ==================== Favorites & read marks ====================

func (r *NewsRepository) ListFavorites(ctx context.Context, userID string) ([]news.Favorite, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, user_id, article_id, created_at FROM favorites WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]news.Favorite, 0)
	for rows.Next() {
		var f news.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ArticleID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// PutFavorite помечает статью избранной. Повтор по (user_id, article_id) ничего не меняет.
func (r *NewsRepository) PutFavorite(ctx context.Context, fav news.Favorite) error {
	const query = `
		INSERT INTO favorites (id, user_id, article_id, created_at)
		SELECT $1::text, $2::text, $3::text, $4::timestamptz
		WHERE EXISTS (
			SELECT 1 FROM articles a JOIN sources s ON s.id = a.source_id
			WHERE a.id = $3 AND s.user_id = $2
		)
		ON CONFLICT (user_id, article_id) DO UPDATE SET created_at = favorites.created_at`

	return r.execMark(ctx, "put favorite", query, fav.ID, fav.UserID, fav.ArticleID, fav.CreatedAt.UTC())
}

func (r *NewsRepository) DeleteFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	return r.execDelete(ctx, "delete favorite",
		`DELETE FROM favorites WHERE user_id = $1 AND article_id = $2`, userID, articleID)
}

func (r *NewsRepository) ListReadMarks(ctx context.Context, userID string) ([]news.ReadMark, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, user_id, article_id, read_at FROM read_articles WHERE user_id = $1 ORDER BY read_at DESC, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list read marks: %w", err)
	}
	defer rows.Close()

	marks := make([]news.ReadMark, 0)
	for rows.Next() {
		var m news.ReadMark
		if err := rows.Scan(&m.ID, &m.UserID, &m.ArticleID, &m.ReadAt); err != nil {
			return nil, fmt.Errorf("scan read mark: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

func (r *NewsRepository) PutReadMark(ctx context.Context, mark news.ReadMark) error {
	const query = `
		INSERT INTO read_articles (id, user_id, article_id, read_at)
		SELECT $1::text, $2::text, $3::text, $4::timestamptz
		WHERE EXISTS (
			SELECT 1 FROM articles a JOIN sources s ON s.id = a.source_id
			WHERE a.id = $3 AND s.user_id = $2
		)
		ON CONFLICT (user_id, article_id) DO UPDATE SET read_at = read_articles.read_at`

	return r.execMark(ctx, "put read mark", query, mark.ID, mark.UserID, mark.ArticleID, mark.ReadAt.UTC())
}

func (r *NewsRepository) DeleteReadMark(ctx context.Context, userID, articleID string) (bool, error) {
	return r.execDelete(ctx, "delete read mark",
		`DELETE FROM read_articles WHERE user_id = $1 AND article_id = $2`, userID, articleID)
}

// ==================== helpers ====================

// execMark выполняет вставку отметки, ноль строк означает чужую или неизвестную статью
func (r *NewsRepository) execMark(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *NewsRepository) execDelete(ctx context.Context, op, query string, args ...any) (bool, error) {
	tag, err := r.db.Pool().Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("delete failed", "op", op, "error", err)
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
