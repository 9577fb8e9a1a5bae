package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"feedkeeper/internal/domain/news"
)

const schemaVersionKey = "schema_version"

// localMigrations применяются по порядку, номер версии = индекс + 1
var localMigrations = []string{
	`
	CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		url TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		last_fetched_at DATETIME,
		last_error TEXT,
		synced_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS themes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		synced_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS source_themes (
		source_id TEXT NOT NULL,
		theme_id TEXT NOT NULL,
		synced_at DATETIME NOT NULL,
		PRIMARY KEY (source_id, theme_id)
	);

	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		published_at DATETIME,
		fetched_at DATETIME NOT NULL,
		synced_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		article_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		synced_at DATETIME NOT NULL,
		UNIQUE (user_id, article_id)
	);

	CREATE TABLE IF NOT EXISTS read_articles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		article_id TEXT NOT NULL,
		read_at DATETIME NOT NULL,
		synced_at DATETIME NOT NULL,
		UNIQUE (user_id, article_id)
	);

	CREATE TABLE IF NOT EXISTS sync_queue (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_id);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
	CREATE INDEX IF NOT EXISTS idx_source_themes_theme ON source_themes(theme_id);
	`,
}

// SQLiteStorage локальное хранилище клиента. Запись сериализуется через writeMu,
// чтение идёт параллельно (WAL).
type SQLiteStorage struct {
	db      *sql.DB
	writeMu sync.Mutex
}

func NewSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) migrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("ошибка создания schema_meta: %w", err)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for i := version; i < len(localMigrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("ошибка начала транзакции миграции: %w", err)
		}

		if _, err := tx.ExecContext(ctx, localMigrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка миграции %d: %w", i+1, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schema_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, schemaVersionKey, strconv.Itoa(i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка записи версии схемы: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("ошибка фиксации миграции %d: %w", i+1, err)
		}
	}

	return nil
}

// SchemaVersion возвращает номер последней применённой локальной миграции
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM schema_meta WHERE key = ?", schemaVersionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения версии схемы: %w", err)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("повреждена версия схемы %q: %w", value, err)
	}
	return version, nil
}

// saveMany пишет пачку строк одной транзакцией: либо все, либо ни одной
func saveMany[T any](ctx context.Context, s *SQLiteStorage, query string, items []T, args func(T) []any) error {
	if len(items) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, args(item)...); err != nil {
			return fmt.Errorf("ошибка сохранения строки: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ==================== Batch upserts ====================

func (s *SQLiteStorage) SaveSources(ctx context.Context, sources []news.Source) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO sources (id, user_id, url, name, type, status, last_fetched_at, last_error, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			url = excluded.url,
			name = excluded.name,
			type = excluded.type,
			status = excluded.status,
			last_fetched_at = excluded.last_fetched_at,
			last_error = excluded.last_error,
			synced_at = excluded.synced_at
	`, sources, func(src news.Source) []any {
		return []any{src.ID, src.UserID, src.URL, src.Name, string(src.Type), string(src.Status),
			utcPtr(src.LastFetchedAt), src.LastError, now}
	})
}

func (s *SQLiteStorage) SaveThemes(ctx context.Context, themes []news.Theme) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO themes (id, user_id, name, color, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			color = excluded.color,
			synced_at = excluded.synced_at
	`, themes, func(t news.Theme) []any {
		return []any{t.ID, t.UserID, t.Name, t.Color, now}
	})
}

func (s *SQLiteStorage) SaveSourceThemes(ctx context.Context, links []news.SourceTheme) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO source_themes (source_id, theme_id, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(source_id, theme_id) DO UPDATE SET synced_at = excluded.synced_at
	`, links, func(l news.SourceTheme) []any {
		return []any{l.SourceID, l.ThemeID, now}
	})
}

func (s *SQLiteStorage) SaveArticles(ctx context.Context, articles []news.Article) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO articles (id, source_id, url, title, summary, image_url, author, published_at, fetched_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			url = excluded.url,
			title = excluded.title,
			summary = excluded.summary,
			image_url = excluded.image_url,
			author = excluded.author,
			published_at = excluded.published_at,
			fetched_at = excluded.fetched_at,
			synced_at = excluded.synced_at
	`, articles, func(a news.Article) []any {
		return []any{a.ID, a.SourceID, a.URL, a.Title, a.Summary, a.ImageURL, a.Author,
			utcPtr(a.PublishedAt), a.FetchedAt.UTC(), now}
	})
}

func (s *SQLiteStorage) SaveFavorites(ctx context.Context, favorites []news.Favorite) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO favorites (id, user_id, article_id, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, article_id) DO UPDATE SET
			id = excluded.id,
			created_at = excluded.created_at,
			synced_at = excluded.synced_at
	`, favorites, func(f news.Favorite) []any {
		return []any{f.ID, f.UserID, f.ArticleID, f.CreatedAt.UTC(), now}
	})
}

func (s *SQLiteStorage) SaveReadMarks(ctx context.Context, marks []news.ReadMark) error {
	now := time.Now().UTC()
	return saveMany(ctx, s, `
		INSERT INTO read_articles (id, user_id, article_id, read_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, article_id) DO UPDATE SET
			id = excluded.id,
			read_at = excluded.read_at,
			synced_at = excluded.synced_at
	`, marks, func(m news.ReadMark) []any {
		return []any{m.ID, m.UserID, m.ArticleID, m.ReadAt.UTC(), now}
	})
}

// ==================== Readers ====================

type rowScanner interface {
	Scan(dest ...any) error
}

const sourceColumns = "id, user_id, url, name, type, status, last_fetched_at, last_error, synced_at"

func scanSource(row rowScanner) (news.Source, error) {
	var src news.Source
	var typ, status string
	var fetchedAt sql.NullTime
	var lastError sql.NullString

	if err := row.Scan(&src.ID, &src.UserID, &src.URL, &src.Name, &typ, &status,
		&fetchedAt, &lastError, &src.SyncedAt); err != nil {
		return src, err
	}

	src.Type = news.SourceType(typ)
	src.Status = news.SourceStatus(status)
	if fetchedAt.Valid {
		t := fetchedAt.Time
		src.LastFetchedAt = &t
	}
	if lastError.Valid {
		e := lastError.String
		src.LastError = &e
	}
	return src, nil
}

func (s *SQLiteStorage) Sources(ctx context.Context) ([]news.Source, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sourceColumns+" FROM sources ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения источников: %w", err)
	}
	defer rows.Close()

	sources := []news.Source{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования источника: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// SourceByID возвращает nil, nil если источника нет
func (s *SQLiteStorage) SourceByID(ctx context.Context, id string) (*news.Source, error) {
	src, err := scanSource(s.db.QueryRowContext(ctx, "SELECT "+sourceColumns+" FROM sources WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения источника: %w", err)
	}
	return &src, nil
}

func (s *SQLiteStorage) Themes(ctx context.Context) ([]news.Theme, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, user_id, name, color, synced_at FROM themes ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения тем: %w", err)
	}
	defer rows.Close()

	themes := []news.Theme{}
	for rows.Next() {
		var t news.Theme
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.SyncedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования темы: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// ThemeByID возвращает nil, nil если темы нет
func (s *SQLiteStorage) ThemeByID(ctx context.Context, id string) (*news.Theme, error) {
	var t news.Theme
	err := s.db.QueryRowContext(ctx, "SELECT id, user_id, name, color, synced_at FROM themes WHERE id = ?", id).
		Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.SyncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения темы: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStorage) SourceThemes(ctx context.Context) ([]news.SourceTheme, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source_id, theme_id, synced_at FROM source_themes ORDER BY source_id, theme_id")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения связей: %w", err)
	}
	defer rows.Close()

	links := []news.SourceTheme{}
	for rows.Next() {
		var l news.SourceTheme
		if err := rows.Scan(&l.SourceID, &l.ThemeID, &l.SyncedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования связи: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *SQLiteStorage) ThemeIDsForSource(ctx context.Context, sourceID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT theme_id FROM source_themes WHERE source_id = ? ORDER BY theme_id", sourceID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения тем источника: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования темы источника: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const articleColumns = "a.id, a.source_id, a.url, a.title, a.summary, a.image_url, a.author, a.published_at, a.fetched_at, a.synced_at"

func scanArticle(row rowScanner) (news.Article, error) {
	var a news.Article
	var publishedAt sql.NullTime

	if err := row.Scan(&a.ID, &a.SourceID, &a.URL, &a.Title, &a.Summary, &a.ImageURL, &a.Author,
		&publishedAt, &a.FetchedAt, &a.SyncedAt); err != nil {
		return a, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		a.PublishedAt = &t
	}
	return a, nil
}

// Articles возвращает статьи, новые первыми
func (s *SQLiteStorage) Articles(ctx context.Context, filter ArticleFilter) ([]news.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles a WHERE 1=1"
	args := []any{}

	if filter.SourceID != "" {
		query += " AND a.source_id = ?"
		args = append(args, filter.SourceID)
	}

	if filter.ThemeID != "" {
		query += " AND a.source_id IN (SELECT source_id FROM source_themes WHERE theme_id = ?)"
		args = append(args, filter.ThemeID)
	}

	if filter.OnlyFavorites {
		query += " AND EXISTS (SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = ?)"
		args = append(args, filter.UserID)
	}

	if filter.OnlyUnread {
		query += " AND NOT EXISTS (SELECT 1 FROM read_articles r WHERE r.article_id = a.id AND r.user_id = ?)"
		args = append(args, filter.UserID)
	}

	query += " ORDER BY COALESCE(a.published_at, a.fetched_at) DESC, a.id"

	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	articles := []news.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования статьи: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleByID возвращает nil, nil если статьи нет
func (s *SQLiteStorage) ArticleByID(ctx context.Context, id string) (*news.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles a WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статьи: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStorage) Favorites(ctx context.Context, userID string) ([]news.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, article_id, created_at, synced_at
		FROM favorites WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения избранного: %w", err)
	}
	defer rows.Close()

	favorites := []news.Favorite{}
	for rows.Next() {
		var f news.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ArticleID, &f.CreatedAt, &f.SyncedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования избранного: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (s *SQLiteStorage) ReadMarks(ctx context.Context, userID string) ([]news.ReadMark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, article_id, read_at, synced_at
		FROM read_articles WHERE user_id = ? ORDER BY read_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отметок о прочтении: %w", err)
	}
	defer rows.Close()

	marks := []news.ReadMark{}
	for rows.Next() {
		var m news.ReadMark
		if err := rows.Scan(&m.ID, &m.UserID, &m.ArticleID, &m.ReadAt, &m.SyncedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отметки: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

func (s *SQLiteStorage) FavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	return s.articleIDSet(ctx, "SELECT article_id FROM favorites WHERE user_id = ?", userID)
}

func (s *SQLiteStorage) ReadIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	return s.articleIDSet(ctx, "SELECT article_id FROM read_articles WHERE user_id = ?", userID)
}

func (s *SQLiteStorage) articleIDSet(ctx context.Context, query, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения идентификаторов: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования идентификатора: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (s *SQLiteStorage) IsFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND article_id = ?)", userID, articleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки избранного: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStorage) Counts(ctx context.Context) (*LocalCounts, error) {
	c := &LocalCounts{}
	targets := []struct {
		table string
		dst   *int
	}{
		{TableSources, &c.Sources},
		{TableThemes, &c.Themes},
		{TableSourceThemes, &c.Links},
		{TableArticles, &c.Articles},
		{TableFavorites, &c.Favorites},
		{TableReadArticles, &c.ReadMarks},
		{"sync_queue", &c.Queue},
	}

	for _, t := range targets {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(t.dst); err != nil {
			return nil, fmt.Errorf("ошибка подсчета строк %s: %w", t.table, err)
		}
	}
	return c, nil
}

// ==================== Single-row writes ====================

func (s *SQLiteStorage) exec(ctx context.Context, query string, args ...any) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AddFavorite добавляет отметку, если её ещё нет. Возвращает true, если строка создана.
func (s *SQLiteStorage) AddFavorite(ctx context.Context, f news.Favorite) (bool, error) {
	n, err := s.exec(ctx, `
		INSERT INTO favorites (id, user_id, article_id, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, article_id) DO NOTHING
	`, f.ID, f.UserID, f.ArticleID, f.CreatedAt.UTC(), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("ошибка добавления в избранное: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStorage) RemoveFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	n, err := s.exec(ctx, "DELETE FROM favorites WHERE user_id = ? AND article_id = ?", userID, articleID)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления из избранного: %w", err)
	}
	return n > 0, nil
}

// MarkRead ставит отметку о прочтении, если её ещё нет
func (s *SQLiteStorage) MarkRead(ctx context.Context, m news.ReadMark) (bool, error) {
	n, err := s.exec(ctx, `
		INSERT INTO read_articles (id, user_id, article_id, read_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, article_id) DO NOTHING
	`, m.ID, m.UserID, m.ArticleID, m.ReadAt.UTC(), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("ошибка отметки о прочтении: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStorage) MarkUnread(ctx context.Context, userID, articleID string) (bool, error) {
	n, err := s.exec(ctx, "DELETE FROM read_articles WHERE user_id = ? AND article_id = ?", userID, articleID)
	if err != nil {
		return false, fmt.Errorf("ошибка снятия отметки о прочтении: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStorage) UpsertSource(ctx context.Context, src news.Source) error {
	return s.SaveSources(ctx, []news.Source{src})
}

func (s *SQLiteStorage) UpsertTheme(ctx context.Context, t news.Theme) error {
	return s.SaveThemes(ctx, []news.Theme{t})
}

// LinkSourceTheme добавляет связь, возвращает false если она уже была
func (s *SQLiteStorage) LinkSourceTheme(ctx context.Context, sourceID, themeID string) (bool, error) {
	n, err := s.exec(ctx, `
		INSERT INTO source_themes (source_id, theme_id, synced_at) VALUES (?, ?, ?)
		ON CONFLICT(source_id, theme_id) DO NOTHING
	`, sourceID, themeID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("ошибка привязки темы: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStorage) UnlinkSourceTheme(ctx context.Context, sourceID, themeID string) (bool, error) {
	n, err := s.exec(ctx, "DELETE FROM source_themes WHERE source_id = ? AND theme_id = ?", sourceID, themeID)
	if err != nil {
		return false, fmt.Errorf("ошибка отвязки темы: %w", err)
	}
	return n > 0, nil
}

// DeleteSource удаляет источник вместе с его связями, статьями и отметками на них
func (s *SQLiteStorage) DeleteSource(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM favorites WHERE article_id IN (SELECT id FROM articles WHERE source_id = ?)",
			"DELETE FROM read_articles WHERE article_id IN (SELECT id FROM articles WHERE source_id = ?)",
			"DELETE FROM articles WHERE source_id = ?",
			"DELETE FROM source_themes WHERE source_id = ?",
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		deleted = n > 0
		return err
	})
	if err != nil {
		return false, fmt.Errorf("ошибка удаления источника: %w", err)
	}
	return deleted, nil
}

// DeleteTheme удаляет тему и её связи с источниками
func (s *SQLiteStorage) DeleteTheme(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM source_themes WHERE theme_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM themes WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		deleted = n > 0
		return err
	})
	if err != nil {
		return false, fmt.Errorf("ошибка удаления темы: %w", err)
	}
	return deleted, nil
}

func (s *SQLiteStorage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearAll очищает зеркало серверных данных. schema_meta и очередь не трогает.
func (s *SQLiteStorage) ClearAll(ctx context.Context) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{TableSourceThemes, TableFavorites, TableReadArticles, TableArticles, TableThemes, TableSources} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("%s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка очистки локальных данных: %w", err)
	}
	return nil
}

// ==================== Sync queue ====================

// Enqueue добавляет операцию в конец очереди
func (s *SQLiteStorage) Enqueue(ctx context.Context, op Operation) (int64, error) {
	payload, err := EncodeOperation(op)
	if err != nil {
		return 0, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (action, table_name, record_id, payload, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, 0)
	`, string(op.Action()), op.Table(), op.RecordID(), payload, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления в очередь: %w", err)
	}
	return res.LastInsertId()
}

// DequeueAll читает все записи очереди в порядке добавления, не удаляя их
func (s *SQLiteStorage) DequeueAll(ctx context.Context) ([]QueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, table_name, record_id, payload, created_at, retry_count, last_error
		FROM sync_queue ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	defer rows.Close()

	entries := []QueueEntry{}
	for rows.Next() {
		var e QueueEntry
		var action string
		var lastError sql.NullString
		if err := rows.Scan(&e.ID, &action, &e.TableName, &e.RecordID, &e.Payload,
			&e.CreatedAt, &e.RetryCount, &lastError); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи очереди: %w", err)
		}
		e.Action = Action(action)
		if lastError.Valid {
			msg := lastError.String
			e.LastError = &msg
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStorage) RemoveQueueEntry(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, "DELETE FROM sync_queue WHERE id = ?", id); err != nil {
		return fmt.Errorf("ошибка удаления записи очереди %d: %w", id, err)
	}
	return nil
}

// RecordQueueError увеличивает счётчик попыток и запоминает текст ошибки
func (s *SQLiteStorage) RecordQueueError(ctx context.Context, id int64, msg string) error {
	if _, err := s.exec(ctx,
		"UPDATE sync_queue SET retry_count = retry_count + 1, last_error = ? WHERE id = ?", msg, id); err != nil {
		return fmt.Errorf("ошибка обновления записи очереди %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteStorage) QueueSize(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sync_queue").Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчета очереди: %w", err)
	}
	return n, nil
}

// ClearQueue удаляет все отложенные операции и возвращает их количество
func (s *SQLiteStorage) ClearQueue(ctx context.Context) (int, error) {
	n, err := s.exec(ctx, "DELETE FROM sync_queue")
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки очереди: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
