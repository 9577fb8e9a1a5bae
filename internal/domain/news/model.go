package news

import "time"

// SourceType вид источника контента
type SourceType string

const (
	SourceTypeFeed         SourceType = "feed"
	SourceTypePage         SourceType = "page"
	SourceTypeVideoChannel SourceType = "video-channel"
)

// SourceStatus состояние источника на стороне сборщика
type SourceStatus string

const (
	SourceStatusPending SourceStatus = "pending"
	SourceStatusActive  SourceStatus = "active"
	SourceStatusError   SourceStatus = "error"
)

// Source источник контента пользователя
type Source struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	URL           string       `json:"url"`
	Name          string       `json:"name"`
	Type          SourceType   `json:"type"`
	Status        SourceStatus `json:"status"`
	LastFetchedAt *time.Time   `json:"last_fetched_at,omitempty"`
	LastError     *string      `json:"last_error,omitempty"`
	SyncedAt      time.Time    `json:"synced_at"`
}

// Theme пользовательская тема для группировки источников
type Theme struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	SyncedAt time.Time `json:"synced_at"`
}

// SourceTheme связь источника с темой
type SourceTheme struct {
	SourceID string    `json:"source_id"`
	ThemeID  string    `json:"theme_id"`
	SyncedAt time.Time `json:"synced_at"`
}

// Article статья, собранная из источника. Уникальна по (SourceID, URL).
type Article struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"source_id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	ImageURL    string     `json:"image_url"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	SyncedAt    time.Time  `json:"synced_at"`
}

// Favorite отметка "избранное". Уникальна по (UserID, ArticleID).
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ArticleID string    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
	SyncedAt  time.Time `json:"synced_at"`
}

// ReadMark отметка о прочтении. Отсутствие строки означает "не прочитано".
type ReadMark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ArticleID string    `json:"article_id"`
	ReadAt    time.Time `json:"read_at"`
	SyncedAt  time.Time `json:"synced_at"`
}

// LinkKey составной ключ связи источник-тема
func (l SourceTheme) LinkKey() string {
	return l.SourceID + ":" + l.ThemeID
}
