package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Sources(ctx context.Context, userID string) ([]Source, error)
	PutSource(ctx context.Context, userID string, src Source) error
	DeleteSource(ctx context.Context, userID, sourceID string) error

	Themes(ctx context.Context, userID string) ([]Theme, error)
	PutTheme(ctx context.Context, userID string, theme Theme) error
	DeleteTheme(ctx context.Context, userID, themeID string) error

	SourceThemes(ctx context.Context, userID string) ([]SourceTheme, error)
	Link(ctx context.Context, userID, sourceID, themeID string) error
	Unlink(ctx context.Context, userID, sourceID, themeID string) error

	Articles(ctx context.Context, userID string, limit int) ([]Article, error)
	IngestArticles(ctx context.Context, userID string, articles []Article) (int, error)

	Favorites(ctx context.Context, userID string) ([]Favorite, error)
	PutFavorite(ctx context.Context, userID string, fav Favorite) error
	DeleteFavorite(ctx context.Context, userID, articleID string) error

	ReadMarks(ctx context.Context, userID string) ([]ReadMark, error)
	PutReadMark(ctx context.Context, userID string, mark ReadMark) error
	DeleteReadMark(ctx context.Context, userID, articleID string) error
}

// Service бизнес-логика серверной стороны: валидация, владение и отметка времени выдачи
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

var _ Servicer = (*Service)(nil)

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "news")),
		now:  time.Now,
	}
}

// ==================== Sources ====================

func (s *Service) Sources(ctx context.Context, userID string) ([]Source, error) {
	sources, err := s.repo.ListSources(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	stamp := s.now().UTC()
	for i := range sources {
		sources[i].SyncedAt = stamp
	}
	return sources, nil
}

// PutSource создаёт или обновляет источник. Статус и ошибки сборщика клиент не задаёт.
func (s *Service) PutSource(ctx context.Context, userID string, src Source) error {
	if err := requireID(src.ID); err != nil {
		return err
	}

	src.UserID = userID
	src.URL = strings.TrimSpace(src.URL)
	src.Name = strings.TrimSpace(src.Name)
	sourceType, err := ParseSourceType(string(src.Type))
	if err != nil {
		return err
	}
	src.Type = sourceType
	if err := ValidateSource(src); err != nil {
		return err
	}
	src.Status = SourceStatusPending

	if err := s.repo.UpsertSource(ctx, src); err != nil {
		return fmt.Errorf("upsert source %s: %w", src.ID, err)
	}
	s.log.Debug("source saved", "source_id", src.ID, "user_id", userID)
	return nil
}

func (s *Service) DeleteSource(ctx context.Context, userID, sourceID string) error {
	return s.deleted(s.repo.DeleteSource(ctx, userID, sourceID))
}

// ==================== Themes ====================

func (s *Service) Themes(ctx context.Context, userID string) ([]Theme, error) {
	themes, err := s.repo.ListThemes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	stamp := s.now().UTC()
	for i := range themes {
		themes[i].SyncedAt = stamp
	}
	return themes, nil
}

func (s *Service) PutTheme(ctx context.Context, userID string, theme Theme) error {
	if err := requireID(theme.ID); err != nil {
		return err
	}

	theme.UserID = userID
	theme.Name = strings.TrimSpace(theme.Name)
	theme.Color = strings.TrimSpace(theme.Color)
	if err := ValidateTheme(theme); err != nil {
		return err
	}

	if err := s.repo.UpsertTheme(ctx, theme); err != nil {
		return fmt.Errorf("upsert theme %s: %w", theme.ID, err)
	}
	return nil
}

func (s *Service) DeleteTheme(ctx context.Context, userID, themeID string) error {
	return s.deleted(s.repo.DeleteTheme(ctx, userID, themeID))
}

// ==================== Links ====================

func (s *Service) SourceThemes(ctx context.Context, userID string) ([]SourceTheme, error) {
	links, err := s.repo.ListSourceThemes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list source themes: %w", err)
	}
	stamp := s.now().UTC()
	for i := range links {
		links[i].SyncedAt = stamp
	}
	return links, nil
}

// Link привязывает тему к источнику, оба должны принадлежать пользователю
func (s *Service) Link(ctx context.Context, userID, sourceID, themeID string) error {
	if err := requireID(sourceID); err != nil {
		return err
	}
	if err := requireID(themeID); err != nil {
		return err
	}
	if err := s.repo.LinkSourceTheme(ctx, userID, sourceID, themeID); err != nil {
		return fmt.Errorf("link %s:%s: %w", sourceID, themeID, err)
	}
	return nil
}

func (s *Service) Unlink(ctx context.Context, userID, sourceID, themeID string) error {
	return s.deleted(s.repo.UnlinkSourceTheme(ctx, userID, sourceID, themeID))
}

// ==================== Articles ====================

// Articles возвращает окно последних статей из источников пользователя
func (s *Service) Articles(ctx context.Context, userID string, limit int) ([]Article, error) {
	articles, err := s.repo.ListArticles(ctx, userID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	stamp := s.now().UTC()
	for i := range articles {
		articles[i].SyncedAt = stamp
	}
	return articles, nil
}

// IngestArticles принимает статьи от сборщика. Повтор по (source_id, url) обновляет статью.
func (s *Service) IngestArticles(ctx context.Context, userID string, articles []Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	prepared := make([]Article, 0, len(articles))
	for i, a := range articles {
		a.SourceID = strings.TrimSpace(a.SourceID)
		a.URL = strings.TrimSpace(a.URL)
		a.Title = strings.TrimSpace(a.Title)
		if a.SourceID == "" || a.URL == "" {
			return 0, fmt.Errorf("%w: article %d needs source_id and url", ErrInvalidInput, i)
		}
		if a.Title == "" {
			a.Title = a.URL
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.FetchedAt.IsZero() {
			a.FetchedAt = now
		}
		prepared = append(prepared, a)
	}

	n, err := s.repo.UpsertArticles(ctx, userID, prepared)
	if err != nil {
		return 0, fmt.Errorf("upsert articles: %w", err)
	}
	s.log.Info("articles ingested", "user_id", userID, "received", len(articles), "stored", n)
	return n, nil
}

// ==================== Favorites & read marks ====================

func (s *Service) Favorites(ctx context.Context, userID string) ([]Favorite, error) {
	favorites, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	stamp := s.now().UTC()
	for i := range favorites {
		favorites[i].SyncedAt = stamp
	}
	return favorites, nil
}

func (s *Service) PutFavorite(ctx context.Context, userID string, fav Favorite) error {
	if err := requireID(fav.ArticleID); err != nil {
		return err
	}
	fav.UserID = userID
	if fav.ID == "" {
		fav.ID = uuid.NewString()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = s.now().UTC()
	}
	if err := s.repo.PutFavorite(ctx, fav); err != nil {
		return fmt.Errorf("put favorite %s: %w", fav.ArticleID, err)
	}
	return nil
}

func (s *Service) DeleteFavorite(ctx context.Context, userID, articleID string) error {
	return s.deleted(s.repo.DeleteFavorite(ctx, userID, articleID))
}

func (s *Service) ReadMarks(ctx context.Context, userID string) ([]ReadMark, error) {
	marks, err := s.repo.ListReadMarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list read marks: %w", err)
	}
	stamp := s.now().UTC()
	for i := range marks {
		marks[i].SyncedAt = stamp
	}
	return marks, nil
}

func (s *Service) PutReadMark(ctx context.Context, userID string, mark ReadMark) error {
	if err := requireID(mark.ArticleID); err != nil {
		return err
	}
	mark.UserID = userID
	if mark.ID == "" {
		mark.ID = uuid.NewString()
	}
	if mark.ReadAt.IsZero() {
		mark.ReadAt = s.now().UTC()
	}
	if err := s.repo.PutReadMark(ctx, mark); err != nil {
		return fmt.Errorf("put read mark %s: %w", mark.ArticleID, err)
	}
	return nil
}

func (s *Service) DeleteReadMark(ctx context.Context, userID, articleID string) error {
	return s.deleted(s.repo.DeleteReadMark(ctx, userID, articleID))
}

// deleted превращает "ничего не удалено" в ErrNotFound
func (s *Service) deleted(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidInput)
	}
	return nil
}
