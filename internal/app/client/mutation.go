package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/news"
)

// Connectivity источник сведений о наличии связи
type Connectivity interface {
	IsOnline() bool
}

// Gateway единая точка пользовательских изменений: сначала локальная запись,
// затем попытка отправки на сервер, при неудаче или без связи операция
// ставится в очередь
type Gateway struct {
	store   *SQLiteStorage
	remote  RemoteStore
	network Connectivity
	log     *slog.Logger
	now     func() time.Time
}

func NewGateway(store *SQLiteStorage, remote RemoteStore, network Connectivity, log *slog.Logger) *Gateway {
	return &Gateway{
		store:   store,
		remote:  remote,
		network: network,
		log:     log.With(slog.String("component", "gateway")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// dispatch доставляет уже применённое локально изменение
func (g *Gateway) dispatch(ctx context.Context, id Identity, op Operation) error {
	if g.network.IsOnline() {
		err := applyRemote(ctx, g.remote, id, op)
		if err == nil {
			return nil
		}
		g.log.Warn("Сервер не принял изменение, ставим в очередь",
			"table", op.Table(),
			"action", op.Action(),
			"record_id", op.RecordID(),
			"error", err,
		)
	}

	if _, err := g.store.Enqueue(ctx, op); err != nil {
		return fmt.Errorf("ошибка постановки в очередь: %w", err)
	}

	g.log.Debug("Операция поставлена в очередь",
		"table", op.Table(),
		"action", op.Action(),
		"record_id", op.RecordID(),
	)
	return nil
}

// ==================== Favorites & read marks ====================

// AddFavorite возвращает false, если статья уже была в избранном
func (g *Gateway) AddFavorite(ctx context.Context, id Identity, articleID string) (bool, error) {
	if !id.Valid() {
		return false, ErrNotAuthenticated
	}

	fav := news.Favorite{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		ArticleID: articleID,
		CreatedAt: g.now(),
	}

	created, err := g.store.AddFavorite(ctx, fav)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	return true, g.dispatch(ctx, id, AddFavoriteOp{ID: fav.ID, ArticleID: articleID, CreatedAt: fav.CreatedAt})
}

// RemoveFavorite возвращает false, если статьи не было в избранном
func (g *Gateway) RemoveFavorite(ctx context.Context, id Identity, articleID string) (bool, error) {
	if !id.Valid() {
		return false, ErrNotAuthenticated
	}

	removed, err := g.store.RemoveFavorite(ctx, id.UserID, articleID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	return true, g.dispatch(ctx, id, RemoveFavoriteOp{ArticleID: articleID})
}

// ToggleFavorite переключает отметку и возвращает новое состояние
func (g *Gateway) ToggleFavorite(ctx context.Context, id Identity, articleID string) (bool, error) {
	if !id.Valid() {
		return false, ErrNotAuthenticated
	}

	isFavorite, err := g.store.IsFavorite(ctx, id.UserID, articleID)
	if err != nil {
		return false, err
	}

	if isFavorite {
		_, err = g.RemoveFavorite(ctx, id, articleID)
		return false, err
	}
	_, err = g.AddFavorite(ctx, id, articleID)
	return true, err
}

func (g *Gateway) MarkRead(ctx context.Context, id Identity, articleID string) (bool, error) {
	if !id.Valid() {
		return false, ErrNotAuthenticated
	}

	mark := news.ReadMark{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		ArticleID: articleID,
		ReadAt:    g.now(),
	}

	created, err := g.store.MarkRead(ctx, mark)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	return true, g.dispatch(ctx, id, MarkReadOp{ID: mark.ID, ArticleID: articleID, ReadAt: mark.ReadAt})
}

func (g *Gateway) MarkUnread(ctx context.Context, id Identity, articleID string) (bool, error) {
	if !id.Valid() {
		return false, ErrNotAuthenticated
	}

	removed, err := g.store.MarkUnread(ctx, id.UserID, articleID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	return true, g.dispatch(ctx, id, MarkUnreadOp{ArticleID: articleID})
}

// ==================== Sources ====================

func (g *Gateway) AddSource(ctx context.Context, id Identity, rawURL, name, sourceType string) (*news.Source, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	typ, err := news.ParseSourceType(sourceType)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = rawURL
	}

	src := news.Source{
		ID:     uuid.NewString(),
		UserID: id.UserID,
		URL:    strings.TrimSpace(rawURL),
		Name:   name,
		Type:   typ,
		Status: news.SourceStatusPending,
	}
	if err := news.ValidateSource(src); err != nil {
		return nil, err
	}

	if err := g.store.UpsertSource(ctx, src); err != nil {
		return nil, err
	}

	return &src, g.dispatch(ctx, id, AddSourceOp{Source: src})
}

func (g *Gateway) RenameSource(ctx context.Context, id Identity, sourceID, name string) (*news.Source, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	src, err := g.store.SourceByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}

	src.Name = strings.TrimSpace(name)
	if err := news.ValidateSource(*src); err != nil {
		return nil, err
	}

	if err := g.store.UpsertSource(ctx, *src); err != nil {
		return nil, err
	}

	return src, g.dispatch(ctx, id, UpdateSourceOp{Source: *src})
}

func (g *Gateway) DeleteSource(ctx context.Context, id Identity, sourceID string) error {
	if !id.Valid() {
		return ErrNotAuthenticated
	}

	deleted, err := g.store.DeleteSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}

	return g.dispatch(ctx, id, DeleteSourceOp{SourceID: sourceID})
}

// ==================== Themes ====================

func (g *Gateway) AddTheme(ctx context.Context, id Identity, name, color string) (*news.Theme, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	theme := news.Theme{
		ID:     uuid.NewString(),
		UserID: id.UserID,
		Name:   strings.TrimSpace(name),
		Color:  strings.TrimSpace(color),
	}
	if err := news.ValidateTheme(theme); err != nil {
		return nil, err
	}

	if err := g.store.UpsertTheme(ctx, theme); err != nil {
		return nil, err
	}

	return &theme, g.dispatch(ctx, id, AddThemeOp{Theme: theme})
}

// UpdateTheme пустые name и color оставляют прежние значения
func (g *Gateway) UpdateTheme(ctx context.Context, id Identity, themeID, name, color string) (*news.Theme, error) {
	if !id.Valid() {
		return nil, ErrNotAuthenticated
	}

	theme, err := g.store.ThemeByID(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
	}

	if name = strings.TrimSpace(name); name != "" {
		theme.Name = name
	}
	if color = strings.TrimSpace(color); color != "" {
		theme.Color = color
	}
	if err := news.ValidateTheme(*theme); err != nil {
		return nil, err
	}

	if err := g.store.UpsertTheme(ctx, *theme); err != nil {
		return nil, err
	}

	return theme, g.dispatch(ctx, id, UpdateThemeOp{Theme: *theme})
}

func (g *Gateway) DeleteTheme(ctx context.Context, id Identity, themeID string) error {
	if !id.Valid() {
		return ErrNotAuthenticated
	}

	deleted, err := g.store.DeleteTheme(ctx, themeID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
	}

	return g.dispatch(ctx, id, DeleteThemeOp{ThemeID: themeID})
}

func (g *Gateway) AssignTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	if !id.Valid() {
		return ErrNotAuthenticated
	}

	if err := g.requireSourceAndTheme(ctx, sourceID, themeID); err != nil {
		return err
	}

	created, err := g.store.LinkSourceTheme(ctx, sourceID, themeID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	return g.dispatch(ctx, id, AssignThemeOp{SourceID: sourceID, ThemeID: themeID})
}

func (g *Gateway) UnassignTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	if !id.Valid() {
		return ErrNotAuthenticated
	}

	removed, err := g.store.UnlinkSourceTheme(ctx, sourceID, themeID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	return g.dispatch(ctx, id, UnassignThemeOp{SourceID: sourceID, ThemeID: themeID})
}

func (g *Gateway) requireSourceAndTheme(ctx context.Context, sourceID, themeID string) error {
	src, err := g.store.SourceByID(ctx, sourceID)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}

	theme, err := g.store.ThemeByID(ctx, themeID)
	if err != nil {
		return err
	}
	if theme == nil {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
	}
	return nil
}
