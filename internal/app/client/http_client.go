package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/client/config"
	"feedkeeper/internal/domain/news"
)

// httpClient реализация RemoteStore поверх REST API сервера
type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

var _ RemoteStore = (*httpClient)(nil)

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	return newHTTPClient(cfg.BaseURL(), cfg.RequestTimeout, log)
}

func newHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		log:       log.With(slog.String("component", "http_client")),
		baseURL:   baseURL,
		userAgent: "FeedKeeper-Client/1.0",
	}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

type sourceBody struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type themeBody struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type favoriteBody struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type readMarkBody struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	return h.parseResponse(resp, nil)
}

// Register регистрирует пользователя и возвращает его идентификатор
func (h *httpClient) Register(ctx context.Context, login, password string) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", authRequest{Login: login, Password: password})
	if err != nil {
		return "", err
	}

	var out authResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("ошибка регистрации: %s", out.Error)
	}
	return out.UserID, nil
}

// Login выполняет вход и возвращает идентичность для последующих запросов
func (h *httpClient) Login(ctx context.Context, login, password string) (Identity, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", authRequest{Login: login, Password: password})
	if err != nil {
		return Identity{}, err
	}

	var out authResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return Identity{}, err
	}
	if out.Error != "" {
		return Identity{}, fmt.Errorf("ошибка входа: %s", out.Error)
	}

	id := Identity{UserID: out.UserID, Login: login, Token: out.Token}
	if !id.Valid() {
		return Identity{}, fmt.Errorf("сервер вернул неполные учётные данные")
	}
	return id, nil
}

// ==================== Reads ====================

func (h *httpClient) FetchSources(ctx context.Context, id Identity) ([]news.Source, error) {
	return fetchList[news.Source](ctx, h, id, "/api/v1/sources")
}

func (h *httpClient) FetchThemes(ctx context.Context, id Identity) ([]news.Theme, error) {
	return fetchList[news.Theme](ctx, h, id, "/api/v1/themes")
}

func (h *httpClient) FetchSourceThemes(ctx context.Context, id Identity) ([]news.SourceTheme, error) {
	return fetchList[news.SourceTheme](ctx, h, id, "/api/v1/source-themes")
}

func (h *httpClient) FetchArticles(ctx context.Context, id Identity, limit int) ([]news.Article, error) {
	return fetchList[news.Article](ctx, h, id, "/api/v1/articles?limit="+strconv.Itoa(limit))
}

func (h *httpClient) FetchFavorites(ctx context.Context, id Identity) ([]news.Favorite, error) {
	return fetchList[news.Favorite](ctx, h, id, "/api/v1/favorites")
}

func (h *httpClient) FetchReadMarks(ctx context.Context, id Identity) ([]news.ReadMark, error) {
	return fetchList[news.ReadMark](ctx, h, id, "/api/v1/read-marks")
}

func fetchList[T any](ctx context.Context, h *httpClient, id Identity, path string) ([]T, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, path, id.Token, nil)
	if err != nil {
		return nil, err
	}

	var out listResponse[T]
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	return out.Items, nil
}

// ==================== Writes ====================

func (h *httpClient) PutSource(ctx context.Context, id Identity, src news.Source) error {
	return h.put(ctx, id, "/api/v1/sources/"+url.PathEscape(src.ID), sourceBody{
		URL:  src.URL,
		Name: src.Name,
		Type: string(src.Type),
	})
}

func (h *httpClient) DeleteSource(ctx context.Context, id Identity, sourceID string) error {
	return h.delete(ctx, id, "/api/v1/sources/"+url.PathEscape(sourceID))
}

func (h *httpClient) PutTheme(ctx context.Context, id Identity, theme news.Theme) error {
	return h.put(ctx, id, "/api/v1/themes/"+url.PathEscape(theme.ID), themeBody{
		Name:  theme.Name,
		Color: theme.Color,
	})
}

func (h *httpClient) DeleteTheme(ctx context.Context, id Identity, themeID string) error {
	return h.delete(ctx, id, "/api/v1/themes/"+url.PathEscape(themeID))
}

func (h *httpClient) LinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	return h.put(ctx, id, linkPath(sourceID, themeID), nil)
}

func (h *httpClient) UnlinkSourceTheme(ctx context.Context, id Identity, sourceID, themeID string) error {
	return h.delete(ctx, id, linkPath(sourceID, themeID))
}

func linkPath(sourceID, themeID string) string {
	return "/api/v1/source-themes/" + url.PathEscape(sourceID) + "/" + url.PathEscape(themeID)
}

func (h *httpClient) PutFavorite(ctx context.Context, id Identity, fav news.Favorite) error {
	return h.put(ctx, id, "/api/v1/favorites/"+url.PathEscape(fav.ArticleID), favoriteBody{
		ID:        fav.ID,
		CreatedAt: fav.CreatedAt,
	})
}

func (h *httpClient) DeleteFavorite(ctx context.Context, id Identity, articleID string) error {
	return h.delete(ctx, id, "/api/v1/favorites/"+url.PathEscape(articleID))
}

func (h *httpClient) PutReadMark(ctx context.Context, id Identity, mark news.ReadMark) error {
	return h.put(ctx, id, "/api/v1/read-marks/"+url.PathEscape(mark.ArticleID), readMarkBody{
		ID:     mark.ID,
		ReadAt: mark.ReadAt,
	})
}

func (h *httpClient) DeleteReadMark(ctx context.Context, id Identity, articleID string) error {
	return h.delete(ctx, id, "/api/v1/read-marks/"+url.PathEscape(articleID))
}

// put повторная вставка уже существующей записи (409) считается успехом
func (h *httpClient) put(ctx context.Context, id Identity, path string, body interface{}) error {
	resp, err := h.doRequest(ctx, http.MethodPut, path, id.Token, body)
	if err != nil {
		return err
	}

	err = h.parseResponse(resp, nil)
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusConflict {
		return nil
	}
	return err
}

// delete удаление отсутствующей записи (404) считается успехом
func (h *httpClient) delete(ctx context.Context, id Identity, path string) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, path, id.Token, nil)
	if err != nil {
		return err
	}

	err = h.parseResponse(resp, nil)
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

func (h *httpClient) doRequest(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
			Title  string `json:"title"`
		}
		remoteErr := &RemoteError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, &errResp); err == nil {
			switch {
			case errResp.Detail != "":
				remoteErr.Message = errResp.Detail
			case errResp.Error != "":
				remoteErr.Message = errResp.Error
			default:
				remoteErr.Message = errResp.Title
			}
		}
		return remoteErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
