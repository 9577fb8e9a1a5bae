package article

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/api/http/middleware/auth"
	"feedkeeper/internal/domain/news"
	"feedkeeper/internal/domain/news/mocks"
)

func TestHandler_list(t *testing.T) {
	svc := new(mocks.Servicer)
	h := NewHandler(svc, slog.Default(), nil)
	ctx := auth.WithUserID(context.Background(), "user-1")

	svc.On("Articles", mock.Anything, "user-1", 25).Return([]news.Article{{ID: "a1"}, {ID: "a2"}}, nil).Once()

	out, err := h.list(ctx, &listInput{Limit: 25})
	require.NoError(t, err)
	assert.Len(t, out.Body.Items, 2)
	svc.AssertExpectations(t)
}

func TestHandler_ingest(t *testing.T) {
	svc := new(mocks.Servicer)
	h := NewHandler(svc, slog.Default(), nil)
	ctx := auth.WithUserID(context.Background(), "user-1")

	fetched := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.On("IngestArticles", mock.Anything, "user-1", []news.Article{
		{SourceID: "s1", URL: "https://a.example/1", Title: "One", FetchedAt: fetched},
		{SourceID: "s2", URL: "https://b.example/1"},
	}).Return(1, nil).Once()

	out, err := h.ingest(ctx, &ingestInput{Body: ingestRequest{Items: []ingestItem{
		{SourceID: "s1", URL: "https://a.example/1", Title: "One", FetchedAt: &fetched},
		{SourceID: "s2", URL: "https://b.example/1"},
	}}})
	require.NoError(t, err)
	assert.Equal(t, ingestResponse{Received: 2, Stored: 1}, out.Body)
	svc.AssertExpectations(t)
}

func TestHandler_ingestInvalid(t *testing.T) {
	svc := new(mocks.Servicer)
	h := NewHandler(svc, slog.Default(), nil)
	ctx := auth.WithUserID(context.Background(), "user-1")

	svc.On("IngestArticles", mock.Anything, "user-1", mock.Anything).Return(0, news.ErrInvalidInput).Once()

	_, err := h.ingest(ctx, &ingestInput{Body: ingestRequest{Items: []ingestItem{{SourceID: "s1"}}}})
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.GetStatus())
}
