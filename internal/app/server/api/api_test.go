package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/session"
	"feedkeeper/internal/infrastructure/storage/postgres"
)

func newTestServer(t *testing.T) (*httptest.Server, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	storage := postgres.NewWithPool(mock)
	log := slog.Default()
	sessions := session.NewService(postgres.NewSessionRepository(storage, log), session.DefaultTTL, log)

	srv := httptest.NewServer(New(storage, sessions, log))
	t.Cleanup(srv.Close)
	return srv, mock
}

func hashHex(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func TestAPI_Health(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing()

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_ProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/v1/sources", "/api/v1/themes", "/api/v1/articles", "/api/v1/favorites", "/api/v1/read-marks", "/api/v1/source-themes"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAPI_PutSourceRoundTrip(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery("SELECT user_id FROM sessions").
		WithArgs(hashHex("token-1")).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("user-1"))
	mock.ExpectExec("INSERT INTO sources").
		WithArgs("s1", "user-1", "https://a.example/rss", "Alpha", "feed", "pending").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	body := strings.NewReader(`{"url":"https://a.example/rss","name":"Alpha","type":"feed"}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/sources/s1", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
