package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Create(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func TestAuth_Middleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validate   bool
		userID     string
		validErr   error
		wantStatus int
		wantNext   bool
	}{
		{name: "valid token", header: "Bearer good", validate: true, userID: "user-1", wantNext: true},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer old", validate: true, validErr: errors.New("invalid session"), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSession)
			if tt.validate {
				token := tt.header[len(bearerPrefix):]
				sessions.On("Validate", mock.Anything, token).Return(tt.userID, tt.validErr).Once()
			}
			mw := New(sessions, slog.Default()).Middleware()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			ctx := humatest.NewContext(&huma.Operation{}, req, rec)

			var gotUser string
			called := false
			mw(ctx, func(next huma.Context) {
				called = true
				gotUser, _ = GetUserID(next.Context())
			})

			assert.Equal(t, tt.wantNext, called)
			if tt.wantNext {
				assert.Equal(t, tt.userID, gotUser)
			} else {
				assert.Equal(t, tt.wantStatus, rec.Code)
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
			sessions.AssertExpectations(t)
		})
	}
}

func TestGetUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := GetUserID(WithUserID(context.Background(), "user-1"))
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
}
