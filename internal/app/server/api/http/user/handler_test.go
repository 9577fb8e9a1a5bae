package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/user"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, login, password string) (string, error) {
	args := m.Called(ctx, login, password)
	return args.String(0), args.Error(1)
}

func (m *MockService) Authenticate(ctx context.Context, login, password string) (user.User, error) {
	args := m.Called(ctx, login, password)
	return args.Get(0).(user.User), args.Error(1)
}

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

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestHandler_register(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		serviceErr error
		wantStatus int
	}{
		{name: "created", userID: "u1"},
		{name: "login taken", serviceErr: user.ErrLoginTaken, wantStatus: http.StatusConflict},
		{name: "invalid input", serviceErr: fmt.Errorf("%w: too short", user.ErrInvalidInput), wantStatus: http.StatusUnprocessableEntity},
		{name: "storage failure", serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := NewHandler(svc, new(MockSession), slog.Default(), nil)

			svc.On("Register", mock.Anything, "alice", "secret123").Return(tt.userID, tt.serviceErr).Once()

			input := &registerInput{Body: credentials{Login: "alice", Password: "secret123"}}
			out, err := h.register(context.Background(), input)

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				assert.Nil(t, out)
			} else {
				require.NoError(t, err)
				assert.Equal(t, RegisterResponse{UserID: "u1", Status: "Ok"}, out.Body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		sessions := new(MockSession)
		h := NewHandler(svc, sessions, slog.Default(), nil)

		svc.On("Authenticate", mock.Anything, "alice", "secret123").Return(user.User{ID: "u1", Login: "alice"}, nil)
		sessions.On("Create", mock.Anything, "u1").Return("token-1", nil)

		out, err := h.login(context.Background(), &loginInput{Body: credentials{Login: "alice", Password: "secret123"}})
		require.NoError(t, err)
		assert.Equal(t, LoginResponse{UserID: "u1", Token: "token-1", Status: "Ok"}, out.Body)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(MockService)
		sessions := new(MockSession)
		h := NewHandler(svc, sessions, slog.Default(), nil)

		svc.On("Authenticate", mock.Anything, "alice", "wrong").Return(user.User{}, user.ErrInvalidAuth)

		_, err := h.login(context.Background(), &loginInput{Body: credentials{Login: "alice", Password: "wrong"}})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("session failure", func(t *testing.T) {
		svc := new(MockService)
		sessions := new(MockSession)
		h := NewHandler(svc, sessions, slog.Default(), nil)

		svc.On("Authenticate", mock.Anything, "alice", "secret123").Return(user.User{ID: "u1"}, nil)
		sessions.On("Create", mock.Anything, "u1").Return("", errors.New("insert failed"))

		_, err := h.login(context.Background(), &loginInput{Body: credentials{Login: "alice", Password: "secret123"}})
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}
