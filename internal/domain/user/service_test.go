package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(User), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewPasswordValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	login := "testuser"
	password := "testpassword123"

	// Хэш предсказать нельзя, проверяем логин, формат id и соответствие хэша паролю
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u User) bool {
		_, err := uuid.Parse(u.ID)
		return err == nil &&
			u.Login == login &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	})).Return(nil)

	userID, err := service.Register(context.Background(), "  "+login+" ", password)
	assert.NoError(t, err)
	assert.NotEmpty(t, userID)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	_, err := service.Register(context.Background(), "ab", "testpassword123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(context.Background(), "testuser", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantIs  error
	}{
		{name: "login taken", repoErr: ErrLoginTaken, wantIs: ErrLoginTaken},
		{name: "database error", repoErr: errors.New("database error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)

			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("user.User")).Return(tt.repoErr)

			_, err := service.Register(context.Background(), "testuser", "testpassword123")
			assert.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.Contains(t, err.Error(), "database error")
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	password := "testpassword123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := User{ID: "5f0c7d4e-1111-4b1a-9c9e-000000000001", Login: "testuser", Password: string(hash)}

	tests := []struct {
		name     string
		login    string
		password string
		found    User
		findErr  error
		wantErr  error
	}{
		{name: "success", login: "testuser", password: password, found: stored},
		{name: "wrong password", login: "testuser", password: "wrongpassword1", found: stored, wantErr: ErrInvalidAuth},
		{name: "unknown user", login: "nobody", password: password, findErr: ErrNotFound, wantErr: ErrInvalidAuth},
		{name: "invalid login", login: "a", password: password, wantErr: ErrInvalidAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)

			if len(tt.login) >= MinLoginLen {
				mockRepo.On("FindByLogin", mock.Anything, tt.login).Return(tt.found, tt.findErr)
			}

			u, err := service.Authenticate(context.Background(), tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, User{}, u)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stored, u)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate_RepositoryFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("FindByLogin", mock.Anything, "testuser").Return(User{}, errors.New("connection reset"))

	_, err := service.Authenticate(context.Background(), "testuser", "testpassword123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAuth)
}
