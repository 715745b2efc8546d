package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daftarapp/daftar-api/internal/config"
	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByID    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockCreate      func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockCreate      func(ctx context.Context, token *models.RefreshToken) error
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockDelete      func(ctx context.Context, token string) error
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, token)
	}
	return nil
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := &mockUserRepo{}
	service := NewAuthService(userRepo, &mockRefreshTokenRepo{}, testConfig())

	digest, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			ID:                uuid.New(),
			Email:             email,
			EncryptedPassword: string(digest),
		}, nil
	}

	result, err := service.Login(context.Background(), "owner@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "owner@example.com", result.User.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := &mockUserRepo{}
	service := NewAuthService(userRepo, &mockRefreshTokenRepo{}, testConfig())

	digest, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	userRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{Email: email, EncryptedPassword: string(digest)}, nil
	}

	result, err := service.Login(context.Background(), "owner@example.com", "wrong")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{}
	service := NewAuthService(userRepo, &mockRefreshTokenRepo{}, testConfig())

	userRepo.mockCreate = func(ctx context.Context, user *models.User) error {
		return repository.ErrEmailTaken
	}

	result, err := service.Signup(context.Background(), "owner@example.com", "secret123")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_RefreshToken_RotatesSingleUse(t *testing.T) {
	userRepo := &mockUserRepo{}
	rtRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(userRepo, rtRepo, testConfig())

	userID := uuid.New()
	rtRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		expiresAt := time.Now().Add(time.Hour)
		return &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: &expiresAt}, nil
	}
	userRepo.mockFindByID = func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return &models.User{ID: id, Email: "owner@example.com"}, nil
	}
	deleted := ""
	rtRepo.mockDelete = func(ctx context.Context, token string) error {
		deleted = token
		return nil
	}

	result, err := service.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, "old-token", deleted)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "old-token", result.RefreshToken)
}

func TestAuthService_RefreshToken_Expired(t *testing.T) {
	rtRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(&mockUserRepo{}, rtRepo, testConfig())

	rtRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		expiresAt := time.Now().Add(-time.Hour)
		return &models.RefreshToken{UserID: uuid.New(), Token: token, ExpiresAt: &expiresAt}, nil
	}

	result, err := service.RefreshToken(context.Background(), "stale-token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
