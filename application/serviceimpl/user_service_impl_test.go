package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/domain/dto"
	"todo-api/domain/services"
	"todo-api/infrastructure/memory"
	"todo-api/pkg/utils"
)

const testJWTSecret = "test-secret"

type memoryRevocation struct {
	tokens map[string]time.Duration
}

func (m *memoryRevocation) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	m.tokens[token] = ttl
	return nil
}

func (m *memoryRevocation) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, ok := m.tokens[token]
	return ok, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), testJWTSecret, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Alice", Email: " Alice@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)

	token, loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userCtx, err := utils.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.ID)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), testJWTSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "A", Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "B", Email: "DUP@example.com", Password: "secret456"})
	assert.ErrorIs(t, err, services.ErrEmailExists)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), testJWTSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "a@example.com", "nope-nope"},
		{"unknown email", "b@example.com", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.pass})
			assert.ErrorIs(t, err, services.ErrInvalidCredentials)
			assert.Empty(t, token)
			assert.Nil(t, user)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	store := &memoryRevocation{tokens: map[string]time.Duration{}}
	svc := NewUserServiceWithRevocation(memory.NewUserRepository(), store, testJWTSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	revoked, err := store.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.LessOrEqual(t, store.tokens[token], time.Hour)

	// token เสียหรือว่างก็ logout ได้
	require.NoError(t, svc.Logout(ctx, ""))
	require.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestLogoutWithoutStoreIsNoop(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), testJWTSecret, time.Hour)
	assert.NoError(t, svc.Logout(context.Background(), "anything"))
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), testJWTSecret, time.Hour)
	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
