package services

import (
	"testing"
	"time"

	"bookhaven/internal/database"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repositories.UserRepository) {
	t.Helper()

	db, err := database.NewConnection(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	users := repositories.NewUserRepository(db.DB)
	return NewAuthService(users, "test-secret", 30*time.Minute, 30*time.Minute), users
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t)

	user, err := auth.Register(&models.UserCreateRequest{
		Username: "frank.h",
		Email:    "frank@example.com",
		Password: "valid-password-123",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "valid-password-123", user.PasswordHash)

	resp, err := auth.Login("frank.h", "valid-password-123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := auth.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "frank.h", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestAuthService_LoginFailures(t *testing.T) {
	auth, users := newAuthService(t)

	user, err := auth.Register(&models.UserCreateRequest{
		Username: "frank.h",
		Password: "valid-password-123",
	})
	require.NoError(t, err)

	_, err = auth.Login("frank.h", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("nobody", "valid-password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, users.SetActive(user.ID, false))
	_, err = auth.Login("frank.h", "valid-password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	auth, _ := newAuthService(t)

	t.Run("short username", func(t *testing.T) {
		_, err := auth.Register(&models.UserCreateRequest{Username: "ab", Password: "valid-password-123"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "between 5 and 20 characters")
	})

	t.Run("short password", func(t *testing.T) {
		_, err := auth.Register(&models.UserCreateRequest{Username: "frank.h", Password: "short"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := auth.Register(&models.UserCreateRequest{Username: "frank.h", Password: "valid-password-123"})
		require.NoError(t, err)
		_, err = auth.Register(&models.UserCreateRequest{Username: "frank.h", Password: "valid-password-123"})
		assert.ErrorIs(t, err, models.ErrDuplicateEntry)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	auth, _ := newAuthService(t)

	user, err := auth.Register(&models.UserCreateRequest{
		Username: "frank.h",
		Password: "valid-password-123",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, auth.ChangePassword(user.ID, "wrong", "new-password-456"), ErrInvalidCredentials)
	require.NoError(t, auth.ChangePassword(user.ID, "valid-password-123", "new-password-456"))

	_, err = auth.Login("frank.h", "valid-password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login("frank.h", "new-password-456")
	assert.NoError(t, err)
}

func TestAuthService_AnonBuyerToken(t *testing.T) {
	auth, _ := newAuthService(t)

	token, err := auth.IssueAnonBuyerToken([]int{1, 2, 3})
	require.NoError(t, err)

	claims, err := auth.ParseAnonBuyerToken(token)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, claims.BookIDs)
	assert.Equal(t, "anon-buyer", claims.Subject)

	// Access tokens are not accepted where a buyer token is expected.
	user := &models.User{ID: 1, Username: "frank.h"}
	access, err := auth.IssueAccessToken(user)
	require.NoError(t, err)
	_, err = auth.ParseAnonBuyerToken(access)
	assert.Error(t, err)
}

func TestAuthService_ParseRejectsGarbage(t *testing.T) {
	auth, _ := newAuthService(t)

	_, err := auth.ParseAccessToken("not-a-token")
	assert.Error(t, err)

	other := NewAuthService(nil, "different-secret", time.Minute, time.Minute)
	token, err := other.IssueAccessToken(&models.User{ID: 1, Username: "frank.h"})
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token)
	assert.Error(t, err)
}
