package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/pkg/password"
)

func newUserFixture(t *testing.T) (*UserService, *memUserRepo, *memRefreshTokenRepo) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemRefreshTokenRepo()
	return NewUserService(users, tokens), users, tokens
}

func seedUser(t *testing.T, users *memUserRepo, email, role, pass string) uint {
	t.Helper()
	hashed, err := password.Hash(pass)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: hashed, Role: role, IsActive: true}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func liveSession(userID uint) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		TokenHash: "session-hash",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

func TestUpdateUserByAdmin(t *testing.T) {
	svc, users, tokens := newUserFixture(t)
	ctx := context.Background()

	adminID := seedUser(t, users, "admin@example.com", "admin", "admin-pass-1")
	targetID := seedUser(t, users, "buyer@example.com", "user", "buyer-pass-1")

	promoted := "admin"
	updated, err := svc.UpdateUserByAdmin(ctx, adminID, targetID, &UpdateUserByAdminInput{Role: &promoted})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)

	bogus := "superuser"
	_, err = svc.UpdateUserByAdmin(ctx, adminID, targetID, &UpdateUserByAdminInput{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)

	// Deactivation revokes every live session.
	require.NoError(t, tokens.Create(ctx, liveSession(targetID)))
	inactive := false
	updated, err = svc.UpdateUserByAdmin(ctx, adminID, targetID, &UpdateUserByAdminInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 0, tokens.liveCount(targetID))
}

func TestUpdateUserByAdminSelfProtection(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	ctx := context.Background()

	adminID := seedUser(t, users, "admin@example.com", "admin", "admin-pass-1")

	demoted := "user"
	_, err := svc.UpdateUserByAdmin(ctx, adminID, adminID, &UpdateUserByAdminInput{Role: &demoted})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)

	inactive := false
	_, err = svc.UpdateUserByAdmin(ctx, adminID, adminID, &UpdateUserByAdminInput{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrCannotDisableSelf)
}

func TestChangePassword(t *testing.T) {
	svc, users, tokens := newUserFixture(t)
	ctx := context.Background()

	userID := seedUser(t, users, "buyer@example.com", "user", "old-password")
	require.NoError(t, tokens.Create(ctx, liveSession(userID)))

	err := svc.ChangePassword(ctx, userID, &ChangePasswordInput{
		OldPassword: "wrong-password",
		NewPassword: "new-password-1",
	})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(ctx, userID, &ChangePasswordInput{
		OldPassword: "old-password",
		NewPassword: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(ctx, userID, &ChangePasswordInput{
		OldPassword: "old-password",
		NewPassword: "new-password-1",
	})
	require.NoError(t, err)

	user, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, password.Verify("new-password-1", user.Password))
	assert.Equal(t, 0, tokens.liveCount(userID))
}
