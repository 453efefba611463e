package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdepot/internal/config"
	"partsdepot/internal/core/domain"
	"partsdepot/internal/pkg/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "access-secret-for-tests",
			RefreshSecret:    "refresh-secret-for-tests",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Order: config.OrderConfig{
			TaxRateBasisPoints: 1500,
		},
	}
}

func newAuthFixture() (*AuthService, *memUserRepo, *memRefreshTokenRepo) {
	users := newMemUserRepo()
	tokens := newMemRefreshTokenRepo()
	svc := NewAuthService(users, tokens, NewNotificationService(), testConfig())
	return svc, users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "Buyer@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", reg.User.Email)
	assert.Equal(t, string(domain.RoleUser), reg.User.Role)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)

	// Login with a differently-cased address resolves the same account.
	login, err := svc.Login(ctx, &LoginInput{Email: "buyer@EXAMPLE.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{Email: "buyer@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// Unknown address and wrong password are indistinguishable.
	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Email: "buyer@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, users.SetActive(ctx, 1, false))
	_, err = svc.Login(ctx, &LoginInput{Email: "buyer@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// The old token is single-use: presenting it again fails even
	// though its signature is still valid.
	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works.
	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshTokenGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenInactiveUser(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, users.SetActive(ctx, reg.User.ID, false))

	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))

	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// A second login opens a second session; both stay live.
	_, err = svc.Login(ctx, &LoginInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, 2, tokens.liveCount(reg.User.ID))

	require.NoError(t, svc.LogoutAll(ctx, reg.User.ID))
	assert.Equal(t, 0, tokens.liveCount(reg.User.ID))
}

func TestVerifyEmail(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	cfg := testConfig()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	token, err := jwt.GenerateScopedToken(reg.User.ID, domain.TokenPurposeEmailVerify, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, token))

	user, err := users.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestVerifyEmailRejectsResetToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	cfg := testConfig()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// A password-reset token must not verify an email address even
	// though it is signed with the same key.
	token, err := jwt.GenerateScopedToken(reg.User.ID, domain.TokenPurposePasswordReset, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	err = svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequestPasswordResetIsUniform(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// Known and unknown addresses both report success.
	assert.NoError(t, svc.RequestPasswordReset(ctx, "buyer@example.com"))
	assert.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()
	cfg := testConfig()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	resetToken, err := jwt.GenerateScopedToken(reg.User.ID, domain.TokenPurposePasswordReset, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "brand-new-pass"))
	assert.Equal(t, 0, tokens.liveCount(reg.User.ID))

	_, err = svc.Login(ctx, &LoginInput{Email: "buyer@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Email: "buyer@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	cfg := testConfig()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	expired, err := jwt.GenerateScopedToken(reg.User.ID, domain.TokenPurposePasswordReset, cfg.JWT.Secret, -time.Minute)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, expired, "brand-new-pass")
	assert.ErrorIs(t, err, ErrTokenExpired)
}
