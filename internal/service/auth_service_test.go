package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("admin", string(hash), "test-secret")
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newAuthServiceForTest(t, "s3cret")

	resp, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthServiceForTest(t, "s3cret")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongUsername(t *testing.T) {
	svc := newAuthServiceForTest(t, "s3cret")

	_, err := svc.Login("root", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthServiceForTest(t, "s3cret")

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := newAuthServiceForTest(t, "s3cret")
	resp, err := issuer.Login("admin", "s3cret")
	require.NoError(t, err)

	verifier := NewAuthService("admin", "", "another-secret")
	_, err = verifier.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
