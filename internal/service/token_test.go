package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-characters"

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager(testSecret, "portfolio-auth", "skills-admin")
	owner := uuid.New()

	token, err := tm.IssueAccess(owner, time.Hour)
	require.NoError(t, err)

	got, err := tm.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(testSecret, "portfolio-auth", "skills-admin")
	owner := uuid.New()

	expired, err := tm.IssueAccess(owner, -time.Minute)
	require.NoError(t, err)
	_, err = tm.ParseAccess(expired)
	assert.Error(t, err)

	foreign, err := NewTokenManager("another-secret-with-32-characters!!", "portfolio-auth", "skills-admin").IssueAccess(owner, time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseAccess(foreign)
	assert.Error(t, err)

	wrongIssuer, err := NewTokenManager(testSecret, "someone-else", "skills-admin").IssueAccess(owner, time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseAccess(wrongIssuer)
	assert.Error(t, err)

	wrongAudience, err := NewTokenManager(testSecret, "portfolio-auth", "billing").IssueAccess(owner, time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseAccess(wrongAudience)
	assert.Error(t, err)

	_, err = tm.ParseAccess("not-a-token")
	assert.Error(t, err)
}

func TestTokenManager_RejectsBadSubjectAndMethod(t *testing.T) {
	tm := NewTokenManager(testSecret, "", "")

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tm.ParseAccess(signed)
	assert.Error(t, err)

	claims.Subject = uuid.NewString()
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tm.ParseAccess(hs512)
	assert.Error(t, err)

	claims.ExpiresAt = nil
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tm.ParseAccess(noExp)
	assert.Error(t, err)
}

func TestTokenManager_EmptySecret(t *testing.T) {
	tm := NewTokenManager("", "", "")
	_, err := tm.IssueAccess(uuid.New(), time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
	_, err = tm.ParseAccess("x.y.z")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
