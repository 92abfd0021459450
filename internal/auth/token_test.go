package auth

import (
	"testing"
	"time"

	"mini-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	u := &models.User{ID: 42, Email: "alice@dev.com", Role: models.RoleUser}

	token, err := signToken(u, tokenSecret, time.Hour)
	require.NoError(t, err)

	claims, err := parseToken(token, tokenSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@dev.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestTokenExpired(t *testing.T) {
	u := &models.User{ID: 1, Email: "a@b.com", Role: models.RoleUser}

	token, err := signToken(u, tokenSecret, -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(token, tokenSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	u := &models.User{ID: 1, Email: "a@b.com", Role: models.RoleUser}

	token, err := signToken(u, tokenSecret, time.Hour)
	require.NoError(t, err)

	_, err = parseToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	_, err := parseToken("not-a-token", tokenSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
