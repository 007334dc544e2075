package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, exp, err := iss.Issue("u1", "ada@example.com", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestIssuer_Rejects(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Minute)
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		_, err := iss.Parse("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewIssuer("another-secret", time.Minute)
		require.NoError(t, err)
		token, _, err := other.Issue("u1", "a@b.c", false)
		require.NoError(t, err)

		_, err = iss.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		old := &Issuer{key: []byte("test-secret"), ttl: time.Minute, now: func() time.Time { return past }}
		token, _, err := old.Issue("u1", "a@b.c", false)
		require.NoError(t, err)

		_, err = iss.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = iss.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, CheckPassword("", "anything"), ErrPasswordMismatch)
}
