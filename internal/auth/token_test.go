package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silant-backend/internal/model"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret-1234567890", "silant", time.Hour)
	u := &model.User{ID: 7, Username: "svc1", Role: model.RoleService}

	signed, expiresAt, err := tokens.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "svc1", claims.Username)
	assert.Equal(t, "service", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokens_Rejects(t *testing.T) {
	u := &model.User{ID: 7, Username: "svc1", Role: model.RoleService}
	issuer := NewTokens("test-secret-1234567890", "silant", time.Hour)
	signed, _, err := issuer.Issue(u)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokens("another-secret-098765", "silant", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokens("test-secret-1234567890", "other", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokens("test-secret-1234567890", "silant", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "silant",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(unsigned)
		assert.Error(t, err)
	})
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}
