package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientapi/internal/config"
	"clientapi/internal/model"
)

func newTestManager(t *testing.T, issuer string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(config.AuthConfig{
		JWTSecretKey:      "test-secret",
		JWTAlgorithm:      "HS256",
		JWTExpirationMins: 60,
		JWTIssuer:         issuer,
	})
	require.NoError(t, err)
	return m
}

var testUser = model.UserInfo{
	GoogleID: "1098",
	Email:    "ana@example.com",
	Name:     "Ana",
	Picture:  "https://example.com/a.png",
}

func TestNewJWTManager_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantErr string
	}{
		{"missing secret", config.AuthConfig{JWTAlgorithm: "HS256", JWTExpirationMins: 1}, "secret key is required"},
		{"asymmetric alg", config.AuthConfig{JWTSecretKey: "s", JWTAlgorithm: "RS256", JWTExpirationMins: 1}, "unsupported signing method"},
		{"unknown alg", config.AuthConfig{JWTSecretKey: "s", JWTAlgorithm: "none", JWTExpirationMins: 1}, "unsupported signing method"},
		{"zero ttl", config.AuthConfig{JWTSecretKey: "s", JWTAlgorithm: "HS512"}, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTManager(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestJWTManager_IssueAndValidate(t *testing.T) {
	m := newTestManager(t, "clientapi")
	assert.Equal(t, 3600, m.ExpiresIn())

	token, err := m.Issue(testUser)
	require.NoError(t, err)

	claims, err := m.Validate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "1098", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, AccessTokenType, claims.Type)
	assert.Equal(t, "clientapi", claims.Issuer)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestJWTManager_Validate_SchemeIsCaseInsensitive(t *testing.T) {
	m := newTestManager(t, "")
	token, err := m.Issue(testUser)
	require.NoError(t, err)

	for _, header := range []string{
		token,
		"Bearer " + token,
		"bearer " + token,
		"BEARER  " + token,
		"  Bearer " + token + " ",
	} {
		claims, err := m.Validate(header)
		if assert.NoError(t, err, header) {
			assert.Equal(t, "1098", claims.Subject)
		}
	}

	_, err = m.Validate("bearer")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = m.Validate("Basic " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_IssueRequiresSubject(t *testing.T) {
	m := newTestManager(t, "")
	_, err := m.Issue(model.UserInfo{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTManager_Validate_Failures(t *testing.T) {
	m := newTestManager(t, "")

	t.Run("empty", func(t *testing.T) {
		_, err := m.Validate("Bearer ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := m.Issue(testUser)
		m.now = time.Now
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTManager(config.AuthConfig{JWTSecretKey: "other", JWTAlgorithm: "HS256", JWTExpirationMins: 5})
		require.NoError(t, err)
		token, err := other.Issue(testUser)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		other, err := NewJWTManager(config.AuthConfig{JWTSecretKey: "test-secret", JWTAlgorithm: "HS512", JWTExpirationMins: 5})
		require.NoError(t, err)
		token, err := other.Issue(testUser)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong type", func(t *testing.T) {
		now := time.Now()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Type: "refresh_token",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1098",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		strict := newTestManager(t, "clientapi")
		token, err := m.Issue(testUser)
		require.NoError(t, err)

		_, err = strict.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
