package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clientapi/internal/config"
	"clientapi/internal/model"
)

// AccessTokenType is the value of the "type" claim on every token we issue.
const AccessTokenType = "access_token"

var (
	ErrMissingToken  = errors.New("missing authentication token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims are the JWT claims of a service access token.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HMAC-signed access tokens.
type JWTManager struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds a JWTManager from cfg. Only the HMAC family (HS256/384/512) is accepted.
func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing method: %s", cfg.JWTAlgorithm)
	}
	if cfg.JWTExpirationMins <= 0 {
		return nil, fmt.Errorf("jwt expiration must be positive, got %d minutes", cfg.JWTExpirationMins)
	}

	return &JWTManager{
		secret: []byte(cfg.JWTSecretKey),
		method: method,
		issuer: cfg.JWTIssuer,
		ttl:    time.Duration(cfg.JWTExpirationMins) * time.Minute,
		now:    time.Now,
	}, nil
}

// ExpiresIn returns the token lifetime in seconds.
func (m *JWTManager) ExpiresIn() int {
	return int(m.ttl / time.Second)
}

// Issue signs an access token for user.
func (m *JWTManager) Issue(user model.UserInfo) (string, error) {
	if user.GoogleID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	now := m.now()
	claims := Claims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
		Type:    AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.GoogleID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// Validate parses and verifies a token. A leading bearer scheme, in any case, is tolerated.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	tokenString = stripBearer(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Type != AccessTokenType {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidClaims, claims.Type)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	return claims, nil
}

// stripBearer removes an optional "Bearer" auth scheme. Schemes are
// case-insensitive (RFC 9110), so "bearer" and "BEARER" are accepted too.
func stripBearer(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, ok := strings.Cut(header, " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}
