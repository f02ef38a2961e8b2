package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clientapi/internal/auth"
	"clientapi/internal/logger"
	"clientapi/internal/metrics"
	"clientapi/internal/model"
)

var (
	ErrAuthUnavailable = errors.New("authentication not configured")
	ErrUnauthorized    = errors.New("unauthorized")
)

// TokenType is reported to clients alongside every issued access token.
const TokenType = "bearer"

// TokenIssuer issues and validates service access tokens.
type TokenIssuer interface {
	Issue(user model.UserInfo) (string, error)
	Validate(token string) (*auth.Claims, error)
	ExpiresIn() int
}

// TokenResult is the outcome of a successful token exchange.
type TokenResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
	User        model.UserInfo `json:"user"`
}

// AuthService exchanges external identity tokens for service tokens.
type AuthService interface {
	// Exchange verifies a Google ID token and issues an access token for its subject.
	Exchange(ctx context.Context, idToken string) (*TokenResult, error)

	// Authenticate validates a service access token.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	verifier auth.Verifier
	tokens   TokenIssuer
	metrics  metrics.Recorder
}

// NewAuthService constructs a new AuthService. A nil recorder disables domain metrics.
func NewAuthService(v auth.Verifier, tokens TokenIssuer, rec metrics.Recorder) AuthService {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &authService{verifier: v, tokens: tokens, metrics: rec}
}

func (s *authService) Exchange(ctx context.Context, idToken string) (*TokenResult, error) {
	if strings.TrimSpace(idToken) == "" {
		s.metrics.TokenExchanged("invalid")
		return nil, fmt.Errorf("%w: id_token is required", ErrUnauthorized)
	}

	user, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotConfigured):
			s.metrics.TokenExchanged("unavailable")
			logger.Error(ctx, "token exchange attempted without GOOGLE_CLIENT_ID")
			return nil, ErrAuthUnavailable
		case errors.Is(err, auth.ErrInvalidIDToken):
			s.metrics.TokenExchanged("invalid")
			logger.Warn(ctx, "google id token rejected", zap.Error(err))
			return nil, fmt.Errorf("%w: invalid Google ID token", ErrUnauthorized)
		default:
			s.metrics.TokenExchanged("error")
			return nil, fmt.Errorf("verify google token: %w", err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.metrics.TokenExchanged("error")
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	s.metrics.TokenExchanged("success")
	logger.Info(ctx, "access token issued", zap.String("sub", user.GoogleID))
	return &TokenResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   s.tokens.ExpiresIn(),
		User:        user,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		logger.Debug(ctx, "access token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}
