package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"clientapi/internal/model"
)

var (
	// ErrNotConfigured is returned when GOOGLE_CLIENT_ID is not set.
	ErrNotConfigured = errors.New("google client id not configured")
	// ErrInvalidIDToken is returned for tokens failing signature, audience, issuer or expiry checks.
	ErrInvalidIDToken = errors.New("invalid google id token")
)

var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// Verifier turns an external identity token into a verified user.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (model.UserInfo, error)
}

type tokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier validates Google ID tokens (as handed out by NextAuth.js) against Google's public certs.
type GoogleVerifier struct {
	clientID  string
	validator tokenValidator
}

// NewGoogleVerifier creates a verifier for tokens issued to clientID.
// With an empty clientID every call fails with ErrNotConfigured.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return &GoogleVerifier{}, nil
	}
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create google token validator: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, validator: v}, nil
}

var _ Verifier = (*GoogleVerifier)(nil)

// Verify checks the token and extracts the user profile claims.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (model.UserInfo, error) {
	if g.clientID == "" || g.validator == nil {
		return model.UserInfo{}, ErrNotConfigured
	}
	payload, err := g.validator.Validate(ctx, idToken, g.clientID)
	if err != nil {
		return model.UserInfo{}, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return userFromPayload(payload)
}

func userFromPayload(p *idtoken.Payload) (model.UserInfo, error) {
	if _, ok := googleIssuers[p.Issuer]; !ok {
		return model.UserInfo{}, fmt.Errorf("%w: wrong issuer %q", ErrInvalidIDToken, p.Issuer)
	}
	if p.Subject == "" {
		return model.UserInfo{}, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	return model.UserInfo{
		GoogleID:      p.Subject,
		Email:         claimString(p.Claims, "email"),
		Name:          claimString(p.Claims, "name"),
		Picture:       claimString(p.Claims, "picture"),
		EmailVerified: claimBool(p.Claims, "email_verified"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// claimBool accepts both JSON booleans and the "true"/"false" strings some issuers emit.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
