package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clientapi/internal/http/middleware"
	"clientapi/internal/logger"
	"clientapi/internal/service"
)

// ExchangeToken godoc
// @Summary      Exchange a Google ID token for an access token
// @Description  Verifies the Google ID token against GOOGLE_CLIENT_ID and issues a service JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ExchangeTokenRequest  true  "Google ID token"
// @Success      200   {object}  service.TokenResult
// @Failure      400   {object}  errorPayload
// @Failure      401   {object}  errorPayload
// @Failure      503   {object}  errorPayload
// @Router       /auth/exchange [post]
func ExchangeToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ExchangeTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		res, err := svc.Exchange(c.UserContext(), req.IDToken)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAuthUnavailable):
				return writeError(c, fiber.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Google authentication not configured")
			case errors.Is(err, service.ErrUnauthorized):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "invalid Google ID token")
			default:
				logger.Error(c.UserContext(), "token exchange failed", zap.Error(err))
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(res)
	}
}

// Me godoc
// @Summary   Describe the authenticated caller
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  MeResponse
// @Failure   401  {object}  errorPayload
// @Router    /auth/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFromCtx(c)
		if claims == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing, invalid or expired token")
		}
		res := MeResponse{
			Sub:     claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		}
		if claims.ExpiresAt != nil {
			res.ExpiresAt = claims.ExpiresAt.Unix()
		}
		return c.JSON(res)
	}
}
