package handler

import (
	"github.com/gofiber/fiber/v2"

	"clientapi/internal/http/middleware"
	"clientapi/internal/service"
)

// Dependencies are the collaborators the HTTP layer is wired with.
type Dependencies struct {
	Clients service.ClientService
	Auth    service.AuthService
	Store   Pinger
	// RequireAuth protects the /clients routes with a bearer JWT.
	RequireAuth bool
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parsing, validation and error mapping only.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.Store))
	app.Get("/healthz", Liveness())

	authGroup := app.Group("/auth")
	authGroup.Post("/exchange", ExchangeToken(deps.Auth))
	authGroup.Get("/me", middleware.RequireAuth(deps.Auth), Me())

	clients := app.Group("/clients")
	if deps.RequireAuth {
		clients.Use(middleware.RequireAuth(deps.Auth))
	}
	clients.Post("/", CreateClient(deps.Clients))
	clients.Get("/", ListClients(deps.Clients))
	clients.Get("/:client_id", GetClient(deps.Clients))
	clients.Put("/:client_id/system-prompt", UpdateSystemPrompt(deps.Clients))
	clients.Post("/:client_id/system-prompt", UpdateSystemPrompt(deps.Clients))
}
