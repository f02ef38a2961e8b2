package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clientapi/internal/logger"
	"clientapi/internal/model"
	"clientapi/internal/service"
)

// CreateClient godoc
// @Summary      Create a client
// @Description  Normalises the client id, provisions the client's S3 bucket and stores its configuration.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      CreateClientRequest  true  "New client"
// @Success      201   {object}  CreateClientResponse
// @Failure      400   {object}  errorPayload
// @Failure      409   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /clients [post]
func CreateClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateClientRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		res, err := svc.Create(c.UserContext(), req.toInput())
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidInput):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", service.ErrInvalidInput.Error())
			case errors.Is(err, service.ErrClientExists):
				id := service.NormalizeClientID(req.ClientID)
				return writeError(c, fiber.StatusConflict, "CLIENT_EXISTS", fmt.Sprintf("Client %s already exists", id))
			default:
				logger.Error(c.UserContext(), "create client failed", zap.Error(err))
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(CreateClientResponse{
			Status:   "created",
			Message:  fmt.Sprintf("Client %s created successfully", res.Config.ClientID),
			ClientID: res.Config.ClientID,
			Config:   res.Config,
			S3Bucket: res.Bucket,
		})
	}
}

// ListClients godoc
// @Summary  List clients
// @Tags     clients
// @Produce  json
// @Success  200  {object}  ClientListResponse
// @Failure  500  {object}  errorPayload
// @Router   /clients [get]
func ListClients(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			logger.Error(c.UserContext(), "list clients failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if items == nil {
			items = []model.ClientConfig{}
		}
		return c.JSON(ClientListResponse{
			Status:  "success",
			Count:   len(items),
			Clients: items,
		})
	}
}

// GetClient godoc
// @Summary  Get a client configuration
// @Tags     clients
// @Produce  json
// @Param    client_id  path      string  true  "Client ID"
// @Success  200        {object}  ClientResponse
// @Failure  404        {object}  errorPayload
// @Failure  500        {object}  errorPayload
// @Router   /clients/{client_id} [get]
func GetClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("client_id")
		cfg, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return clientError(c, id, "get client failed", err)
		}
		return c.JSON(ClientResponse{
			Status:   "success",
			ClientID: cfg.ClientID,
			Config:   cfg,
		})
	}
}

// UpdateSystemPrompt godoc
// @Summary  Update a client's agent system prompt
// @Tags     clients
// @Accept   json
// @Produce  json
// @Param    client_id  path      string                     true  "Client ID"
// @Param    body       body      UpdateSystemPromptRequest  true  "New prompt"
// @Success  200        {object}  UpdateSystemPromptResponse
// @Failure  400        {object}  errorPayload
// @Failure  404        {object}  errorPayload
// @Failure  500        {object}  errorPayload
// @Router   /clients/{client_id}/system-prompt [put]
// @Router   /clients/{client_id}/system-prompt [post]
func UpdateSystemPrompt(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("client_id")

		var req UpdateSystemPromptRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		cfg, err := svc.UpdateSystemPrompt(c.UserContext(), id, *req.SystemPrompt)
		if err != nil {
			return clientError(c, id, "update system prompt failed", err)
		}
		return c.JSON(UpdateSystemPromptResponse{
			Status:   "updated",
			Message:  fmt.Sprintf("System prompt updated for client %s", cfg.ClientID),
			ClientID: cfg.ClientID,
			Config:   cfg,
		})
	}
}

func clientError(c *fiber.Ctx, id, msg string, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "client_id is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "CLIENT_NOT_FOUND", fmt.Sprintf("Client %s not found", service.NormalizeClientID(id)))
	default:
		logger.Error(c.UserContext(), msg, zap.String("client_id", id), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
