package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clientapi/internal/auth"
	"clientapi/internal/http/middleware"
	"clientapi/internal/model"
	"clientapi/internal/repository/postgres"
	"clientapi/internal/service"
	serviceMocks "clientapi/internal/service/mocks"
)

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(postgres.NewClientPostgres(db)))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", Liveness())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateClient(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Post("/clients", CreateClient(mockSvc))

	t.Run("success", func(t *testing.T) {
		cfg := &model.ClientConfig{
			ClientID: "acme-corp",
			S3:       model.S3Settings{BucketName: "acme-corp-1", Region: "ap-south-1"},
			Extra:    map[string]any{"plan": "gold"},
		}
		bucket := model.BucketResult{Status: model.BucketCreated, Message: "Bucket acme-corp-1 created successfully", BucketName: "acme-corp-1", Region: "ap-south-1"}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateClientInput) bool {
			return in.ClientID == "Acme Corp" && in.AdditionalConfig["plan"] == "gold"
		})).Return(&service.CreateClientResult{Config: cfg, Bucket: bucket}, nil).Once()

		req := jsonRequest(t, http.MethodPost, "/clients", map[string]any{
			"client_id":         "Acme Corp",
			"client_name":       "Acme",
			"owner_id":          "owner-1",
			"s3_bucket_name":    "ignored",
			"additional_config": map[string]any{"plan": "gold"},
		})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "created", body["status"])
		assert.Equal(t, "Client acme-corp created successfully", body["message"])
		assert.Equal(t, "acme-corp", body["client_id"])
		config := body["config"].(map[string]any)
		assert.Equal(t, "gold", config["plan"])
		assert.Equal(t, "created", body["s3_bucket"].(map[string]any)["status"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing required fields", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/clients", map[string]any{"client_id": "acme"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "client_name is required; owner_id is required", res.Error.Message)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})

	t.Run("blank fields rejected by service", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidInput).Once()

		req := jsonRequest(t, http.MethodPost, "/clients", map[string]any{"client_id": " ", "client_name": "x", "owner_id": "y"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already exists", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("client acme: %w", service.ErrClientExists)).Once()

		req := jsonRequest(t, http.MethodPost, "/clients", map[string]any{"client_id": "ACME", "client_name": "x", "owner_id": "y"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CLIENT_EXISTS", res.Error.Code)
		assert.Equal(t, "Client acme already exists", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("store down")).Once()

		req := jsonRequest(t, http.MethodPost, "/clients", map[string]any{"client_id": "a", "client_name": "x", "owner_id": "y"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.NotContains(t, res.Error.Message, "store down")
		mockSvc.AssertExpectations(t)
	})
}

func TestListClients(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Get("/clients", ListClients(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.ClientConfig{{ClientID: "a"}, {ClientID: "b"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body ClientListResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, 2, body.Count)
		assert.Len(t, body.Clients, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients", nil))

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, []any{}, body["clients"])
		assert.Equal(t, float64(0), body["count"])
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("boom")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGetClient(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Get("/clients/:client_id", GetClient(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "acme").Return(&model.ClientConfig{ClientID: "acme", ClientName: "Acme"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients/acme", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body ClientResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, "acme", body.ClientID)
		assert.Equal(t, "Acme", body.Config.ClientName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "ghost").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients/ghost", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CLIENT_NOT_FOUND", res.Error.Code)
		assert.Equal(t, "Client ghost not found", res.Error.Message)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "acme").Return(nil, errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients/acme", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestUpdateSystemPrompt(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Put("/clients/:client_id/system-prompt", UpdateSystemPrompt(mockSvc))
	app.Post("/clients/:client_id/system-prompt", UpdateSystemPrompt(mockSvc))

	for _, method := range []string{http.MethodPut, http.MethodPost} {
		t.Run(method+" success", func(t *testing.T) {
			updated := &model.ClientConfig{ClientID: "acme", Agent: model.AgentSettings{SystemPrompt: "be brief"}}
			mockSvc.On("UpdateSystemPrompt", mock.Anything, "acme", "be brief").Return(updated, nil).Once()

			req := jsonRequest(t, method, "/clients/acme/system-prompt", map[string]any{"system_prompt": "be brief"})
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var body UpdateSystemPromptResponse
			json.NewDecoder(resp.Body).Decode(&body)
			assert.Equal(t, "updated", body.Status)
			assert.Equal(t, "System prompt updated for client acme", body.Message)
			assert.Equal(t, "be brief", body.Config.Agent.SystemPrompt)
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("empty prompt is allowed", func(t *testing.T) {
		mockSvc.On("UpdateSystemPrompt", mock.Anything, "acme", "").Return(&model.ClientConfig{ClientID: "acme"}, nil).Once()

		req := jsonRequest(t, http.MethodPut, "/clients/acme/system-prompt", map[string]any{"system_prompt": ""})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing prompt", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, "/clients/acme/system-prompt", map[string]any{})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "system_prompt is required", res.Error.Message)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("UpdateSystemPrompt", mock.Anything, "ghost", "x").Return(nil, service.ErrNotFound).Once()

		req := jsonRequest(t, http.MethodPut, "/clients/ghost/system-prompt", map[string]any{"system_prompt": "x"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestExchangeToken(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/exchange", ExchangeToken(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Exchange", mock.Anything, "google-token").Return(&service.TokenResult{
			AccessToken: "jwt",
			TokenType:   "bearer",
			ExpiresIn:   86400,
			User:        model.UserInfo{GoogleID: "1098", Email: "ana@example.com"},
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/auth/exchange", map[string]string{"id_token": "google-token"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "jwt", body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
		assert.Equal(t, float64(86400), body["expires_in"])
		assert.Equal(t, "1098", body["user"].(map[string]any)["google_id"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing id_token", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/auth/exchange", map[string]string{}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockSvc.On("Exchange", mock.Anything, "forged").Return(nil, service.ErrUnauthorized).Once()

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/auth/exchange", map[string]string{"id_token": "forged"}))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_TOKEN", res.Error.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		mockSvc.On("Exchange", mock.Anything, "t").Return(nil, service.ErrAuthUnavailable).Once()

		resp, _ := app.Test(jsonRequest(t, http.MethodPost, "/auth/exchange", map[string]string{"id_token": "t"}))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMe(t *testing.T) {
	t.Run("without claims", func(t *testing.T) {
		app := fiber.New()
		app.Get("/auth/me", Me())

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with claims", func(t *testing.T) {
		claims := &auth.Claims{Email: "ana@example.com", Type: auth.AccessTokenType}
		claims.Subject = "1098"

		app := fiber.New()
		app.Get("/auth/me", func(c *fiber.Ctx) error {
			c.Locals(middleware.ClaimsLocalKey, claims)
			return c.Next()
		}, Me())

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body MeResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "1098", body.Sub)
		assert.Equal(t, "ana@example.com", body.Email)
	})
}

func TestRegisterRoutes_RequireAuth(t *testing.T) {
	clients := new(serviceMocks.MockClientService)
	authSvc := new(serviceMocks.MockAuthService)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Dependencies{Clients: clients, Auth: authSvc, RequireAuth: true})

	t.Run("rejected without token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/clients", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
	})

	t.Run("accepted with token", func(t *testing.T) {
		claims := &auth.Claims{}
		claims.Subject = "1098"
		authSvc.On("Authenticate", mock.Anything, "Bearer good").Return(claims, nil).Once()
		clients.On("List", mock.Anything).Return([]model.ClientConfig{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		authSvc.AssertExpectations(t)
		clients.AssertExpectations(t)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})
}
