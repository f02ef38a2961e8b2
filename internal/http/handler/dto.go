package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"clientapi/internal/model"
	"clientapi/internal/service"
)

// CreateClientRequest is the body of POST /clients.
type CreateClientRequest struct {
	ClientID            string `json:"client_id" validate:"required"`
	ClientName          string `json:"client_name" validate:"required"`
	OwnerID             string `json:"owner_id" validate:"required"`
	SystemPrompt        string `json:"system_prompt,omitempty"`
	MongoDBDatabaseName string `json:"mongodb_database_name,omitempty"`
	// S3BucketName is accepted for compatibility and ignored; bucket names are always generated.
	S3BucketName     string           `json:"s3_bucket_name,omitempty"`
	S3Region         string           `json:"s3_region,omitempty"`
	OpenAIAPIKey     string           `json:"openai_api_key,omitempty"`
	Tools            []map[string]any `json:"tools,omitempty"`
	AdditionalConfig map[string]any   `json:"additional_config,omitempty"`
}

func (r CreateClientRequest) toInput() service.CreateClientInput {
	return service.CreateClientInput{
		ClientID:            r.ClientID,
		ClientName:          r.ClientName,
		OwnerID:             r.OwnerID,
		SystemPrompt:        r.SystemPrompt,
		MongoDBDatabaseName: r.MongoDBDatabaseName,
		S3Region:            r.S3Region,
		OpenAIAPIKey:        r.OpenAIAPIKey,
		Tools:               r.Tools,
		AdditionalConfig:    r.AdditionalConfig,
	}
}

// UpdateSystemPromptRequest is the body of PUT|POST /clients/{client_id}/system-prompt.
// An empty prompt is allowed; a missing one is not.
type UpdateSystemPromptRequest struct {
	SystemPrompt *string `json:"system_prompt" validate:"required"`
}

// ExchangeTokenRequest is the body of POST /auth/exchange.
type ExchangeTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// CreateClientResponse is returned by POST /clients.
type CreateClientResponse struct {
	Status   string              `json:"status"`
	Message  string              `json:"message"`
	ClientID string              `json:"client_id"`
	Config   *model.ClientConfig `json:"config"`
	S3Bucket model.BucketResult  `json:"s3_bucket"`
}

// ClientListResponse is returned by GET /clients.
type ClientListResponse struct {
	Status  string               `json:"status"`
	Count   int                  `json:"count"`
	Clients []model.ClientConfig `json:"clients"`
}

// ClientResponse is returned by GET /clients/{client_id}.
type ClientResponse struct {
	Status   string              `json:"status"`
	ClientID string              `json:"client_id"`
	Config   *model.ClientConfig `json:"config"`
}

// UpdateSystemPromptResponse is returned by the system prompt endpoints.
type UpdateSystemPromptResponse struct {
	Status   string              `json:"status"`
	Message  string              `json:"message"`
	ClientID string              `json:"client_id"`
	Config   *model.ClientConfig `json:"config"`
}

// MeResponse describes the caller of GET /auth/me.
type MeResponse struct {
	Sub       string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns validator errors into one safe, human-readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
