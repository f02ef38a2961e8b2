// Package docs carries the Swagger 2.0 document served under /swagger.
//
// The layout follows swag's output so gofiber/swagger can serve it, but the
// document is maintained by hand. docs_test.go fails when a definition drifts
// from the JSON tags of the type it describes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/exchange": {
            "post": {
                "description": "Verifies the Google ID token against GOOGLE_CLIENT_ID and issues a service JWT.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange a Google ID token for an access token",
                "parameters": [
                    {
                        "description": "Google ID token",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.ExchangeTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TokenResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Describe the authenticated caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/clients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "List clients",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ClientListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "description": "Normalises the client id, provisions the client's S3 bucket and stores its configuration.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Create a client",
                "parameters": [
                    {
                        "description": "New client",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.CreateClientRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.CreateClientResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/clients/{client_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Get a client configuration",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ClientResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/clients/{client_id}/system-prompt": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Update a client's agent system prompt",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {
                        "description": "New prompt",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.UpdateSystemPromptRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UpdateSystemPromptResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["clients"],
                "summary": "Update a client's agent system prompt",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "client_id", "in": "path", "required": true},
                    {
                        "description": "New prompt",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.UpdateSystemPromptRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UpdateSystemPromptResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check (pings the client store)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.ClientListResponse": {
            "type": "object",
            "properties": {
                "clients": {"type": "array", "items": {"$ref": "#/definitions/model.ClientConfig"}},
                "count": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "handler.ClientResponse": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "config": {"$ref": "#/definitions/model.ClientConfig"},
                "status": {"type": "string"}
            }
        },
        "handler.CreateClientRequest": {
            "type": "object",
            "required": ["client_id", "client_name", "owner_id"],
            "properties": {
                "additional_config": {"type": "object", "additionalProperties": true},
                "client_id": {"type": "string"},
                "client_name": {"type": "string"},
                "mongodb_database_name": {"type": "string"},
                "openai_api_key": {"type": "string"},
                "owner_id": {"type": "string"},
                "s3_bucket_name": {"description": "S3BucketName is accepted for compatibility and ignored; bucket names are always generated.", "type": "string"},
                "s3_region": {"type": "string"},
                "system_prompt": {"type": "string"},
                "tools": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "handler.CreateClientResponse": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "config": {"$ref": "#/definitions/model.ClientConfig"},
                "message": {"type": "string"},
                "s3_bucket": {"$ref": "#/definitions/model.BucketResult"},
                "status": {"type": "string"}
            }
        },
        "handler.ExchangeTokenRequest": {
            "type": "object",
            "required": ["id_token"],
            "properties": {"id_token": {"type": "string"}}
        },
        "handler.MeResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "exp": {"type": "integer"},
                "name": {"type": "string"},
                "picture": {"type": "string"},
                "sub": {"type": "string"}
            }
        },
        "handler.UpdateSystemPromptRequest": {
            "type": "object",
            "required": ["system_prompt"],
            "properties": {"system_prompt": {"type": "string"}}
        },
        "handler.UpdateSystemPromptResponse": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "config": {"$ref": "#/definitions/model.ClientConfig"},
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.AgentSettings": {
            "type": "object",
            "properties": {
                "llm_config": {"$ref": "#/definitions/model.LLMConfig"},
                "system_prompt": {"type": "string"},
                "tools": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "model.BucketResult": {
            "type": "object",
            "properties": {
                "bucket_name": {"type": "string"},
                "error_code": {"type": "string"},
                "message": {"type": "string"},
                "region": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.ClientConfig": {
            "type": "object",
            "additionalProperties": true,
            "properties": {
                "agent": {"$ref": "#/definitions/model.AgentSettings"},
                "client_id": {"type": "string"},
                "client_name": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "mongodb": {"$ref": "#/definitions/model.MongoDBSettings"},
                "openai": {"$ref": "#/definitions/model.OpenAISettings"},
                "owner_id": {"type": "string"},
                "postprocessor": {"$ref": "#/definitions/model.ServiceEndpoint"},
                "preprocessor": {"$ref": "#/definitions/model.ServiceEndpoint"},
                "s3": {"$ref": "#/definitions/model.S3Settings"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "model.LLMConfig": {
            "type": "object",
            "properties": {
                "model": {"type": "string"},
                "temperature": {"type": "number"}
            }
        },
        "model.MongoDBSettings": {
            "type": "object",
            "properties": {"database_name": {"type": "string"}}
        },
        "model.OpenAISettings": {
            "type": "object",
            "properties": {"api_key": {"type": "string"}}
        },
        "model.S3Settings": {
            "type": "object",
            "properties": {
                "bucket_name": {"type": "string"},
                "region": {"type": "string"}
            }
        },
        "model.ServiceEndpoint": {
            "type": "object",
            "properties": {"url": {"type": "string"}}
        },
        "model.UserInfo": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "email_verified": {"type": "boolean"},
                "google_id": {"type": "string"},
                "name": {"type": "string"},
                "picture": {"type": "string"}
            }
        },
        "service.TokenResult": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/model.UserInfo"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Client Management API",
	Description:      "Creates and manages tenant clients: configuration documents, per-client S3 buckets and agent prompts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
