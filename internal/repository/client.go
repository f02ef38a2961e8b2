package repository

import (
	"context"
	"errors"
	"time"

	"clientapi/internal/model"
)

// Repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, mongo) inside this directory.

var (
	// ErrNotFound is returned when no client matches the given id.
	ErrNotFound = errors.New("client not found")
	// ErrDuplicate is returned when a client with the same id is already stored.
	ErrDuplicate = errors.New("client already exists")
)

// ClientRepository defines persistence for client configuration documents.
// No business logic here, strictly persistence operations.
type ClientRepository interface {
	// Create stores a new client document. Returns ErrDuplicate if the id is taken.
	Create(ctx context.Context, cfg *model.ClientConfig) error

	// FindByID returns a client document by its id or ErrNotFound.
	FindByID(ctx context.Context, clientID string) (*model.ClientConfig, error)

	// List returns every stored client document.
	List(ctx context.Context) ([]model.ClientConfig, error)

	// UpdateSystemPrompt replaces agent.system_prompt, bumps updated_at and
	// returns the updated document, or ErrNotFound.
	UpdateSystemPrompt(ctx context.Context, clientID, prompt string, at time.Time) (*model.ClientConfig, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
