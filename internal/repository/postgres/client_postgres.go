package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"clientapi/internal/model"
	"clientapi/internal/repository"
)

// uniqueViolation is the SQLSTATE raised on a primary key conflict.
const uniqueViolation = "23505"

// ClientPostgres is a PostgreSQL implementation of repository.ClientRepository.
// Each client is one row whose document column holds the full configuration as JSONB.
type ClientPostgres struct {
	db *sql.DB
}

// NewClientPostgres creates a new ClientPostgres repository.
func NewClientPostgres(db *sql.DB) *ClientPostgres {
	return &ClientPostgres{db: db}
}

var _ repository.ClientRepository = (*ClientPostgres)(nil)

// Create inserts a new client row.
func (r *ClientPostgres) Create(ctx context.Context, cfg *model.ClientConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode client document: %w", err)
	}

	const q = `
		INSERT INTO client_configs (client_id, owner_id, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, q, cfg.ClientID, cfg.OwnerID, doc, cfg.CreatedAt.Time, cfg.UpdatedAt.Time)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID fetches a single client document.
func (r *ClientPostgres) FindByID(ctx context.Context, clientID string) (*model.ClientConfig, error) {
	const q = `SELECT document FROM client_configs WHERE client_id = $1`

	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, clientID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decode(raw)
}

// List returns all client documents, oldest first.
func (r *ClientPostgres) List(ctx context.Context) ([]model.ClientConfig, error) {
	const q = `
		SELECT document
		FROM client_configs
		ORDER BY created_at ASC, client_id ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClientConfig, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		cfg, err := decode(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSystemPrompt patches agent.system_prompt and updated_at inside the document.
func (r *ClientPostgres) UpdateSystemPrompt(ctx context.Context, clientID, prompt string, at time.Time) (*model.ClientConfig, error) {
	const q = `
		UPDATE client_configs
		SET document = jsonb_set(
				jsonb_set(document, '{agent,system_prompt}', to_jsonb($2::text), true),
				'{updated_at}', to_jsonb($3::text), true),
			updated_at = $4
		WHERE client_id = $1
		RETURNING document
	`
	var raw []byte
	err := r.db.QueryRowContext(ctx, q, clientID, prompt, at.Format(time.RFC3339Nano), at).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decode(raw)
}

// Ping checks database connectivity.
func (r *ClientPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func decode(raw []byte) (*model.ClientConfig, error) {
	var cfg model.ClientConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode client document: %w", err)
	}
	return &cfg, nil
}
