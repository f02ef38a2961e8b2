package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientapi/internal/model"
	"clientapi/internal/repository"
)

func sampleConfig(id string) *model.ClientConfig {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.ClientConfig{
		ClientID:   id,
		ClientName: "Acme",
		OwnerID:    "owner-1",
		CreatedAt:  model.NewTimestamp(now),
		UpdatedAt:  model.NewTimestamp(now),
		MongoDB:    model.MongoDBSettings{DatabaseName: "ACME"},
		S3:         model.S3Settings{BucketName: id + "-uuid", Region: "ap-south-1"},
		Agent: model.AgentSettings{
			LLMConfig: model.LLMConfig{Model: "m", Temperature: 0.1},
			Tools:     []map[string]any{},
		},
	}
}

func documentOf(t *testing.T, cfg *model.ClientConfig) []byte {
	t.Helper()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	return b
}

func TestClientPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientPostgres(db)
	ctx := context.Background()
	cfg := sampleConfig("acme")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO client_configs").
			WithArgs(cfg.ClientID, cfg.OwnerID, sqlmock.AnyArg(), cfg.CreatedAt.Time, cfg.UpdatedAt.Time).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, cfg))
	})

	t.Run("duplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO client_configs").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, cfg)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("other error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO client_configs").
			WillReturnError(errors.New("conn reset"))

		err := repo.Create(ctx, cfg)
		assert.EqualError(t, err, "conn reset")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		cfg := sampleConfig("acme")
		mock.ExpectQuery("SELECT document FROM client_configs WHERE client_id = \\$1").
			WithArgs("acme").
			WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(documentOf(t, cfg)))

		got, err := repo.FindByID(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", got.ClientID)
		assert.Equal(t, "ACME", got.MongoDB.DatabaseName)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT document FROM client_configs").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"document"}))

		got, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("corrupt document", func(t *testing.T) {
		mock.ExpectQuery("SELECT document FROM client_configs").
			WithArgs("bad").
			WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte("{")))

		_, err := repo.FindByID(ctx, "bad")
		assert.ErrorContains(t, err, "decode client document")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientPostgres(db)

	rows := sqlmock.NewRows([]string{"document"}).
		AddRow(documentOf(t, sampleConfig("a"))).
		AddRow(documentOf(t, sampleConfig("b")))
	mock.ExpectQuery("SELECT document FROM client_configs ORDER BY").WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ClientID)
	assert.Equal(t, "b", items[1].ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientPostgres_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT document FROM client_configs").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	items, err := NewClientPostgres(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClientPostgres_UpdateSystemPrompt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientPostgres(db)
	ctx := context.Background()
	at := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		cfg := sampleConfig("acme")
		cfg.Agent.SystemPrompt = "be nice"
		cfg.UpdatedAt = model.NewTimestamp(at)

		mock.ExpectQuery("UPDATE client_configs").
			WithArgs("acme", "be nice", at.Format(time.RFC3339Nano), at).
			WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(documentOf(t, cfg)))

		got, err := repo.UpdateSystemPrompt(ctx, "acme", "be nice", at)
		require.NoError(t, err)
		assert.Equal(t, "be nice", got.Agent.SystemPrompt)
		assert.True(t, got.UpdatedAt.Equal(at))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("UPDATE client_configs").
			WithArgs("ghost", "x", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"document"}))

		_, err := repo.UpdateSystemPrompt(ctx, "ghost", "x", at)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))

	assert.Error(t, NewClientPostgres(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
