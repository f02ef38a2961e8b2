package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clientapi/internal/config"
	"clientapi/internal/logger"
	"clientapi/internal/metrics"
	"clientapi/internal/model"
	"clientapi/internal/repository"
	"clientapi/internal/storage"
)

var (
	ErrInvalidInput = errors.New("client_id, client_name, and owner_id are required")
	ErrClientExists = errors.New("client already exists")
	ErrNotFound     = errors.New("client not found")
	ErrIDRequired   = errors.New("client_id is required")
)

// CreateClientInput carries the caller-controlled fields of a new client.
// Empty optional fields fall back to the configured defaults.
type CreateClientInput struct {
	ClientID            string
	ClientName          string
	OwnerID             string
	SystemPrompt        string
	MongoDBDatabaseName string
	S3Region            string
	OpenAIAPIKey        string
	Tools               []map[string]any
	AdditionalConfig    map[string]any
}

// CreateClientResult is the stored configuration plus the bucket provisioning outcome.
type CreateClientResult struct {
	Config *model.ClientConfig
	Bucket model.BucketResult
}

// ClientService defines the use cases for managing client configurations.
type ClientService interface {
	// Create validates the input, provisions the client's bucket and stores the configuration.
	// A bucket provisioning failure does not fail the call; it is reported in the result.
	Create(ctx context.Context, in CreateClientInput) (*CreateClientResult, error)

	// List returns every client configuration.
	List(ctx context.Context) ([]model.ClientConfig, error)

	// Get returns a single client configuration by id.
	Get(ctx context.Context, clientID string) (*model.ClientConfig, error)

	// UpdateSystemPrompt replaces the agent system prompt of a client.
	UpdateSystemPrompt(ctx context.Context, clientID, prompt string) (*model.ClientConfig, error)
}

type clientService struct {
	repo        repository.ClientRepository
	provisioner storage.Provisioner
	defaults    ClientDefaults
	metrics     metrics.Recorder
	now         func() time.Time
	newUUID     func() string
}

// ClientDefaults are written into every new client document unless the request overrides them.
type ClientDefaults struct {
	Region string
	Agent  config.AgentConfig
}

// NewClientService constructs a new ClientService. A nil recorder disables domain metrics.
func NewClientService(repo repository.ClientRepository, p storage.Provisioner, defaults ClientDefaults, rec metrics.Recorder) ClientService {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &clientService{
		repo:        repo,
		provisioner: p,
		defaults:    defaults,
		metrics:     rec,
		now:         func() time.Time { return time.Now().UTC() },
		newUUID:     func() string { return uuid.New().String() },
	}
}

// NormalizeClientID lower-cases and trims id and replaces spaces with dashes.
func NormalizeClientID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "-")
}

func (s *clientService) Create(ctx context.Context, in CreateClientInput) (*CreateClientResult, error) {
	if strings.TrimSpace(in.ClientID) == "" || strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.OwnerID) == "" {
		return nil, ErrInvalidInput
	}
	clientID := NormalizeClientID(in.ClientID)
	ctx = logger.WithFields(ctx, zap.String("client_id", clientID))

	_, err := s.repo.FindByID(ctx, clientID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("client %s: %w", clientID, ErrClientExists)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	cfg := s.buildConfig(ctx, clientID, in)

	bucket := storage.EnsureBucket(ctx, s.provisioner, cfg.S3.BucketName, cfg.S3.Region)
	s.metrics.BucketProvisioned(bucket.Status)
	if bucket.Status == model.BucketError {
		logger.Warn(ctx, "could not create bucket for client, continuing", zap.String("reason", bucket.Message))
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrClientExists)
		}
		return nil, fmt.Errorf("store client: %w", err)
	}

	s.metrics.ClientCreated()
	logger.Info(ctx, "client created", zap.String("bucket", cfg.S3.BucketName))
	return &CreateClientResult{Config: cfg, Bucket: bucket}, nil
}

func (s *clientService) buildConfig(ctx context.Context, clientID string, in CreateClientInput) *model.ClientConfig {
	now := s.now()

	dbName := in.MongoDBDatabaseName
	if dbName == "" {
		dbName = strings.ToUpper(clientID)
	}
	region := in.S3Region
	if region == "" {
		region = s.defaults.Region
	}
	tools := in.Tools
	if tools == nil {
		tools = []map[string]any{}
	}

	cfg := &model.ClientConfig{
		ClientID:   clientID,
		ClientName: in.ClientName,
		OwnerID:    in.OwnerID,
		CreatedAt:  model.NewTimestamp(now),
		UpdatedAt:  model.NewTimestamp(now),
		MongoDB:    model.MongoDBSettings{DatabaseName: dbName},
		S3: model.S3Settings{
			BucketName: clientID + "-" + s.newUUID(),
			Region:     region,
		},
		Agent: model.AgentSettings{
			SystemPrompt: in.SystemPrompt,
			LLMConfig: model.LLMConfig{
				Model:       s.defaults.Agent.LLMModel,
				Temperature: s.defaults.Agent.LLMTemperature,
			},
			Tools: tools,
		},
		Preprocessor:  model.ServiceEndpoint{URL: s.defaults.Agent.PreprocessorURL},
		Postprocessor: model.ServiceEndpoint{URL: s.defaults.Agent.PostprocessorURL},
	}
	if in.OpenAIAPIKey != "" {
		cfg.OpenAI = &model.OpenAISettings{APIKey: in.OpenAIAPIKey}
	}

	for k, v := range in.AdditionalConfig {
		if model.IsReservedKey(k) {
			logger.Warn(ctx, "ignoring additional_config key that shadows a managed field", zap.String("key", k))
			continue
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any, len(in.AdditionalConfig))
		}
		cfg.Extra[k] = v
	}
	return cfg
}

func (s *clientService) List(ctx context.Context) ([]model.ClientConfig, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return items, nil
}

func (s *clientService) Get(ctx context.Context, clientID string) (*model.ClientConfig, error) {
	clientID = NormalizeClientID(clientID)
	if clientID == "" {
		return nil, ErrIDRequired
	}
	cfg, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
		}
		return nil, err
	}
	return cfg, nil
}

func (s *clientService) UpdateSystemPrompt(ctx context.Context, clientID, prompt string) (*model.ClientConfig, error) {
	clientID = NormalizeClientID(clientID)
	if clientID == "" {
		return nil, ErrIDRequired
	}
	cfg, err := s.repo.UpdateSystemPrompt(ctx, clientID, prompt, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
		}
		return nil, fmt.Errorf("update system prompt: %w", err)
	}
	logger.Info(ctx, "system prompt updated", zap.String("client_id", clientID))
	return cfg, nil
}
