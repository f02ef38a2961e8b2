package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clientapi/internal/model"
	"clientapi/internal/repository"
)

// ClientMongo stores client documents in the admin database collection.
// The Mongo _id is never exposed to callers.
type ClientMongo struct {
	coll *mongo.Collection
}

// NewClientMongo creates a new ClientMongo repository over coll.
func NewClientMongo(coll *mongo.Collection) *ClientMongo {
	return &ClientMongo{coll: coll}
}

var _ repository.ClientRepository = (*ClientMongo)(nil)

var withoutID = bson.D{{Key: "_id", Value: 0}}

// EnsureIndexes creates the unique index on client_id. It is idempotent.
func (r *ClientMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_client_id"),
	})
	if err != nil {
		return fmt.Errorf("create client_id index: %w", err)
	}
	return nil
}

// Create inserts a new client document.
func (r *ClientMongo) Create(ctx context.Context, cfg *model.ClientConfig) error {
	if _, err := r.coll.InsertOne(ctx, cfg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID fetches a single client document.
func (r *ClientMongo) FindByID(ctx context.Context, clientID string) (*model.ClientConfig, error) {
	var cfg model.ClientConfig
	err := r.coll.FindOne(ctx,
		bson.D{{Key: "client_id", Value: clientID}},
		options.FindOne().SetProjection(withoutID),
	).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// List returns all client documents, oldest first.
func (r *ClientMongo) List(ctx context.Context) ([]model.ClientConfig, error) {
	cur, err := r.coll.Find(ctx, bson.D{},
		options.Find().
			SetProjection(withoutID).
			SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "client_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]model.ClientConfig, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSystemPrompt sets agent.system_prompt and updated_at and returns the new document.
func (r *ClientMongo) UpdateSystemPrompt(ctx context.Context, clientID, prompt string, at time.Time) (*model.ClientConfig, error) {
	var cfg model.ClientConfig
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "client_id", Value: clientID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "agent.system_prompt", Value: prompt},
			{Key: "updated_at", Value: at},
		}}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(withoutID),
	).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Ping checks that the primary is reachable.
func (r *ClientMongo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
