package mongo

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexDefinition defines a MongoDB index
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptions
}

// IndexInitializer creates indexes on startup
type IndexInitializer struct {
	client *Client
}

// NewIndexInitializer creates a new index initializer
func NewIndexInitializer(client *Client) *IndexInitializer {
	return &IndexInitializer{client: client}
}

// Initialize creates all required indexes
func (i *IndexInitializer) Initialize(ctx context.Context) error {
	indexes := i.getIndexDefinitions()

	for _, idx := range indexes {
		if err := i.createIndex(ctx, idx); err != nil {
			slog.Warn("Failed to create index (may already exist)",
				"error", err,
				"collection", idx.Collection)
		}
	}

	slog.Info("Index initialization complete", "count", len(indexes))
	return nil
}

func (i *IndexInitializer) createIndex(ctx context.Context, idx IndexDefinition) error {
	collection := i.client.Collection(idx.Collection)

	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: idx.Options,
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

func (i *IndexInitializer) getIndexDefinitions() []IndexDefinition {
	return []IndexDefinition{
		// flow_configs: list ordering
		{
			Collection: "flow_configs",
			Keys:       bson.D{{Key: "updatedAt", Value: -1}},
		},

		// audit_logs: entity history lookups, newest first
		{
			Collection: "audit_logs",
			Keys: bson.D{
				{Key: "entityType", Value: 1},
				{Key: "entityId", Value: 1},
				{Key: "performedAt", Value: -1},
			},
		},
		// audit_logs: retention, entries expire after 90 days
		{
			Collection: "audit_logs",
			Keys:       bson.D{{Key: "performedAt", Value: 1}},
			Options:    options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
		},
	}
}
