package settings

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository provides MongoDB access to the settings document
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new settings repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection("settings"),
	})
}

// Get returns the stored settings, falling back to the defaults
func (r *mongoRepository) Get(ctx context.Context) (Settings, error) {
	var item Item
	err := r.collection.FindOne(ctx, bson.M{"_id": ItemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			slog.Info("No settings found, returning default settings")
			return Default(), nil
		}
		return Settings{}, err
	}
	return item.Settings, nil
}

// Put replaces the stored settings document
func (r *mongoRepository) Put(ctx context.Context, s Settings, modifiedBy string) error {
	item := Item{
		ID:             ItemID,
		Settings:       s,
		LastModified:   time.Now().UTC(),
		LastModifiedBy: modifiedBy,
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": ItemID}, item,
		options.Replace().SetUpsert(true))
	return err
}
