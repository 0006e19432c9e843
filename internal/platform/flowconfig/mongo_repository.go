package flowconfig

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository provides MongoDB access to flow configuration documents
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new flow configuration repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection("flow_configs"),
	})
}

// FindAll finds all flow configurations ordered by id
func (r *mongoRepository) FindAll(ctx context.Context) ([]*FlowConfig, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*FlowConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// FindByID finds a flow configuration by id
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*FlowConfig, error) {
	var cfg FlowConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert stores a flow configuration, replacing any existing document
func (r *mongoRepository) Upsert(ctx context.Context, cfg *FlowConfig) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg,
		options.Replace().SetUpsert(true))
	return err
}

// Delete removes a flow configuration
func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
