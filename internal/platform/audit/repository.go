package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CXBuilder/flow-config/internal/common/tsid"
)

// Recorder writes audit entries. Recording is best effort: a failed audit
// write is logged but never fails the operation that triggered it.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
	FindByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]*Entry, error)
}

// mongoRecorder stores audit entries in MongoDB
type mongoRecorder struct {
	collection *mongo.Collection
}

// NewRecorder creates a Mongo-backed audit recorder
func NewRecorder(db *mongo.Database) Recorder {
	return &mongoRecorder{
		collection: db.Collection("audit_logs"),
	}
}

// Record writes an audit entry, assigning an id and timestamp
func (r *mongoRecorder) Record(ctx context.Context, entry Entry) {
	entry.ID = tsid.Generate()
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		slog.Error("Failed to write audit entry",
			"entityType", entry.EntityType,
			"entityId", entry.EntityID,
			"operation", entry.Operation,
			"error", err)
	}
}

// FindByEntity returns the most recent entries for an entity, newest first
func (r *mongoRecorder) FindByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"entityType": entityType, "entityId": entityID},
		options.Find().SetSort(bson.M{"performedAt": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarshalPayload serializes an operation payload for an audit entry.
// Returns an empty string when the payload cannot be serialized.
func MarshalPayload(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}
