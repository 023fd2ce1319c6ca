package repositories

import (
	"context"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TimelineRepository is the MongoDB implementation of
// services.TimelineRecorder. Append-only: no update or delete exists.
type TimelineRepository struct {
	collection *mongo.Collection
}

func NewTimelineRepository(collection *mongo.Collection) *TimelineRepository {
	return &TimelineRepository{collection: collection}
}

func (r *TimelineRepository) Append(ctx context.Context, entry models.TimelineEntry) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *TimelineRepository) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.TimelineEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.TimelineEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
