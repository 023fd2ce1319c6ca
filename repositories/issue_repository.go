package repositories

import (
	"context"

	"citycare-be/models"
	"citycare-be/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueRepository is the MongoDB implementation of services.IssueRepository
type IssueRepository struct {
	collection *mongo.Collection
}

func NewIssueRepository(collection *mongo.Collection) *IssueRepository {
	return &IssueRepository{collection: collection}
}

func (r *IssueRepository) Insert(ctx context.Context, issue models.Issue) (primitive.ObjectID, error) {
	issue.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, issue)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return issue.ID, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) CountByReporter(ctx context.Context, email string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"reporterEmail": email})
}

func (r *IssueRepository) List(ctx context.Context, filter services.IssueFilter, skip, limit int64) ([]models.Issue, int64, error) {
	query := bson.M{}
	if filter.ReporterEmail != "" {
		query["reporterEmail"] = filter.ReporterEmail
	}
	if filter.StaffEmail != "" {
		query["assignedStaffEmail"] = filter.StaffEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": substringMatch(filter.Search)},
			{"location": substringMatch(filter.Search)},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	// Ascending priority sorts Boosted before Normal (see models.IssuePriority)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	issues := make([]models.Issue, 0)
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

func (r *IssueRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *IssueRepository) AssignStaff(ctx context.Context, id primitive.ObjectID, staffID, staffEmail, staffName string, status models.IssueStatus) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":             status,
			"assignedStaffId":    staffID,
			"assignedStaffEmail": staffEmail,
			"assignedStaffName":  staffName,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// AddVote counts the vote only if the voter is absent from votedUsers at
// write time. The membership check lives in the filter, so two concurrent
// votes from one voter can never both match.
func (r *IssueRepository) AddVote(ctx context.Context, id primitive.ObjectID, voter string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":           id,
			"reporterEmail": bson.M{"$ne": voter},
			"votedUsers":    bson.M{"$ne": voter},
		},
		bson.M{
			"$inc":      bson.M{"upvotes": 1},
			"$addToSet": bson.M{"votedUsers": voter},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *IssueRepository) MarkBoosted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"paymentStatus": models.Paid,
			"priority":      models.PriorityBoosted,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *IssueRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
