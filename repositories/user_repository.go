package repositories

import (
	"context"
	"time"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the MongoDB implementation of services.UserRepository
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Insert(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

func (r *UserRepository) List(ctx context.Context, search string) ([]models.User, error) {
	query := bson.M{}
	if search != "" {
		query["$or"] = []bson.M{
			{"name": substringMatch(search)},
			{"email": substringMatch(search)},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// SeedAdmin upserts the admin role onto the configured account. Safe to
// run on every startup.
func (r *UserRepository) SeedAdmin(ctx context.Context, email string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{"role": models.RoleAdmin},
			"$setOnInsert": bson.M{
				"name":             "Administrator",
				"status":           models.UserActive,
				"subscriptionTier": models.TierFree,
				"createdAt":        time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
