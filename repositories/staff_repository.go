package repositories

import (
	"context"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StaffRepository is the MongoDB implementation of services.StaffRepository
type StaffRepository struct {
	collection *mongo.Collection
}

func NewStaffRepository(collection *mongo.Collection) *StaffRepository {
	return &StaffRepository{collection: collection}
}

func (r *StaffRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	var staff models.Staff
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) SetWorkStatus(ctx context.Context, id primitive.ObjectID, status models.WorkStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"workStatus": status}},
	)
	return err
}

func (r *StaffRepository) Insert(ctx context.Context, staff models.Staff) (primitive.ObjectID, error) {
	staff.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return staff.ID, nil
}

func (r *StaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	staffs := make([]models.Staff, 0)
	if err := cursor.All(ctx, &staffs); err != nil {
		return nil, err
	}
	return staffs, nil
}

func (r *StaffRepository) Update(ctx context.Context, id primitive.ObjectID, name, email *string, workStatus *models.WorkStatus) (bool, error) {
	update := bson.M{}
	if name != nil {
		update["name"] = *name
	}
	if email != nil {
		update["email"] = *email
	}
	if workStatus != nil {
		update["workStatus"] = *workStatus
	}
	if len(update) == 0 {
		return true, nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *StaffRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
