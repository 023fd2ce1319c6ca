package repositories

import (
	"context"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentRepository is the MongoDB implementation of services.PaymentRecorder
type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(collection *mongo.Collection) *PaymentRepository {
	return &PaymentRepository{collection: collection}
}

func (r *PaymentRepository) Record(ctx context.Context, payment models.Payment) error {
	payment.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, payment)
	return err
}
