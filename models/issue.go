package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueCategory enum
type IssueCategory string

const (
	Road        IssueCategory = "Road"
	Water       IssueCategory = "Water"
	Sanitation  IssueCategory = "Sanitation"
	Electricity IssueCategory = "Electricity"
	Other       IssueCategory = "Other"
)

// ValidCategories is the set of categories accepted at creation
var ValidCategories = map[IssueCategory]bool{
	Road: true, Water: true, Sanitation: true,
	Electricity: true, Other: true,
}

// IssueStatus enum
type IssueStatus string

const (
	Pending       IssueStatus = "Pending"
	StaffAssigned IssueStatus = "StaffAssigned"
	InProgress    IssueStatus = "InProgress"
	Resolved      IssueStatus = "Resolved"
	Rejected      IssueStatus = "Rejected"
)

// LegalTransitions is the explicit status transition table. The default
// service policy does not enforce it; strict mode does.
var LegalTransitions = map[IssueStatus][]IssueStatus{
	Pending:       {StaffAssigned, Rejected},
	StaffAssigned: {InProgress, Rejected},
	InProgress:    {Resolved},
	Resolved:      {},
	Rejected:      {},
}

// CanTransition reports whether from -> to appears in the transition table
func CanTransition(from, to IssueStatus) bool {
	for _, next := range LegalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the known statuses
func IsValidStatus(s IssueStatus) bool {
	switch s {
	case Pending, StaffAssigned, InProgress, Resolved, Rejected:
		return true
	}
	return false
}

// IssuePriority enum. Boosted sorts before Normal lexicographically, so an
// ascending sort on this field puts boosted issues first.
type IssuePriority string

const (
	PriorityNormal  IssuePriority = "Normal"
	PriorityBoosted IssuePriority = "Boosted"
)

// PaymentStatus enum
type PaymentStatus string

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingID         string             `bson:"trackingId" json:"trackingId"`
	Title              string             `bson:"title" json:"title"`
	Location           string             `bson:"location" json:"location"`
	Category           IssueCategory      `bson:"category" json:"category"`
	Status             IssueStatus        `bson:"status" json:"status"`
	Priority           IssuePriority      `bson:"priority" json:"priority"`
	PaymentStatus      PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	ReporterEmail      string             `bson:"reporterEmail" json:"reporterEmail"`
	AssignedStaffID    *string            `bson:"assignedStaffId,omitempty" json:"assignedStaffId,omitempty"`
	AssignedStaffEmail *string            `bson:"assignedStaffEmail,omitempty" json:"assignedStaffEmail,omitempty"`
	AssignedStaffName  *string            `bson:"assignedStaffName,omitempty" json:"assignedStaffName,omitempty"`
	Upvotes            int64              `bson:"upvotes" json:"upvotes"`
	VotedUsers         []string           `bson:"votedUsers" json:"votedUsers"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// Payment records a boost payment against an issue
type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID    primitive.ObjectID `bson:"issueId" json:"issueId"`
	PayerEmail string             `bson:"payerEmail" json:"payerEmail"`
	Purpose    string             `bson:"purpose" json:"purpose"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureIssueIndexes creates the unique index on trackingId
func EnsureIssueIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "trackingId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
