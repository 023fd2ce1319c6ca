package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimelineEntry is an immutable audit record of a status-affecting action
// on an issue. Entries are only ever appended, never updated or deleted,
// and survive deletion of the issue they reference.
type TimelineEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID    primitive.ObjectID `bson:"issueId" json:"issueId"`
	Status     IssueStatus        `bson:"status" json:"status"`
	Message    string             `bson:"message" json:"message"`
	UpdatedBy  string             `bson:"updatedBy" json:"updatedBy"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
}
