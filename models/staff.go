package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkStatus enum
type WorkStatus string

const (
	WorkIdle     WorkStatus = "idle"
	WorkOnTheWay WorkStatus = "on-the-way"
	WorkBusy     WorkStatus = "busy"
)

// IsValidWorkStatus reports whether s is a known work status
func IsValidWorkStatus(s WorkStatus) bool {
	switch s {
	case WorkIdle, WorkOnTheWay, WorkBusy:
		return true
	}
	return false
}

// Staff is a field staff member assignable to issues
type Staff struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	WorkStatus WorkStatus         `bson:"workStatus" json:"workStatus"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
