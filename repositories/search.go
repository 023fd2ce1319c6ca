package repositories

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// substringMatch builds a case-insensitive substring filter. User input is
// escaped so regex metacharacters match literally.
func substringMatch(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
