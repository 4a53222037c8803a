package notes

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// VisibilityPredicate is the mandatory base filter for every note query:
// a note is visible to the requester iff the requester created it or the
// note is not private. It must always be combined with other predicates
// by AND; putting it inside an OR would leak private notes.
func VisibilityPredicate(requester bson.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"creator": requester},
		bson.M{"isPrivate": false},
	}}
}

// textPredicate matches notes whose title or description contains the
// search text, case-insensitively. An empty search text matches every
// note. The raw text is quoted so user input cannot change the match
// semantics.
func textPredicate(searchText string) bson.M {
	pattern := regexp.QuoteMeta(searchText)
	return bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}
}
