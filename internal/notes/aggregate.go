package notes

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// creatorMatchPipeline builds the per-user re-aggregation for the
// select-all creators mode. For every user it looks up the notes whose
// creator is that user and which satisfy all remaining conditions,
// then derives matchedFilter from whether any such note exists. No user
// is filtered out; the flag is purely informational. The conditions
// passed in must not contain a creator predicate - the correlated
// $expr supplies the creator scope per user.
func creatorMatchPipeline(conditions []bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "notes",
			"let":  bson.M{"userId": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{
					"$expr": bson.M{"$eq": bson.A{"$creator", "$$userId"}},
					"$and":  conditions,
				}},
			},
			"as": "notes",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"matchedFilter": bson.M{"$gt": bson.A{bson.M{"$size": "$notes"}, 0}},
		}}},
	}
}
