package web

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type contextKey int

const requesterKey contextKey = iota

// WithRequester stores the verified requester identity in the context.
func WithRequester(ctx context.Context, id bson.ObjectID) context.Context {
	return context.WithValue(ctx, requesterKey, id)
}

// Requester returns the verified requester identity set by the auth
// middleware.
func Requester(ctx context.Context) (bson.ObjectID, bool) {
	id, ok := ctx.Value(requesterKey).(bson.ObjectID)
	return id, ok
}
