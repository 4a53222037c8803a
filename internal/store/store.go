// Package store is the entity store: MongoDB client bootstrap, the CRUD
// operations used by the handlers, and the aggregation capability the
// note engine executes its query plans against.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"notehub/internal/models"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	client     *mongo.Client
	notes      *mongo.Collection
	users      *mongo.Collection
	categories *mongo.Collection
}

// Connect opens the client, verifies the connection and prepares the
// collection handles.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	db := client.Database(dbName)
	return &Store{
		client:     client,
		notes:      db.Collection("notes"),
		users:      db.Collection("users"),
		categories: db.Collection("categories"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the queries rely on: the unique
// email constraint and the text indexes on note and category titles.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	_, err = s.notes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "creator", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create notes indexes: %w", err)
	}
	_, err = s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: "text"}},
	})
	if err != nil {
		return fmt.Errorf("create categories indexes: %w", err)
	}
	return nil
}

// AggregateNotes executes a note query plan and materializes every
// resulting row.
func (s *Store) AggregateNotes(ctx context.Context, pipeline mongo.Pipeline) ([]models.NoteView, error) {
	cursor, err := s.notes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate notes: %w", err)
	}
	var views []models.NoteView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return views, nil
}

// CountNotes counts the notes matching a filter document.
func (s *Store) CountNotes(ctx context.Context, filter bson.M) (int64, error) {
	count, err := s.notes.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// AggregateUserMatches executes the creator-match plan over the users
// collection.
func (s *Store) AggregateUserMatches(ctx context.Context, pipeline mongo.Pipeline) ([]models.UserMatch, error) {
	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}
	var matches []models.UserMatch
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("decode user matches: %w", err)
	}
	return matches, nil
}
