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

// ErrDuplicateEmail is returned when a signup collides with an existing
// account.
var ErrDuplicateEmail = errors.New("email already exists")

// CreateUser inserts a new user document. The unique index on email
// enforces global uniqueness.
func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = bson.NewObjectID()
	if user.Notes == nil {
		user.Notes = []bson.ObjectID{}
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// UserByEmail fetches the full user document, credentials included, for
// login verification.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Users lists every user sorted by username, without credentials.
func (s *Store) Users(ctx context.Context) ([]models.UserView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var users []models.UserView
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
