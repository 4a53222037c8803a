package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"notehub/internal/models"
)

func (s *Store) CreateCategory(ctx context.Context, title string) (*models.Category, error) {
	now := time.Now().UTC()
	category := models.Category{
		ID:        bson.NewObjectID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.categories.InsertOne(ctx, category); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &category, nil
}

func (s *Store) CategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// CategoryTitleExists checks for a category with the given title,
// ignoring case. Used by the duplicate-title validation.
func (s *Store) CategoryTitleExists(ctx context.Context, title string) (bool, error) {
	pattern := "^" + regexp.QuoteMeta(title) + "$"
	count, err := s.categories.CountDocuments(ctx, bson.M{
		"title": bson.M{"$regex": pattern, "$options": "i"},
	})
	if err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	return count > 0, nil
}

// Categories lists categories newest first. When noPaginate is set the
// whole collection is returned; otherwise skip/limit select one page.
// TotalItems always reflects the whole collection.
func (s *Store) Categories(ctx context.Context, page, perPage int, noPaginate bool) ([]models.Category, int64, error) {
	total, err := s.categories.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if !noPaginate {
		opts = opts.SetSkip(int64((page - 1) * perPage)).SetLimit(int64(perPage))
	}
	cursor, err := s.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find categories: %w", err)
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("decode categories: %w", err)
	}
	return categories, total, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id bson.ObjectID, title string) (*models.Category, error) {
	update := bson.M{"$set": bson.M{
		"title":     title,
		"updatedAt": time.Now().UTC(),
	}}
	if _, err := s.categories.UpdateByID(ctx, id, update); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.CategoryByID(ctx, id)
}

func (s *Store) DeleteCategory(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.categories.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
