package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"notehub/internal/models"
)

// CreateNote inserts the note and appends it to the creator's
// back-reference list.
func (s *Store) CreateNote(ctx context.Context, note models.Note) (*models.Note, error) {
	now := time.Now().UTC()
	note.ID = bson.NewObjectID()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.AssignedTo == nil {
		note.AssignedTo = []bson.ObjectID{}
	}

	if _, err := s.notes.InsertOne(ctx, note); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	_, err := s.users.UpdateByID(ctx, note.Creator, bson.M{"$push": bson.M{"notes": note.ID}})
	if err != nil {
		return nil, fmt.Errorf("update creator notes: %w", err)
	}
	return &note, nil
}

// NoteByID fetches the raw note document.
func (s *Store) NoteByID(ctx context.Context, id bson.ObjectID) (*models.Note, error) {
	var note models.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &note, nil
}

// NoteDetailByID fetches one note with its category and assignees
// resolved, the shape the single-fetch endpoint responds with. The
// creator reference is left as is, so the result decodes into
// NoteDetail rather than the fully joined NoteView.
func (s *Store) NoteDetailByID(ctx context.Context, id bson.ObjectID) (*models.NoteDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "categories", "localField": "category", "foreignField": "_id", "as": "category",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "users", "localField": "assignedTo", "foreignField": "_id", "as": "assignedTo",
		}}},
	}
	cursor, err := s.notes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate note: %w", err)
	}
	var details []models.NoteDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}

// UpdateNote replaces the mutable fields of a note.
func (s *Store) UpdateNote(ctx context.Context, id bson.ObjectID, note models.Note) (*models.Note, error) {
	update := bson.M{"$set": bson.M{
		"title":       note.Title,
		"description": note.Description,
		"category":    note.Category,
		"isPrivate":   note.IsPrivate,
		"assignedTo":  note.AssignedTo,
		"updatedAt":   time.Now().UTC(),
	}}
	if _, err := s.notes.UpdateByID(ctx, id, update); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.NoteByID(ctx, id)
}

// DeleteNote removes the note and the creator's back-reference to it.
func (s *Store) DeleteNote(ctx context.Context, id, creator bson.ObjectID) error {
	if _, err := s.notes.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if _, err := s.users.UpdateByID(ctx, creator, bson.M{"$pull": bson.M{"notes": id}}); err != nil {
		return fmt.Errorf("update creator notes: %w", err)
	}
	return nil
}

// ToggleAssignment adds the user to the note's assignee set, or removes
// them when already present. Reports whether the user ended up
// assigned.
func (s *Store) ToggleAssignment(ctx context.Context, noteID, userID bson.ObjectID) (*models.Note, bool, error) {
	note, err := s.NoteByID(ctx, noteID)
	if err != nil {
		return nil, false, err
	}
	assigned := false
	for _, id := range note.AssignedTo {
		if id == userID {
			assigned = true
			break
		}
	}
	update := bson.M{"$push": bson.M{"assignedTo": userID}}
	if assigned {
		update = bson.M{"$pull": bson.M{"assignedTo": userID}}
	}
	update["$set"] = bson.M{"updatedAt": time.Now().UTC()}
	if _, err := s.notes.UpdateByID(ctx, noteID, update); err != nil {
		return nil, false, fmt.Errorf("update note assignment: %w", err)
	}
	saved, err := s.NoteByID(ctx, noteID)
	if err != nil {
		return nil, false, err
	}
	return saved, !assigned, nil
}

// TogglePrivate flips the note's privacy flag.
func (s *Store) TogglePrivate(ctx context.Context, id bson.ObjectID) (*models.Note, error) {
	note, err := s.NoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"isPrivate": !note.IsPrivate,
		"updatedAt": time.Now().UTC(),
	}}
	if _, err := s.notes.UpdateByID(ctx, id, update); err != nil {
		return nil, fmt.Errorf("toggle note privacy: %w", err)
	}
	return s.NoteByID(ctx, id)
}

// CountNotesInCategory reports how many notes reference a category.
func (s *Store) CountNotesInCategory(ctx context.Context, categoryID bson.ObjectID) (int64, error) {
	return s.CountNotes(ctx, bson.M{"category": categoryID})
}
