package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"notehub/internal/models"
)

// The single-note pipeline resolves category and assignedTo but leaves
// creator as the raw reference; NoteDetail has to decode exactly that
// shape.
func TestNoteDetailDecodesSingleFetchShape(t *testing.T) {
	creator := bson.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := bson.M{
		"_id":         bson.NewObjectID(),
		"title":       "Weekly report",
		"description": "Numbers for the week",
		"creator":     creator,
		"isPrivate":   true,
		"category": bson.A{
			bson.M{"_id": bson.NewObjectID(), "title": "Work", "createdAt": now, "updatedAt": now},
		},
		"assignedTo": bson.A{
			bson.M{"_id": bson.NewObjectID(), "firstname": "Ada", "lastname": "Lovelace", "username": "ada", "email": "ada@example.com"},
		},
		"createdAt": now,
		"updatedAt": now,
	}
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var detail models.NoteDetail
	require.NoError(t, bson.Unmarshal(raw, &detail))
	require.Equal(t, creator, detail.Creator)
	require.Len(t, detail.Category, 1)
	require.Equal(t, "Work", detail.Category[0].Title)
	require.Len(t, detail.AssignedTo, 1)
	require.Equal(t, "ada", detail.AssignedTo[0].Username)
	require.True(t, detail.IsPrivate)
}

// A note with no assignees decodes with empty arrays, not an error; the
// lookup stages always emit arrays even for dangling references.
func TestNoteDetailDecodesEmptyLookups(t *testing.T) {
	doc := bson.M{
		"_id":         bson.NewObjectID(),
		"title":       "Orphaned",
		"description": "Category was deleted",
		"creator":     bson.NewObjectID(),
		"isPrivate":   false,
		"category":    bson.A{},
		"assignedTo":  bson.A{},
		"createdAt":   time.Now().UTC(),
		"updatedAt":   time.Now().UTC(),
	}
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var detail models.NoteDetail
	require.NoError(t, bson.Unmarshal(raw, &detail))
	require.Empty(t, detail.Category)
	require.Empty(t, detail.AssignedTo)
}
