// Package models defines the document types stored in MongoDB and the
// joined view types returned by note queries.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Note is a stored note document. Creator and Category are references
// resolved to full documents only by the query pipelines.
type Note struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Category    bson.ObjectID   `bson:"category" json:"category"`
	Creator     bson.ObjectID   `bson:"creator" json:"creator"`
	IsPrivate   bool            `bson:"isPrivate" json:"isPrivate"`
	AssignedTo  []bson.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// User is a stored user document. Notes is a denormalized back-reference
// to the notes this user created; it is maintained on note create/delete.
// The password hash never serializes to JSON.
type User struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Firstname string          `bson:"firstname" json:"firstname"`
	Lastname  string          `bson:"lastname" json:"lastname"`
	Username  string          `bson:"username" json:"username"`
	Email     string          `bson:"email" json:"email"`
	Password  string          `bson:"password" json:"-"`
	Notes     []bson.ObjectID `bson:"notes" json:"notes"`
}

// Category is a stored category document.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string        `bson:"title" json:"title"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// UserView is a user as embedded in query results: no credentials, no
// back-references.
type UserView struct {
	ID        bson.ObjectID `bson:"_id" json:"_id"`
	Firstname string        `bson:"firstname" json:"firstname"`
	Lastname  string        `bson:"lastname" json:"lastname"`
	Username  string        `bson:"username" json:"username"`
	Email     string        `bson:"email" json:"email"`
}

// NoteView is a note after the derive and join stages. The lookup stages
// replace each reference with an array of resolved documents; a dangling
// reference yields an empty array rather than an error.
type NoteView struct {
	ID          bson.ObjectID `bson:"_id" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	IsPrivate   bool          `bson:"isPrivate" json:"isPrivate"`
	IsCreator   bool          `bson:"isCreator" json:"isCreator"`
	Category    []Category    `bson:"category" json:"category"`
	Creator     []UserView    `bson:"creator" json:"creator"`
	AssignedTo  []UserView    `bson:"assignedTo" json:"assignedTo"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// NoteDetail is the single-note fetch shape: category and assignedTo
// are resolved but creator stays a raw reference.
type NoteDetail struct {
	ID          bson.ObjectID `bson:"_id" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Creator     bson.ObjectID `bson:"creator" json:"creator"`
	IsPrivate   bool          `bson:"isPrivate" json:"isPrivate"`
	Category    []Category    `bson:"category" json:"category"`
	AssignedTo  []UserView    `bson:"assignedTo" json:"assignedTo"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// UserMatch is a user annotated with whether at least one of their notes
// satisfies the active search filters.
type UserMatch struct {
	UserView      `bson:",inline"`
	MatchedFilter bool `bson:"matchedFilter" json:"matchedFilter"`
}
