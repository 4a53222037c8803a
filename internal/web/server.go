// Package web wires the HTTP API: routing, bearer authentication,
// request validation and the JSON response envelopes.
package web

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"notehub/internal/auth"
	"notehub/internal/config"
	"notehub/internal/models"
	"notehub/internal/notes"
)

// Store is what the handlers need from the entity store. It is a
// superset of the engine's notes.Store so a single implementation
// backs both.
type Store interface {
	notes.Store

	CreateNote(ctx context.Context, note models.Note) (*models.Note, error)
	NoteByID(ctx context.Context, id bson.ObjectID) (*models.Note, error)
	NoteDetailByID(ctx context.Context, id bson.ObjectID) (*models.NoteDetail, error)
	UpdateNote(ctx context.Context, id bson.ObjectID, note models.Note) (*models.Note, error)
	DeleteNote(ctx context.Context, id, creator bson.ObjectID) error
	ToggleAssignment(ctx context.Context, noteID, userID bson.ObjectID) (*models.Note, bool, error)
	TogglePrivate(ctx context.Context, id bson.ObjectID) (*models.Note, error)
	CountNotesInCategory(ctx context.Context, categoryID bson.ObjectID) (int64, error)

	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Users(ctx context.Context) ([]models.UserView, error)

	CreateCategory(ctx context.Context, title string) (*models.Category, error)
	CategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error)
	CategoryTitleExists(ctx context.Context, title string) (bool, error)
	Categories(ctx context.Context, page, perPage int, noPaginate bool) ([]models.Category, int64, error)
	UpdateCategory(ctx context.Context, id bson.ObjectID, title string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id bson.ObjectID) error
}

type Server struct {
	cfg    config.Config
	store  Store
	engine *notes.Engine
	tokens *auth.Tokens
	mux    *http.ServeMux
}

func NewServer(cfg config.Config, store Store) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		engine: notes.NewEngine(store),
		tokens: auth.NewTokens(cfg.AuthSecret, cfg.TokenTTL),
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.requestLog(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/user/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/user/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/user/getUsers", s.handleGetUsers)

	s.mux.HandleFunc("POST /api/category/create", s.protected(s.handleCreateCategory))
	s.mux.HandleFunc("GET /api/category/getCategories", s.protected(s.handleGetCategories))
	s.mux.HandleFunc("PATCH /api/category/{categoryId}", s.protected(s.handleUpdateCategory))
	s.mux.HandleFunc("DELETE /api/category/{categoryId}", s.protected(s.handleDeleteCategory))

	s.mux.HandleFunc("POST /api/note/create", s.protected(s.handleCreateNote))
	s.mux.HandleFunc("POST /api/note/getNotes", s.protected(s.handleGetNotes))
	s.mux.HandleFunc("GET /api/note/getNote/{noteId}", s.protected(s.handleGetNote))
	s.mux.HandleFunc("PATCH /api/note/{noteId}", s.protected(s.handleUpdateNote))
	s.mux.HandleFunc("DELETE /api/note/{noteId}", s.protected(s.handleDeleteNote))
	s.mux.HandleFunc("POST /api/note/search", s.protected(s.handleSearchNotes))
	s.mux.HandleFunc("POST /api/note/assignToUser", s.protected(s.handleAssignToUser))
	s.mux.HandleFunc("POST /api/note/toggleNotePrivate", s.protected(s.handleTogglePrivate))

	s.mux.HandleFunc("GET /api-docs", s.handleDocs)
}
