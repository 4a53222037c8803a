package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"notehub/internal/auth"
	"notehub/internal/config"
	"notehub/internal/models"
	"notehub/internal/store"
)

const testSecret = "test-secret-0123456789abcdef"

// fakeStore backs the handlers with canned results so no database is
// needed. Zero values mean "not found" for the lookup methods.
type fakeStore struct {
	notes   []models.NoteView
	total   int64
	matches []models.UserMatch

	note   *models.Note
	detail *models.NoteDetail
	user   *models.User
	users  []models.UserView

	category      *models.Category
	categories    []models.Category
	categoryTotal int64
	titleExists   bool
	notesInUse    int64

	createUserErr error
	assigned      bool
}

func (f *fakeStore) AggregateNotes(context.Context, mongo.Pipeline) ([]models.NoteView, error) {
	return f.notes, nil
}

func (f *fakeStore) CountNotes(context.Context, bson.M) (int64, error) {
	return f.total, nil
}

func (f *fakeStore) AggregateUserMatches(context.Context, mongo.Pipeline) ([]models.UserMatch, error) {
	return f.matches, nil
}

func (f *fakeStore) CreateNote(_ context.Context, note models.Note) (*models.Note, error) {
	note.ID = bson.NewObjectID()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	return &note, nil
}

func (f *fakeStore) NoteByID(context.Context, bson.ObjectID) (*models.Note, error) {
	if f.note == nil {
		return nil, store.ErrNotFound
	}
	return f.note, nil
}

func (f *fakeStore) NoteDetailByID(context.Context, bson.ObjectID) (*models.NoteDetail, error) {
	if f.detail == nil {
		return nil, store.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, id bson.ObjectID, note models.Note) (*models.Note, error) {
	note.ID = id
	note.UpdatedAt = time.Now()
	return &note, nil
}

func (f *fakeStore) DeleteNote(context.Context, bson.ObjectID, bson.ObjectID) error {
	return nil
}

func (f *fakeStore) ToggleAssignment(context.Context, bson.ObjectID, bson.ObjectID) (*models.Note, bool, error) {
	if f.note == nil {
		return nil, false, store.ErrNotFound
	}
	return f.note, f.assigned, nil
}

func (f *fakeStore) TogglePrivate(context.Context, bson.ObjectID) (*models.Note, error) {
	if f.note == nil {
		return nil, store.ErrNotFound
	}
	return f.note, nil
}

func (f *fakeStore) CountNotesInCategory(context.Context, bson.ObjectID) (int64, error) {
	return f.notesInUse, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if f.createUserErr != nil {
		return nil, f.createUserErr
	}
	user.ID = bson.NewObjectID()
	return &user, nil
}

func (f *fakeStore) UserByEmail(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) UserByID(context.Context, bson.ObjectID) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) Users(context.Context) ([]models.UserView, error) {
	return f.users, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, title string) (*models.Category, error) {
	return &models.Category{ID: bson.NewObjectID(), Title: title}, nil
}

func (f *fakeStore) CategoryByID(context.Context, bson.ObjectID) (*models.Category, error) {
	if f.category == nil {
		return nil, store.ErrNotFound
	}
	return f.category, nil
}

func (f *fakeStore) CategoryTitleExists(context.Context, string) (bool, error) {
	return f.titleExists, nil
}

func (f *fakeStore) Categories(context.Context, int, int, bool) ([]models.Category, int64, error) {
	return f.categories, f.categoryTotal, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, id bson.ObjectID, title string) (*models.Category, error) {
	return &models.Category{ID: id, Title: title}, nil
}

func (f *fakeStore) DeleteCategory(context.Context, bson.ObjectID) error {
	return nil
}

func newTestServer(fake *fakeStore) *Server {
	cfg := config.Config{AuthSecret: testSecret, TokenTTL: time.Hour}
	return NewServer(cfg, fake)
}

func bearerFor(t *testing.T, id bson.ObjectID) string {
	t.Helper()
	token, err := auth.NewTokens(testSecret, time.Hour).Issue(id.Hex(), "test@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	res := rec.Result()
	var decoded map[string]any
	if res.ContentLength != 0 && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return res, decoded
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(&fakeStore{})

	res, body := doRequest(t, s, http.MethodPost, "/api/note/getNotes", "", map[string]any{})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "Not authenticated.", body["message"])
}

func TestProtectedRejectsBadToken(t *testing.T) {
	s := newTestServer(&fakeStore{})

	res, _ := doRequest(t, s, http.MethodPost, "/api/note/getNotes", "Bearer not-a-token", map[string]any{})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(&fakeStore{})

	res, body := doRequest(t, s, http.MethodPost, "/api/user/signup", "", map[string]any{
		"firstname":       "A",
		"lastname":        "B",
		"username":        "ab",
		"email":           "not-an-email",
		"password":        "p!",
		"confirmPassword": "other",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Equal(t, "Validation failed, invalid data was entered!", body["message"])
	require.NotEmpty(t, body["data"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(&fakeStore{createUserErr: store.ErrDuplicateEmail})

	res, body := doRequest(t, s, http.MethodPost, "/api/user/signup", "", map[string]any{
		"firstname":       "Ada",
		"lastname":        "Lovelace",
		"username":        "adalovelace",
		"email":           "ada@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body["data"], "E-Mail address already exists!")
}

func TestSignupCreatesUser(t *testing.T) {
	s := newTestServer(&fakeStore{})

	res, body := doRequest(t, s, http.MethodPost, "/api/user/signup", "", map[string]any{
		"firstname":       "Ada",
		"lastname":        "Lovelace",
		"username":        "adalovelace",
		"email":           "ada@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "User created!", body["message"])
	require.NotEmpty(t, body["userId"])
}

func TestLoginUnknownEmail(t *testing.T) {
	s := newTestServer(&fakeStore{})

	res, body := doRequest(t, s, http.MethodPost, "/api/user/login", "", map[string]any{
		"email":    "ghost@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "A user with this email could not be found.", body["message"])
}

func TestLogin(t *testing.T) {
	hashed, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	user := &models.User{ID: bson.NewObjectID(), Email: "ada@example.com", Password: hashed}
	s := newTestServer(&fakeStore{user: user})

	res, body := doRequest(t, s, http.MethodPost, "/api/user/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "Wrong password!", body["message"])

	res, body = doRequest(t, s, http.MethodPost, "/api/user/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, user.ID.Hex(), body["userId"])

	claims, err := auth.NewTokens(testSecret, time.Hour).Verify(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestGetNotesEnvelope(t *testing.T) {
	fake := &fakeStore{notes: make([]models.NoteView, 7)}
	for i := range fake.notes {
		fake.notes[i] = models.NoteView{ID: bson.NewObjectID()}
	}
	s := newTestServer(fake)
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPost, "/api/note/getNotes", token, map[string]any{
		"page":    1,
		"perPage": 5,
		"sort":    map[string]any{"name": "createdAt", "order": -1},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Fetched notes successfully.", body["message"])
	require.Len(t, body["notes"], 5)
	require.EqualValues(t, 7, body["totalItems"])
	require.EqualValues(t, 1, body["currentPage"])
	require.Equal(t, true, body["hasNext"])
}

func TestGetNotesRejectsUnknownSortField(t *testing.T) {
	s := newTestServer(&fakeStore{})
	token := bearerFor(t, bson.NewObjectID())

	res, _ := doRequest(t, s, http.MethodPost, "/api/note/getNotes", token, map[string]any{
		"sort": map[string]any{"name": "isPrivate", "order": 1},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestSearchEnvelope(t *testing.T) {
	fake := &fakeStore{
		notes: []models.NoteView{{ID: bson.NewObjectID()}},
		total: 12,
		matches: []models.UserMatch{
			{UserView: models.UserView{ID: bson.NewObjectID(), Username: "ada"}, MatchedFilter: true},
		},
	}
	s := newTestServer(fake)
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPost, "/api/note/search", token, map[string]any{
		"page":       2,
		"perPage":    5,
		"searchText": "meeting",
		"filters":    map[string]any{"creators": map[string]any{"selectAll": true}},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.EqualValues(t, 12, body["totalItems"])
	require.EqualValues(t, 2, body["currentPage"])
	require.Equal(t, true, body["hasNext"])
	require.Len(t, body["usersWithMatchedFilter"], 1)
}

func TestSearchOmitsUserMatchesWithoutSelectAll(t *testing.T) {
	s := newTestServer(&fakeStore{total: 1})
	token := bearerFor(t, bson.NewObjectID())

	_, body := doRequest(t, s, http.MethodPost, "/api/note/search", token, map[string]any{
		"searchText": "meeting",
	})
	require.NotContains(t, body, "usersWithMatchedFilter")
}

func TestSearchRejectsMalformedCreators(t *testing.T) {
	s := newTestServer(&fakeStore{})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPost, "/api/note/search", token, map[string]any{
		"filters": map[string]any{"creators": map[string]any{"selectAll": false}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body["data"], "Filter - creators.selected is in incorrect format")
}

func TestSearchRejectsBadDateFilter(t *testing.T) {
	s := newTestServer(&fakeStore{})
	token := bearerFor(t, bson.NewObjectID())

	res, _ := doRequest(t, s, http.MethodPost, "/api/note/search", token, map[string]any{
		"filters": map[string]any{"createdAt": map[string]any{"from": "yesterday"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestGetNote(t *testing.T) {
	creator := bson.NewObjectID()
	detail := &models.NoteDetail{
		ID:      bson.NewObjectID(),
		Title:   "Weekly report",
		Creator: creator,
		Category: []models.Category{
			{ID: bson.NewObjectID(), Title: "Work"},
		},
		AssignedTo: []models.UserView{
			{ID: bson.NewObjectID(), Username: "ada"},
		},
	}
	s := newTestServer(&fakeStore{detail: detail})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodGet, "/api/note/getNote/"+detail.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Note fetched.", body["message"])

	note := body["note"].(map[string]any)
	require.Equal(t, creator.Hex(), note["creator"])
	require.Len(t, note["category"], 1)
	require.Len(t, note["assignedTo"], 1)
}

func TestGetNoteMissing(t *testing.T) {
	s := newTestServer(&fakeStore{})
	token := bearerFor(t, bson.NewObjectID())

	res, _ := doRequest(t, s, http.MethodGet, "/api/note/getNote/"+bson.NewObjectID().Hex(), token, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateNoteNotCreator(t *testing.T) {
	note := &models.Note{ID: bson.NewObjectID(), Creator: bson.NewObjectID()}
	s := newTestServer(&fakeStore{note: note})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPatch, "/api/note/"+note.ID.Hex(), token, map[string]any{
		"title":       "Updated title",
		"description": "Updated description",
		"category":    bson.NewObjectID().Hex(),
	})
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, "Not authorized!", body["message"])
}

func TestDeleteNoteMissing(t *testing.T) {
	s := newTestServer(&fakeStore{})
	token := bearerFor(t, bson.NewObjectID())

	res, _ := doRequest(t, s, http.MethodDelete, "/api/note/"+bson.NewObjectID().Hex(), token, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAssignToUserToggle(t *testing.T) {
	user := &models.User{ID: bson.NewObjectID(), Username: "ada"}
	note := &models.Note{ID: bson.NewObjectID()}
	s := newTestServer(&fakeStore{user: user, note: note, assigned: true})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPost, "/api/note/assignToUser", token, map[string]any{
		"assignToId": user.ID.Hex(),
		"noteId":     note.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "Assigned", body["message"])
}

func TestTogglePrivateRequiresCreator(t *testing.T) {
	note := &models.Note{ID: bson.NewObjectID(), Creator: bson.NewObjectID()}
	s := newTestServer(&fakeStore{note: note})
	token := bearerFor(t, bson.NewObjectID())

	res, _ := doRequest(t, s, http.MethodPost, "/api/note/toggleNotePrivate", token, map[string]any{
		"noteId": note.ID.Hex(),
	})
	require.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	s := newTestServer(&fakeStore{titleExists: true})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodPost, "/api/category/create", token, map[string]any{
		"title": "Work",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body["data"], `"Work" already exists!`)
}

func TestGetCategoriesEnvelope(t *testing.T) {
	fake := &fakeStore{
		categories:    []models.Category{{ID: bson.NewObjectID(), Title: "Work"}},
		categoryTotal: 6,
	}
	s := newTestServer(fake)
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodGet, "/api/category/getCategories", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.EqualValues(t, 6, body["totalItems"])
	require.Equal(t, true, body["hasNext"])
}

func TestDeleteCategoryInUse(t *testing.T) {
	category := &models.Category{ID: bson.NewObjectID(), Title: "Work"}
	s := newTestServer(&fakeStore{category: category, notesInUse: 2})
	token := bearerFor(t, bson.NewObjectID())

	res, body := doRequest(t, s, http.MethodDelete, "/api/category/"+category.ID.Hex(), token, nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)
	require.Equal(t, "Cannot delete category that belongs to a Note(s)", body["message"])
}

func TestStatusRecorderForwardsFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	require.NoError(t, http.NewResponseController(wrapped).Flush())
	require.True(t, rec.Flushed)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/note/getNotes", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocsPage(t *testing.T) {
	s := newTestServer(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
