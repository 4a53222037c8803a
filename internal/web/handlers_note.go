package web

import (
	"log/slog"
	"net/http"

	"notehub/internal/models"
	"notehub/internal/notes"
)

type noteRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	IsPrivate   bool     `json:"isPrivate"`
	AssignedTo  []string `json:"assignedTo"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var check problems
	title := check.requireMinLen(req.Title, "Title", 5)
	description := check.requireMinLen(req.Description, "Description", 5)
	category := check.requireObjectID(req.Category, "category")
	assignedTo := check.requireObjectIDs(req.AssignedTo, "assignedTo")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.store.CreateNote(r.Context(), models.Note{
		Title:       title,
		Description: description,
		Category:    category,
		IsPrivate:   req.IsPrivate,
		AssignedTo:  assignedTo,
		Creator:     requester,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	creator, err := s.store.UserByID(r.Context(), requester)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("note created", "note_id", note.ID.Hex())
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Note created successfully!",
		"note":    note,
		"creator": map[string]any{
			"_id":      creator.ID.Hex(),
			"username": creator.Username,
		},
	})
}

type getNotesRequest struct {
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	Sort       notes.SortSpec `json:"sort"`
	NoPaginate bool           `json:"noPaginate"`
}

func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	req := getNotesRequest{Page: 1, PerPage: 5}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var check problems
	check.requirePage(req.Page, req.PerPage)
	check.requireSort(req.Sort)
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	page, err := s.engine.List(r.Context(), notes.ListParams{
		Requester:  requester,
		Page:       req.Page,
		PerPage:    req.PerPage,
		NoPaginate: req.NoPaginate,
		Sort:       req.Sort,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Fetched notes successfully.",
		"notes":       page.Notes,
		"totalItems":  page.TotalItems,
		"currentPage": page.CurrentPage,
		"hasNext":     page.HasNext,
	})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	var check problems
	id := check.requireObjectID(r.PathValue("noteId"), "noteId")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.store.NoteDetailByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("fetched note", "note_id", note.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note fetched.",
		"note":    note,
	})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	var check problems
	id := check.requireObjectID(r.PathValue("noteId"), "noteId")
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title := check.requireMinLen(req.Title, "Title", 5)
	description := check.requireMinLen(req.Description, "Description", 5)
	category := check.requireObjectID(req.Category, "category")
	assignedTo := check.requireObjectIDs(req.AssignedTo, "assignedTo")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	existing, err := s.store.NoteByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.Creator != requester {
		writeError(w, &apiError{Status: http.StatusForbidden, Message: "Not authorized!"})
		return
	}

	saved, err := s.store.UpdateNote(r.Context(), id, models.Note{
		Title:       title,
		Description: description,
		Category:    category,
		IsPrivate:   req.IsPrivate,
		AssignedTo:  assignedTo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("note updated", "note_id", saved.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Note updated!",
		"savedNote": saved,
	})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	var check problems
	id := check.requireObjectID(r.PathValue("noteId"), "noteId")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.store.NoteByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if note.Creator != requester {
		writeError(w, &apiError{Status: http.StatusForbidden, Message: "Not authorized!"})
		return
	}

	if err := s.store.DeleteNote(r.Context(), id, note.Creator); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("note deleted", "note_id", id.Hex())
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted note."})
}

type searchNotesRequest struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	SearchText string            `json:"searchText"`
	Filters    *notes.FilterSpec `json:"filters"`
}

func (s *Server) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	req := searchNotesRequest{Page: 1, PerPage: 5}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var check problems
	check.requirePage(req.Page, req.PerPage)
	if req.Filters != nil && req.Filters.Creators != nil &&
		!req.Filters.Creators.SelectAll && req.Filters.Creators.Selected == nil {
		check.add("Filter - creators.selected is in incorrect format")
	}
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	page, err := s.engine.Search(r.Context(), notes.SearchParams{
		Requester:  requester,
		Page:       req.Page,
		PerPage:    req.PerPage,
		SearchText: req.SearchText,
		Filter:     req.Filters,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{
		"message":     "Fetched notes successfully.",
		"notes":       page.Notes,
		"totalItems":  page.TotalItems,
		"currentPage": page.CurrentPage,
		"hasNext":     page.HasNext,
	}
	if page.UsersWithMatchedFilter != nil {
		resp["usersWithMatchedFilter"] = page.UsersWithMatchedFilter
	}
	writeJSON(w, http.StatusOK, resp)
}

type assignToUserRequest struct {
	AssignToID string `json:"assignToId"`
	NoteID     string `json:"noteId"`
}

func (s *Server) handleAssignToUser(w http.ResponseWriter, r *http.Request) {
	var req assignToUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var check problems
	userID := check.requireObjectID(req.AssignToID, "assignToId")
	noteID := check.requireObjectID(req.NoteID, "noteId")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, notFound("user"))
		return
	}
	saved, assigned, err := s.store.ToggleAssignment(r.Context(), noteID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Removed assignment for this user"
	if assigned {
		message = "Assigned"
	}
	slog.Info("note assignment toggled", "note_id", saved.ID.Hex(), "user_id", user.ID.Hex(), "assigned", assigned)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   message,
		"savedNote": saved,
		"user": models.UserView{
			ID:        user.ID,
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
			Username:  user.Username,
			Email:     user.Email,
		},
	})
}

type togglePrivateRequest struct {
	NoteID string `json:"noteId"`
}

func (s *Server) handleTogglePrivate(w http.ResponseWriter, r *http.Request) {
	requester, _ := Requester(r.Context())

	var req togglePrivateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var check problems
	id := check.requireObjectID(req.NoteID, "noteId")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.store.NoteByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if note.Creator != requester {
		writeError(w, &apiError{Status: http.StatusForbidden, Message: "Not authorized!"})
		return
	}

	if _, err := s.store.TogglePrivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("note privacy toggled", "note_id", id.Hex())
	writeJSON(w, http.StatusOK, map[string]any{"message": "Toggled note privacy."})
}
