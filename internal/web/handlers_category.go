package web

import (
	"log/slog"
	"net/http"
	"strings"
)

type createCategoryRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, validationFailed([]string{"Title must not be empty."}))
		return
	}
	exists, err := s.store.CategoryTitleExists(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, validationFailed([]string{`"` + title + `" already exists!`}))
		return
	}

	category, err := s.store.CreateCategory(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("category created", "category_id", category.ID.Hex())
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Category created successfully!",
		"category": category,
	})
}

type getCategoriesRequest struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	NoPaginate bool `json:"noPaginate"`
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	req := getCategoriesRequest{Page: 1, PerPage: 5}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	var check problems
	check.requirePage(req.Page, req.PerPage)
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	categories, total, err := s.store.Categories(r.Context(), req.Page, req.PerPage, req.NoPaginate)
	if err != nil {
		writeError(w, err)
		return
	}

	totalItems := int(total)
	slog.Info("fetched categories", "total_items", totalItems)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Fetched categories successfully.",
		"categories":  categories,
		"totalItems":  totalItems,
		"currentPage": req.Page,
		"hasNext":     totalItems-req.Page*req.PerPage > 0,
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var check problems
	id := check.requireObjectID(r.PathValue("categoryId"), "categoryId")
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		check.add("Title must not be empty.")
	}
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.store.CategoryByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	exists, err := s.store.CategoryTitleExists(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, validationFailed([]string{`"` + title + `" already exists!`}))
		return
	}

	category, err := s.store.UpdateCategory(r.Context(), id, title)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("category updated", "category_id", category.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Category updated!",
		"category": category,
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	var check problems
	id := check.requireObjectID(r.PathValue("categoryId"), "categoryId")
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.store.CategoryByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	inUse, err := s.store.CountNotesInCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if inUse > 0 {
		writeError(w, &apiError{Status: http.StatusConflict, Message: "Cannot delete category that belongs to a Note(s)"})
		return
	}

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("category deleted", "category_id", id.Hex())
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted Category."})
}
