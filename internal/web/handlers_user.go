package web

import (
	"log/slog"
	"net/http"

	"notehub/internal/auth"
	"notehub/internal/models"
	"notehub/internal/store"
)

type signupRequest struct {
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var check problems
	firstname := check.requireMinLen(req.Firstname, "Firstname", 2)
	lastname := check.requireMinLen(req.Lastname, "Lastname", 2)
	username := check.requireMinLen(req.Username, "Username", 5)
	email := check.requireEmail(req.Email)
	if len(req.Password) < 5 || !isAlphanumeric(req.Password) {
		check.add("Please enter a password with only numbers and text and at least 5 characters.")
	}
	if req.ConfirmPassword != req.Password {
		check.add("Passwords have to match!")
	}
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := s.store.CreateUser(r.Context(), models.User{
		Firstname: firstname,
		Lastname:  lastname,
		Username:  username,
		Email:     email,
		Password:  hashed,
	})
	if err != nil {
		if err == store.ErrDuplicateEmail {
			writeError(w, validationFailed([]string{"E-Mail address already exists!"}))
			return
		}
		writeError(w, err)
		return
	}

	slog.Info("user created", "user_id", user.ID.Hex())
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created!",
		"userId":  user.ID.Hex(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var check problems
	email := check.requireEmail(req.Email)
	check.requireMinLen(req.Password, "Password", 5)
	if err := check.err(); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.store.UserByEmail(r.Context(), email)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(w, &apiError{Status: http.StatusUnauthorized, Message: "A user with this email could not be found."})
			return
		}
		writeError(w, err)
		return
	}
	if !auth.VerifyPassword(user.Password, req.Password) {
		writeError(w, &apiError{Status: http.StatusUnauthorized, Message: "Wrong password!"})
		return
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"userId": user.ID.Hex(),
	})
}

func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("fetched users")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Fetched users successfully.",
		"users":   users,
	})
}
