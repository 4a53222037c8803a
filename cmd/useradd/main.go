// Command useradd creates an account directly in the store,
// prompting for the password on the terminal. Intended for bootstrapping
// the first accounts without going through the signup endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"notehub/internal/auth"
	"notehub/internal/config"
	"notehub/internal/models"
	"notehub/internal/store"
)

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/useradd <username> <email> <firstname> <lastname>")
		os.Exit(2)
	}
	username := strings.TrimSpace(os.Args[1])
	email := strings.TrimSpace(strings.ToLower(os.Args[2]))
	firstname := strings.TrimSpace(os.Args[3])
	lastname := strings.TrimSpace(os.Args[4])
	if username == "" || email == "" {
		fmt.Fprintln(os.Stderr, "username and email must not be empty")
		os.Exit(2)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	confirm, err := promptPassword("Confirm: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = st.Close(closeCtx)
	}()
	if err := st.EnsureIndexes(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	user, err := st.CreateUser(ctx, models.User{
		Firstname: firstname,
		Lastname:  lastname,
		Username:  username,
		Email:     email,
		Password:  hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			fmt.Fprintf(os.Stderr, "a user with email %s already exists\n", email)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "created user %s (%s)\n", username, user.ID.Hex())
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}
