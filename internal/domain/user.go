package domain

import "context"

// User is the minimal projection of a platform account that the
// coordination layer needs. Account management itself is owned by the main
// application; we only ever resolve users by name.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// UserDirectory resolves usernames against the platform's user storage.
// It lives in the domain because it is a requirement OF the domain, not of
// the database implementation.
type UserDirectory interface {
	// Resolve returns the user for the given username, or ErrUserNotFound.
	Resolve(ctx context.Context, username string) (*User, error)
}
