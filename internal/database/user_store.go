package database

import (
	"context"
	"fmt"

	"github.com/nfrund/agora/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealUserStore resolves platform users from SurrealDB. The coordination
// layer never writes users; account management belongs to the main
// application.
type SurrealUserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.UserDirectory = (*SurrealUserStore)(nil)

// NewSurrealUserStore creates a new SurrealUserStore.
func NewSurrealUserStore(db *surrealdb.DB, ns, dbName string) *SurrealUserStore {
	return &SurrealUserStore{db: db, ns: ns, dbName: dbName}
}

// Resolve queries for a single user by username.
func (s *SurrealUserStore) Resolve(ctx context.Context, username string) (*domain.User, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := "SELECT * FROM user WHERE username = $username"
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"username": username})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
