// Package db wires database connections, migrations and repositories.
package db

import (
	"context"

	"github.com/rmachado/storeauth/internal/server/users"
)

// RepositoryManager hands out the repositories backed by a shared
// connection pool.
type RepositoryManager interface {
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
