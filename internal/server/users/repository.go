package users

import "context"

// Repository is the narrow storage surface the auth core depends on.
type Repository interface {
	// FindByID returns the user with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIdentityDigest returns the user whose hashed national id
	// matches digest, or common.ErrorNotFound.
	FindByIdentityDigest(ctx context.Context, digest string) (*User, error)

	// Create persists the user. A unique-index conflict surfaces as
	// common.ErrDuplicateEmail or common.ErrDuplicateIdentity.
	Create(ctx context.Context, user *User) (*User, error)

	// List returns every account, newest first.
	List(ctx context.Context) ([]*User, error)
}
