package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/dbx"
)

// Unique index names from the users migration. Conflicts on these map to
// the duplicate sentinels, which is what actually closes the
// check-then-create race: the pre-checks in the service are advisory only.
const (
	emailUniqueConstraint    = "users_email_key"
	identityUniqueConstraint = "users_identity_digest_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (id, name, email, password_digest, identity_digest, contact_digest, birth_date, admin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordDigest,
		user.IdentityDigest, user.ContactDigest, user.BirthDate, user.Admin).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case emailUniqueConstraint:
				return nil, common.ErrDuplicateEmail
			case identityUniqueConstraint:
				return nil, common.ErrDuplicateIdentity
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query :=
		`SELECT id, name, email, password_digest, identity_digest, contact_digest, birth_date, admin, created_at
		 FROM users
		 WHERE id = $1
		 `

	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, name, email, password_digest, identity_digest, contact_digest, birth_date, admin, created_at
		 FROM users
		 WHERE email = $1
		 `

	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByIdentityDigest(ctx context.Context, digest string) (*User, error) {
	query :=
		`SELECT id, name, email, password_digest, identity_digest, contact_digest, birth_date, admin, created_at
		 FROM users
		 WHERE identity_digest = $1
		 `

	return r.findOne(ctx, query, digest)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordDigest,
		&user.IdentityDigest, &user.ContactDigest, &user.BirthDate, &user.Admin, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query :=
		`SELECT id, name, email, password_digest, identity_digest, contact_digest, birth_date, admin, created_at
		 FROM users
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordDigest,
			&user.IdentityDigest, &user.ContactDigest, &user.BirthDate, &user.Admin, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
