package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/cryptox"
	"github.com/rmachado/storeauth/internal/server/auth"
	"github.com/rmachado/storeauth/internal/server/config"
)

// RegisterInput carries the registration fields as received from a caller.
// There is deliberately no admin flag here: the public registration path
// always creates a regular account, and only RegisterAdmin (reachable from
// the internal CLI, never an HTTP route) grants elevated access.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	NationalID string
	Contact    string
	BirthDate  string
}

// AuthResult is what a successful registration or login hands back:
// a stripped user record and a bearer token for it.
type AuthResult struct {
	User  *PublicUser
	Token string
}

type Service struct {
	repo                  Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a regular (non-admin) account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	return s.register(ctx, in, false)
}

// RegisterAdmin creates an account with the admin flag set. Callers are
// trusted by construction; nothing routes end-user input here.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	return s.register(ctx, in, true)
}

func (s *Service) register(ctx context.Context, in RegisterInput, admin bool) (*AuthResult, error) {

	if in.Email == "" || in.Password == "" {
		return nil, common.ErrMissingCredentials
	}

	// Advisory pre-checks for friendly errors. The unique indexes on the
	// users table remain the source of truth under concurrent requests;
	// Create reports a lost race as the same duplicate sentinels.
	_, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	identityDigest := cryptox.DigestIdentity(in.NationalID)

	_, err = s.repo.FindByIdentityDigest(ctx, identityDigest)
	if err == nil {
		return nil, common.ErrDuplicateIdentity
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	passwordDigest, err := cryptox.DigestSecret(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		PasswordDigest: passwordDigest,
		IdentityDigest: identityDigest,
		ContactDigest:  cryptox.DigestIdentity(in.Contact),
		BirthDate:      in.BirthDate,
		Admin:          admin,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) || errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(user)
}

// Login verifies the email/password pair and issues a bearer token.
// An unknown email and a wrong password are indistinguishable to the
// caller: both return common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	if email == "" || password == "" {
		return nil, common.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifySecret(password, user.PasswordDigest) {
		return nil, common.ErrInvalidCredentials
	}

	return s.authResult(user)
}

// GetUser returns the public view of the account with the given id. It
// reports common.ErrorNotFound when the account no longer exists, which
// matters for tokens that outlive their subject.
func (s *Service) GetUser(ctx context.Context, id string) (*PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user.Public(), nil
}

// ListUsers returns the public view of every account. The HTTP layer gates
// this behind the admin middleware.
func (s *Service) ListUsers(ctx context.Context) ([]*PublicUser, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := make([]*PublicUser, 0, len(all))
	for _, u := range all {
		result = append(result, u.Public())
	}
	return result, nil
}

func (s *Service) authResult(user *User) (*AuthResult, error) {
	public := user.Public()

	token, err := auth.GenerateToken(public.ID, public.Email, public.Name, public.Admin, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: public, Token: token}, nil
}
