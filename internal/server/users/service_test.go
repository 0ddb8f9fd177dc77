package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/cryptox"
	"github.com/rmachado/storeauth/internal/server/auth"
	"github.com/rmachado/storeauth/internal/server/config"
)

// --- helpers ---

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewService(repo, cfg)
}

// fakeRepo enforces uniqueness the way the real table does, so both the
// advisory pre-check path and the create-conflict path are exercised.
type fakeRepo struct {
	users   []*User
	findErr error
	listErr error
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) FindByIdentityDigest(ctx context.Context, digest string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.IdentityDigest == digest {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) Create(ctx context.Context, user *User) (*User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, common.ErrDuplicateEmail
		}
		if u.IdentityDigest == user.IdentityDigest {
			return nil, common.ErrDuplicateIdentity
		}
	}
	user.CreatedAt = time.Now()
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.users, nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:       "Ana",
		Email:      "a@x.com",
		Password:   "secret1",
		NationalID: "12345678900",
		Contact:    "11987654321",
		BirthDate:  "1990-05-01",
	}
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	res, err := s.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if res.User.ID == "" {
		t.Fatalf("expected assigned user id")
	}
	if res.User.Admin {
		t.Fatalf("public registration must not grant admin")
	}
	if res.Token == "" {
		t.Fatalf("expected a token")
	}

	claims, err := auth.ParseToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Email != "a@x.com" || claims.Admin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRegister_PersistsDigestsNotPlaintext(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	if _, err := s.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	stored := repo.users[0]
	if stored.PasswordDigest == "secret1" || stored.PasswordDigest == "" {
		t.Fatalf("password must be stored as a digest, got %q", stored.PasswordDigest)
	}
	if !cryptox.VerifySecret("secret1", stored.PasswordDigest) {
		t.Fatalf("stored digest must verify against the password")
	}
	if stored.IdentityDigest != cryptox.DigestIdentity("12345678900") {
		t.Fatalf("identity digest mismatch")
	}
	if stored.ContactDigest != cryptox.DigestIdentity("11987654321") {
		t.Fatalf("contact digest mismatch")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	if _, err := s.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	in := validInput()
	in.NationalID = "98765432100"
	_, err := s.Register(context.Background(), in)
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestRegister_DuplicateIdentity_ReformattedID(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	if _, err := s.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	in := validInput()
	in.Email = "b@x.com"
	in.NationalID = "123.456.789-00" // same id, punctuated
	_, err := s.Register(context.Background(), in)
	if !errors.Is(err, common.ErrDuplicateIdentity) {
		t.Fatalf("want ErrDuplicateIdentity, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s := newTestService(t, &fakeRepo{})

	for _, in := range []RegisterInput{
		{Email: "", Password: "x"},
		{Email: "a@x.com", Password: ""},
	} {
		_, err := s.Register(context.Background(), in)
		if !errors.Is(err, common.ErrMissingCredentials) {
			t.Fatalf("want ErrMissingCredentials for %+v, got %v", in, err)
		}
	}
}

func TestRegister_RepoFailure(t *testing.T) {
	s := newTestService(t, &fakeRepo{findErr: errors.New("db down")})

	_, err := s.Register(context.Background(), validInput())
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

func TestRegisterAdmin_GrantsAdmin(t *testing.T) {
	s := newTestService(t, &fakeRepo{})

	res, err := s.RegisterAdmin(context.Background(), validInput())
	if err != nil {
		t.Fatalf("RegisterAdmin error: %v", err)
	}
	if !res.User.Admin {
		t.Fatalf("expected admin account")
	}

	claims, err := auth.ParseToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if !claims.Admin {
		t.Fatalf("expected admin claim")
	}
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	reg, err := s.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	res, err := s.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	regClaims, err := auth.ParseToken(reg.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	loginClaims, err := auth.ParseToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if regClaims.UserID != loginClaims.UserID {
		t.Fatalf("both tokens must verify to the same subject: %q vs %q", regClaims.UserID, loginClaims.UserID)
	}
}

func TestLogin_WrongPasswordAndUnknownEmail_Indistinguishable(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	if _, err := s.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, errWrongPass := s.Login(context.Background(), "a@x.com", "wrong")
	_, errNoUser := s.Login(context.Background(), "ghost@x.com", "secret1")

	if !errors.Is(errWrongPass, common.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, common.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Fatalf("errors must not reveal which factor failed")
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	s := newTestService(t, &fakeRepo{})

	for _, pair := range [][2]string{{"", "x"}, {"a@x.com", ""}, {"", ""}} {
		_, err := s.Login(context.Background(), pair[0], pair[1])
		if !errors.Is(err, common.ErrMissingCredentials) {
			t.Fatalf("want ErrMissingCredentials for %v, got %v", pair, err)
		}
	}
}

func TestGetUser_ReturnsPublicView(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	reg, err := s.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, err := s.GetUser(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if got.ID != reg.User.ID || got.Email != "a@x.com" || got.Name != "Ana" {
		t.Fatalf("unexpected public view: %+v", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestService(t, &fakeRepo{})

	_, err := s.GetUser(context.Background(), "gone")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetUser_RepoFailure(t *testing.T) {
	s := newTestService(t, &fakeRepo{findErr: errors.New("db down")})

	_, err := s.GetUser(context.Background(), "u-1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

func TestListUsers_StripsSensitiveFields(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo)

	if _, err := s.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	list, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}
	if list[0].Email != "a@x.com" || list[0].ID == "" {
		t.Fatalf("unexpected public view: %+v", list[0])
	}
}
