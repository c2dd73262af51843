package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
)

type stubUserRepo struct {
	users    map[string]*domain.User // keyed by email
	createFn func(ctx context.Context, user *domain.User) (*domain.User, error)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if r.createFn != nil {
		return r.createFn(ctx, user)
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	created.ID = "id-" + user.Email
	r.users[user.Email] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailAndLoginType(_ context.Context, email, loginType string) (*domain.User, error) {
	if u, ok := r.users[email]; ok && u.LoginType == loginType {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

// fakeHasher keeps service tests fast; bcrypt itself is covered in the
// crypto package tests.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Compare(plaintext, hash string) bool   { return hash == "hashed:"+plaintext }

type stubCache struct {
	users       []domain.User
	warm        bool
	sets        int
	invalidated int
}

func (c *stubCache) Get(context.Context) ([]domain.User, bool, error) {
	return c.users, c.warm, nil
}

func (c *stubCache) Set(_ context.Context, users []domain.User) error {
	c.users = users
	c.warm = true
	c.sets++
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.users = nil
	c.warm = false
	c.invalidated++
	return nil
}

func newTestAuthService(repo *stubUserRepo, cache *stubCache) ports.AuthService {
	tokens, _ := NewTokenService("secret")
	return NewAuthService(repo, fakeHasher{}, tokens, cache, zerolog.Nop())
}

func emailSignUp(email string) ports.SignUpInput {
	return ports.SignUpInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     email,
		Password:  "secret123",
		LoginType: domain.LoginTypeEmail,
	}
}

func TestAuthService_SignUp_Email(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubCache{}
	svc := newTestAuthService(repo, cache)

	result, err := svc.SignUp(context.Background(), emailSignUp("ada@example.com"))
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected Created=true")
	}
	if result.Token != "" {
		t.Fatalf("email sign-up must not issue a token, got %q", result.Token)
	}
	if result.User.PasswordHash == "secret123" {
		t.Fatalf("expected password to be hashed")
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation on create, got %d", cache.invalidated)
	}
}

func TestAuthService_SignUp_UnknownLoginType(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubCache{})

	in := emailSignUp("ada@example.com")
	in.LoginType = "facebook"
	if _, err := svc.SignUp(context.Background(), in); !errors.Is(err, domain.ErrInvalidLoginType) {
		t.Fatalf("expected ErrInvalidLoginType, got %v", err)
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubCache{})

	if _, err := svc.SignUp(context.Background(), emailSignUp("ada@example.com")); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}

	in := emailSignUp("ada@example.com")
	in.Username = "someone-else"
	if _, err := svc.SignUp(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignUp_GoogleNewUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubCache{})

	in := emailSignUp("g@example.com")
	in.LoginType = domain.LoginTypeGoogle
	in.Password = ""

	result, err := svc.SignUp(context.Background(), in)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected Created=true")
	}
	if result.Token == "" {
		t.Fatalf("google sign-up must issue a token")
	}
	// A placeholder secret must have been generated and hashed.
	hash := result.User.PasswordHash
	if hash == "" || hash == "hashed:" {
		t.Fatalf("expected placeholder password hash, got %q", hash)
	}
	if strings.Contains(hash, "secret123") {
		t.Fatalf("placeholder must not reuse a real password")
	}
}

func TestAuthService_SignUp_GoogleReturningUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubCache{})

	in := emailSignUp("g@example.com")
	in.LoginType = domain.LoginTypeGoogle

	first, err := svc.SignUp(context.Background(), in)
	if err != nil {
		t.Fatalf("first SignUp: %v", err)
	}

	second, err := svc.SignUp(context.Background(), in)
	if err != nil {
		t.Fatalf("second SignUp: %v", err)
	}
	if second.Created {
		t.Fatalf("expected returning user, got Created=true")
	}
	if second.Token == "" {
		t.Fatalf("returning google user must receive a token")
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected the same account, got %s vs %s", second.User.ID, first.User.ID)
	}
}

func TestAuthService_SignUp_GoogleCreateRace(t *testing.T) {
	repo := newStubUserRepo()
	winner := &domain.User{ID: "id-winner", Email: "g@example.com", LoginType: domain.LoginTypeGoogle}
	// Lookup misses, then the insert loses the race to a concurrent sign-up.
	repo.createFn = func(_ context.Context, _ *domain.User) (*domain.User, error) {
		repo.users[winner.Email] = winner
		return nil, domain.ErrUserExists
	}
	svc := newTestAuthService(repo, &stubCache{})

	in := emailSignUp("g@example.com")
	in.LoginType = domain.LoginTypeGoogle

	result, err := svc.SignUp(context.Background(), in)
	if err != nil {
		t.Fatalf("expected race to resolve to the winner, got %v", err)
	}
	if result.Created {
		t.Fatalf("race loser must not report a fresh account")
	}
	if result.User.ID != "id-winner" || result.Token == "" {
		t.Fatalf("expected winner's account with a token, got %+v", result)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubCache{})

	if _, err := svc.SignUp(context.Background(), emailSignUp("ada@example.com")); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, user, err := svc.SignIn(context.Background(), "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user == nil || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubCache{})

	_, _ = svc.SignUp(context.Background(), emailSignUp("ada@example.com"))

	if _, _, err := svc.SignIn(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubCache{})

	if _, _, err := svc.SignIn(context.Background(), "x@y.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ListUsers_PopulatesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := &stubCache{}
	svc := newTestAuthService(repo, cache)

	_, _ = svc.SignUp(context.Background(), emailSignUp("ada@example.com"))

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache to be populated, sets=%d", cache.sets)
	}

	// Second read is served from the cache.
	if _, err := svc.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers (cached): %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cached read must not re-populate, sets=%d", cache.sets)
	}
}
