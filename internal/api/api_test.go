package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/account-service/internal/api/handler"
	"github.com/taskhive/account-service/internal/api/middleware"
	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
	"github.com/taskhive/account-service/internal/core/service"
)

type fixedAuthService struct {
	signUpFn func(ctx context.Context, in ports.SignUpInput) (*ports.SignUpResult, error)
	signInFn func(ctx context.Context, email, password string) (string, *domain.User, error)
	users    []domain.User
}

func (s *fixedAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
	return s.signUpFn(ctx, in)
}

func (s *fixedAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.signInFn(ctx, email, password)
}

func (s *fixedAuthService) ListUsers(context.Context) ([]domain.User, error) {
	return s.users, nil
}

// newTestServer wires the gate, handlers, validator and error handler the
// same way NewRouter does, minus the real Mongo/Redis dependencies.
func newTestServer(t *testing.T, svc ports.AuthService) (*echo.Echo, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService("secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Gate(tokens))

	h := handler.NewAuthHandler(svc, false)
	e.POST("/api/signup", h.SignUp)
	e.POST("/api/signin", h.SignIn)
	e.GET("/api/user", h.Users)

	return e, tokens
}

func doJSON(e *echo.Echo, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPI_SignIn_WrongPassword(t *testing.T) {
	// a@b.com is registered; the password on file is secret123.
	svc := &fixedAuthService{
		signInFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email == "a@b.com" && password == "secret123" {
				return "tok", &domain.User{ID: "u1", Email: email}, nil
			}
			if email == "a@b.com" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "", nil, domain.ErrUserNotFound
		},
	}
	e, _ := newTestServer(t, svc)

	rec := doJSON(e, http.MethodPost, "/api/signin", `{"email":"a@b.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "Invalid credentials" || body["status"] != false {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAPI_SignIn_UnknownEmail(t *testing.T) {
	svc := &fixedAuthService{
		signInFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserNotFound
		},
	}
	e, _ := newTestServer(t, svc)

	rec := doJSON(e, http.MethodPost, "/api/signin", `{"email":"x@y.com","password":"whatever"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "User not found" || body["status"] != false {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAPI_SignUp_IsPublic(t *testing.T) {
	svc := &fixedAuthService{
		signUpFn: func(_ context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
			return &ports.SignUpResult{
				User:    &domain.User{ID: "u1", Email: in.Email},
				Created: true,
			}, nil
		},
	}
	e, _ := newTestServer(t, svc)

	// No Authorization header: the gate must let the sign-up through.
	rec := doJSON(e, http.MethodPost, "/api/signup",
		`{"firstname":"Ada","lastname":"Lovelace","username":"ada","email":"ada@example.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_UserList_RequiresToken(t *testing.T) {
	svc := &fixedAuthService{users: []domain.User{{ID: "u1", Email: "a@b.com"}}}
	e, tokens := newTestServer(t, svc)

	rec := doJSON(e, http.MethodGet, "/api/user", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	token, err := tokens.Sign(ports.TokenClaims{UserID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	rec = doJSON(e, http.MethodGet, "/api/user", "", header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a token, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != true {
		t.Fatalf("expected status true, got %v", body["status"])
	}
}

func TestAPI_SignUpThenSignIn_RoundTrip(t *testing.T) {
	// Backed by an in-memory "store" to exercise the full contract: a
	// created account can immediately sign in and the token's claims carry
	// the account email.
	registered := map[string]string{}
	svc := &fixedAuthService{}
	svc.signUpFn = func(_ context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
		if _, ok := registered[in.Email]; ok {
			return nil, domain.ErrUserExists
		}
		registered[in.Email] = in.Password
		return &ports.SignUpResult{User: &domain.User{ID: "u1", Email: in.Email}, Created: true}, nil
	}

	e, tokens := newTestServer(t, svc)
	svc.signInFn = func(_ context.Context, email, password string) (string, *domain.User, error) {
		stored, ok := registered[email]
		if !ok {
			return "", nil, domain.ErrUserNotFound
		}
		if stored != password {
			return "", nil, domain.ErrInvalidCredentials
		}
		token, err := tokens.Sign(ports.TokenClaims{UserID: "u1", Email: email})
		return token, &domain.User{ID: "u1", Email: email}, err
	}

	signupBody := `{"firstname":"Ada","lastname":"Lovelace","username":"ada","email":"ada@example.com","password":"secret123"}`
	if rec := doJSON(e, http.MethodPost, "/api/signup", signupBody, nil); rec.Code != http.StatusCreated {
		t.Fatalf("sign-up: expected 201, got %d", rec.Code)
	}

	// Duplicate sign-up with the same email is a conflict regardless of the
	// other fields.
	dupBody := `{"firstname":"Eve","lastname":"Other","username":"eve","email":"ada@example.com","password":"different"}`
	rec := doJSON(e, http.MethodPost, "/api/signup", dupBody, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate sign-up: expected 400, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/signin", `{"email":"ada@example.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	claims, err := tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("token claims carry wrong email: %q", claims.Email)
	}
}
