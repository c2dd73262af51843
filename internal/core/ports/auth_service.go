package ports

import (
	"context"

	"github.com/taskhive/account-service/internal/core/domain"
)

// SignUpInput is the DTO passed from the transport layer to AuthService.
type SignUpInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	LoginType string // defaults to domain.LoginTypeEmail when empty
}

// SignUpResult distinguishes a freshly created account from a returning
// google account resolved by the upsert-on-first-login flow.
type SignUpResult struct {
	User    *domain.User
	Token   string // empty for plain email sign-ups
	Created bool
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
