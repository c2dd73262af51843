package ports

import (
	"context"

	"github.com/taskhive/account-service/internal/core/domain"
)

// UserRepository defines the interface for account persistence. The backing
// store must enforce email uniqueness atomically: concurrent inserts with the
// same email resolve to exactly one success and one domain.ErrUserExists.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailAndLoginType(ctx context.Context, email, loginType string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
