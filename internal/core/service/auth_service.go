package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskhive/account-service/internal/core/domain"
	"github.com/taskhive/account-service/internal/core/ports"
)

// UserListCache abstracts the read cache for user listings (Redis). A cache
// failure is never fatal — reads fall through to the repository.
type UserListCache interface {
	Get(ctx context.Context) ([]domain.User, bool, error)
	Set(ctx context.Context, users []domain.User) error
	Invalidate(ctx context.Context) error
}

type authService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	cache  UserListCache
	log    zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	cache UserListCache,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		log:    log,
	}
}

// SignUp creates an account, or for google accounts resolves a returning
// user in a single upsert-on-first-login operation. The email uniqueness
// race between two concurrent google sign-ups is settled by the store: the
// loser's duplicate error is converted into a lookup of the winner's record.
func (s *authService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
	loginType := in.LoginType
	if loginType == "" {
		loginType = domain.LoginTypeEmail
	}
	// The transport schema already restricts the value; this guards callers
	// that bypass the HTTP layer.
	if !domain.ValidLoginType(loginType) {
		return nil, domain.ErrInvalidLoginType
	}

	if loginType == domain.LoginTypeGoogle {
		existing, err := s.repo.FindByEmailAndLoginType(ctx, in.Email, domain.LoginTypeGoogle)
		switch {
		case err == nil:
			return s.returningUser(existing)
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("sign up: %w", err)
		}
	}

	password := in.Password
	if password == "" && loginType == domain.LoginTypeGoogle {
		// Google accounts never carry a user-chosen secret; hash a
		// generated placeholder so the record shape stays uniform.
		password = uuid.NewString()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("sign up: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		LoginType:    loginType,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) && loginType == domain.LoginTypeGoogle {
			// Lost the creation race to a concurrent google sign-in.
			winner, findErr := s.repo.FindByEmailAndLoginType(ctx, in.Email, domain.LoginTypeGoogle)
			if findErr == nil {
				return s.returningUser(winner)
			}
		}
		return nil, err
	}

	if invErr := s.cache.Invalidate(ctx); invErr != nil {
		s.log.Warn().Err(invErr).Msg("failed to invalidate user list cache")
	}

	result := &ports.SignUpResult{User: created, Created: true}
	if loginType == domain.LoginTypeGoogle {
		token, err := s.tokens.Sign(ports.TokenClaims{UserID: created.ID, Email: created.Email})
		if err != nil {
			return nil, fmt.Errorf("sign up: issue token: %w", err)
		}
		result.Token = token
	}

	s.log.Info().
		Str("email", created.Email).
		Str("logintype", loginType).
		Msg("user created")

	return result, nil
}

func (s *authService) returningUser(user *domain.User) (*ports.SignUpResult, error) {
	token, err := s.tokens.Sign(ports.TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("sign up: issue token: %w", err)
	}
	return &ports.SignUpResult{User: user, Token: token, Created: false}, nil
}

// SignIn authenticates an email/password pair and issues a token. A password
// mismatch surfaces as domain.ErrInvalidCredentials with no hint about which
// part was wrong.
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(ports.TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, fmt.Errorf("sign in: issue token: %w", err)
	}

	return token, user, nil
}

// ListUsers returns all accounts, preferring the cache when warm.
func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("user list cache read failed, falling back to store")
	} else if ok {
		return users, nil
	}

	users, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if err := s.cache.Set(ctx, users); err != nil {
		s.log.Warn().Err(err).Msg("failed to populate user list cache")
	}

	return users, nil
}
