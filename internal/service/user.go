package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/netcode-labs/auth-service/internal/db"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserAlreadyExists = errors.New("user already exists")

type UserService struct {
	users UserStore
	now   func() time.Time
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Register creates a user. Email and username must be unique among live
// users; the uniqueness check races with concurrent registrations, so the
// store's duplicate error is mapped to the same conflict.
func (s *UserService) Register(ctx context.Context, email, username, password, displayName string) (string, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		return "", ErrUserAlreadyExists
	}

	existing, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		return "", ErrUserAlreadyExists
	}

	user, err := s.newUser(email, username, password, displayName, nil)
	if err != nil {
		return "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return "", ErrUserAlreadyExists
		}
		return "", fmt.Errorf("user create failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return user.ID, nil
}

// EnsureAdmin seeds a bootstrap user with the root role so that a fresh
// deployment has someone allowed to call the registration endpoint. No-op
// when the admin credentials are not configured or the user already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		return nil
	}

	user, err := s.newUser(email, username, password, username, []string{"root"})
	if err != nil {
		return err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("admin create failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Msg("admin user seeded")
	return nil
}

func (s *UserService) newUser(email, username, password, displayName string, roles []string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash failed: %w", err)
	}

	if roles == nil {
		roles = []string{}
	}

	return &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Roles:        roles,
		CreatedAt:    s.now(),
	}, nil
}
