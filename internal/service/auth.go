package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenNotFound    = errors.New("token not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("insufficient permissions")
	ErrTokenMismatch    = errors.New("token claims mismatch")
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type TokenStore interface {
	Create(ctx context.Context, pair *model.TokenPair) error
	GetByID(ctx context.Context, jti string) (*model.TokenPair, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	// DeleteByID must be atomic and idempotent: exactly one caller per jti
	// observes found=true.
	DeleteByID(ctx context.Context, jti string) (bool, error)
}

type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService owns the token lifecycle: it alone decides when a stored pair
// is minted, rotated or revoked.
type AuthService struct {
	users     UserStore
	tokens    TokenStore
	revoked   RevocationList
	codec     *TokenCodec
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

func NewAuthService(users UserStore, tokens TokenStore, revoked RevocationList, codec *TokenCodec, issuer string, accessTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		revoked:   revoked,
		codec:     codec,
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if user == nil {
		zerolog.Ctx(ctx).Warn().Str("email", email).Msg("login attempt for unknown user")
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		// Wrong password and corrupt hash look identical to the caller.
		zerolog.Ctx(ctx).Warn().Str("user_id", user.ID).Msg("password verification failed")
		return nil, ErrUnauthorized
	}

	return s.issue(ctx, user.ID, user.Snapshot())
}

// Logout deletes the stored pair and denylists the jti for the token's
// remaining lifetime. A denylist write failure is an error: revocation fails
// closed, not open.
func (s *AuthService) Logout(ctx context.Context, claims *model.AccessClaims) error {
	found, err := s.tokens.DeleteByID(ctx, claims.Jti)
	if err != nil {
		return fmt.Errorf("token delete failed: %w", err)
	}
	if !found {
		return ErrTokenNotFound
	}

	if err := s.revoked.Revoke(ctx, claims.Jti, claims.ExpiresAt().Sub(s.now())); err != nil {
		return fmt.Errorf("revocation write failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("jti", claims.Jti).Msg("token pair revoked")
	return nil
}

// Refresh rotates a pair: the presented claims must match the stored ones
// exactly, the old pair is revoked, and a new pair is minted reusing the old
// user snapshot. A snapshot taken at login survives refresh unchanged.
func (s *AuthService) Refresh(ctx context.Context, presented *model.AccessClaims, refreshToken string) (*model.TokenResponse, error) {
	pair, err := s.tokens.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token lookup failed: %w", err)
	}
	if pair == nil {
		return nil, ErrTokenNotFound
	}

	if !pair.Claims.Equal(presented) {
		zerolog.Ctx(ctx).Error().Str("jti", pair.Jti).Msg("presented claims do not match stored pair")
		return nil, ErrTokenMismatch
	}

	// Same revocation as logout; losing a race on the delete surfaces as
	// ErrTokenNotFound to the slower caller.
	if err := s.Logout(ctx, &pair.Claims); err != nil {
		return nil, err
	}

	return s.issue(ctx, pair.Claims.Sub, pair.Claims.User)
}

// Authenticate resolves a raw bearer credential into a trusted identity.
// Undecodable, unknown and denylisted tokens are indistinguishable to the
// caller.
func (s *AuthService) Authenticate(ctx context.Context, credential string) (*model.AccessClaims, error) {
	claims, err := s.codec.Decode(credential)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	pair, err := s.tokens.GetByID(ctx, claims.Jti)
	if err != nil {
		return nil, fmt.Errorf("token lookup failed: %w", err)
	}
	if pair == nil {
		return nil, ErrNotAuthenticated
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.Jti)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup failed: %w", err)
	}
	if revoked {
		return nil, ErrNotAuthenticated
	}

	return claims, nil
}

func (s *AuthService) issue(ctx context.Context, sub string, snapshot model.UserSnapshot) (*model.TokenResponse, error) {
	now := s.now()
	claims := &model.AccessClaims{
		Exp:  now.Add(s.accessTTL).Unix(),
		Iat:  now.Unix(),
		Iss:  s.issuer,
		Jti:  uuid.NewString(),
		Sub:  sub,
		User: snapshot,
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	pair := &model.TokenPair{
		Jti:          claims.Jti,
		Claims:       *claims,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		ExpiresAt:    claims.ExpiresAt(),
	}
	if err := s.tokens.Create(ctx, pair); err != nil {
		return nil, fmt.Errorf("token persist failed: %w", err)
	}

	encoded, err := s.codec.Encode(claims)
	if err != nil {
		return nil, fmt.Errorf("token encode failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("jti", claims.Jti).Str("sub", sub).Msg("token pair issued")
	return &model.TokenResponse{
		AccessToken:  encoded,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
