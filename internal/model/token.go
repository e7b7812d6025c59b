package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the decoded access-token claim set. Exp and Iat are unix
// seconds so that a stored claim set compares bit-for-bit against a decoded
// one during refresh.
type AccessClaims struct {
	Exp  int64        `json:"exp"`
	Iat  int64        `json:"iat"`
	Iss  string       `json:"iss,omitempty"`
	Jti  string       `json:"jti"`
	Sub  string       `json:"sub"`
	User UserSnapshot `json:"user"`
}

func (c *AccessClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

func (c *AccessClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

func (c *AccessClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *AccessClaims) GetIssuer() (string, error) {
	return c.Iss, nil
}

func (c *AccessClaims) GetSubject() (string, error) {
	return c.Sub, nil
}

func (c *AccessClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

func (c *AccessClaims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0)
}

// Equal reports whether two claim sets match exactly. Refresh uses this to
// reject a token whose signature is valid but whose claims no longer match
// the stored pair.
func (c *AccessClaims) Equal(other *AccessClaims) bool {
	if other == nil {
		return false
	}
	return c.Exp == other.Exp &&
		c.Iat == other.Iat &&
		c.Iss == other.Iss &&
		c.Jti == other.Jti &&
		c.Sub == other.Sub &&
		c.User.Equal(other.User)
}

// TokenPair is the durable record linking a jti, its full claim set and the
// paired refresh-token value.
type TokenPair struct {
	Jti          string       `json:"jti"`
	Claims       AccessClaims `json:"claims"`
	RefreshToken string       `json:"refreshToken"`
	CreatedAt    time.Time    `json:"createdAt"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}
