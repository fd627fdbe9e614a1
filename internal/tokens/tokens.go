package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a minted session token stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers malformed, forged, wrongly-signed and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec mints and verifies HS256 session tokens with a process-wide secret.
// The signing method is pinned; the token header's alg is never trusted.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a codec for secret. A zero ttl means DefaultSessionTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime applied to minted tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint creates a signed token for subject expiring after the codec TTL.
func (c *Codec) Mint(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("mint session token: empty subject")
	}
	now := c.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the token claims.
func (c *Codec) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &claims, nil
}
