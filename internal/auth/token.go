package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "clubdeck"

var ErrInvalidToken = errors.New("invalid session token")

// Claims is what a session token vouches for. The role is informational;
// resuming a session re-reads the user record.
type Claims struct {
	Username  string
	Role      domain.Role
	SessionID uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for the session's current identity.
func (ti *TokenIssuer) Issue(s *Session) (string, error) {
	if len(ti.secret) == 0 {
		return "", fmt.Errorf("%w: signing secret is empty", ErrInvalidToken)
	}
	u, err := s.Current()
	if err != nil {
		return "", err
	}
	now := ti.now()
	claims := sessionClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.Username,
			ID:        s.ID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm, issuer and expiry.
func (ti *TokenIssuer) Parse(token string) (Claims, error) {
	if len(ti.secret) == 0 {
		return Claims{}, fmt.Errorf("%w: signing secret is empty", ErrInvalidToken)
	}
	var c sessionClaims
	tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return ti.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.Role == "" {
		return Claims{}, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}
	sid, err := uuid.Parse(c.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: bad session id: %v", ErrInvalidToken, err)
	}
	out := Claims{
		Username:  c.Subject,
		Role:      domain.Role(c.Role),
		SessionID: sid,
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	return out, nil
}
