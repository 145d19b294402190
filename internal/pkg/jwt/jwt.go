package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	Email string `json:"email,omitempty"`

	jwtlib.RegisteredClaims
}

// UserID parses the subject claim. Tokens carry the user's UUID there.
func (c Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// Issuer signs and validates HS256 access tokens for the development backend.
type Issuer struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(userID uuid.UUID, email string) (string, error) {
	if len(i.secret) == 0 || i.ttl <= 0 {
		return "", ErrTokenInvalid
	}

	now := i.now().UTC()
	c := Claims{
		Email: email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(i.secret)
}

func (i *Issuer) Validate(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

// ExpiresAt reads the exp claim without verifying the signature. The client
// never holds the backend's signing key; it only needs to know whether a
// token it already trusts has aged out. The zero time means the token carries
// no expiry and should be sent as-is.
func ExpiresAt(tokenString string) (time.Time, error) {
	p := jwtlib.NewParser()

	var c Claims
	if _, _, err := p.ParseUnverified(tokenString, &c); err != nil {
		return time.Time{}, ErrTokenInvalid
	}
	if c.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return c.ExpiresAt.Time, nil
}
