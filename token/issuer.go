// Package token issues and validates the signed bearer tokens returned by
// login. A token's cryptographic validity is independent of the session row
// that shares its string; the auth service checks both.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims carries the authenticated subject (the user's email) plus the
// registered expiry and issue timestamps.
type Claims struct {
	jwtlib.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens with a process-wide secret.
// The secret is loaded once at startup; rotating it invalidates every
// outstanding token.
type Issuer struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

type IssuerOption func(*Issuer)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(secret string, ttl time.Duration, options ...IssuerOption) *Issuer {
	issuer := &Issuer{
		secret:  []byte(secret),
		ttl:     ttl,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer
}

// Issue signs a token for the subject with expiry now + ttl.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.nowFunc()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.Issue] SignedString")
	}
	return signed, nil
}

// Decode parses and verifies a token string. Only HS256 is accepted.
func (i *Issuer) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenString, claims,
		func(t *jwtlib.Token) (interface{}, error) { return i.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(i.nowFunc),
	)

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid), errors.Is(err, jwtlib.ErrTokenUnverifiable):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwtlib.ErrTokenMalformed):
		return nil, ErrMalformedToken
	default:
		return nil, errors.Wrap(ErrMalformedToken, err.Error())
	}
}
