package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// TokenService issues and validates HS256 bearer tokens. The subject is the
// identifier the client logged in with; it is resolved again on every use.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewTokenService(secret string, ttl time.Duration, logger zerolog.Logger) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error signing token")
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate returns the token subject, or ErrTokenExpired, ErrTokenSignature
// or ErrTokenMalformed.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", newError(ErrTokenExpired, "Token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", newError(ErrTokenSignature, "Token signature is invalid")
	default:
		return "", newError(ErrTokenMalformed, "Token is malformed")
	}

	if claims.Subject == "" {
		return "", newError(ErrTokenMalformed, "Token has no subject")
	}
	return claims.Subject, nil
}
