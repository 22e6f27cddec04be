// Package auth verifies the bearer tokens the surrounding identity
// provider issues. Only verification lives here: registration, password
// handling and token issuance belong to that collaborator.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret []byte
}

func New(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// UserID validates an HS256 token and returns the user id carried in the
// subject claim.
func (s *Service) UserID(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return userID, nil
}

// FromAuthorizationHeader resolves an "Authorization: Bearer <token>"
// header value to a user id.
func (s *Service) FromAuthorizationHeader(header string) (int64, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return 0, fmt.Errorf("%w: missing bearer token", ErrInvalidToken)
	}
	return s.UserID(strings.TrimPrefix(header, prefix))
}
