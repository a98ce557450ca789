// Package session carries the authenticated identity of a request.
//
// A Session is built once per request from the verified access token and is
// then passed explicitly to stores, the lifecycle engine and the role gate.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsKey = "session"

var ErrNoSession = errors.New("no session present")

type Session struct {
	UserID uuid.UUID
	Email  string
}

// Present reports whether s identifies a user.
func (s *Session) Present() bool {
	return s != nil && s.UserID != uuid.Nil
}

// FromClaims builds a session from access-token claims.
func FromClaims(claims jwt.MapClaims) (*Session, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}
	email, _ := claims["email"].(string)
	return &Session{UserID: id, Email: email}, nil
}

// Middleware turns the *jwt.Token left in Locals("user") by the JWT
// middleware into a Session.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
		}
		sess, err := FromClaims(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
		}
		c.Locals(localsKey, sess)
		return c.Next()
	}
}

// From returns the session stored by Middleware.
func From(c *fiber.Ctx) (*Session, error) {
	sess, ok := c.Locals(localsKey).(*Session)
	if !ok || !sess.Present() {
		return nil, ErrNoSession
	}
	return sess, nil
}
