package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	id := uuid.New()
	sess, err := FromClaims(jwt.MapClaims{"sub": id.String(), "email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, id, sess.UserID)
	assert.Equal(t, "a@b.c", sess.Email)
	assert.True(t, sess.Present())

	_, err = FromClaims(jwt.MapClaims{"email": "a@b.c"})
	assert.Error(t, err)

	_, err = FromClaims(jwt.MapClaims{"sub": "not-a-uuid"})
	assert.Error(t, err)
}

func TestPresent(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Present())
	assert.False(t, (&Session{}).Present())
}

func TestMiddleware(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Test-Token") == "yes" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": id.String()}})
		}
		return c.Next()
	})
	app.Use(Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		sess, err := From(c)
		if err != nil {
			return err
		}
		return c.SendString(sess.UserID.String())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Test-Token", "yes")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
