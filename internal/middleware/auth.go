package middleware

import (
	"log"

	"atelier/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// SessionAuthMiddleware verifies the admin session on protected routes.
// The session cookie is checked first; a Bearer header works as a fallback
// for API clients. API routes get a 401 JSON body, page routes redirect to
// the login form.
func SessionAuthMiddleware(sessions *auth.SessionAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.SessionCookieName)

		if token == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				if extracted, err := auth.ExtractToken(authHeader); err == nil {
					token = extracted
				}
			}
		}

		if token == "" {
			return reject(c)
		}

		user, err := sessions.VerifySessionToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return reject(c)
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("user_role", user.Role)
		return c.Next()
	}
}

// OptionalSessionMiddleware populates the session locals when a valid
// session is presented but never rejects the request. Public read routes use
// it so admin sessions see their drafts while anonymous readers fall through
// to the published view.
func OptionalSessionMiddleware(sessions *auth.SessionAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.SessionCookieName)

		if token == "" {
			if authHeader := c.Get("Authorization"); authHeader != "" {
				if extracted, err := auth.ExtractToken(authHeader); err == nil {
					token = extracted
				}
			}
		}

		if token != "" {
			if user, err := sessions.VerifySessionToken(token); err == nil {
				c.Locals("user_id", user.ID)
				c.Locals("user_email", user.Email)
				c.Locals("user_role", user.Role)
			}
		}
		return c.Next()
	}
}

func reject(c *fiber.Ctx) error {
	if isAPIRoute(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing or invalid session",
		})
	}
	return c.Redirect("/login", fiber.StatusFound)
}

func isAPIRoute(c *fiber.Ctx) bool {
	path := c.Path()
	return len(path) >= 5 && path[:5] == "/api/"
}
