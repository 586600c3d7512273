package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"atelier/internal/models"
	"atelier/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// UserStore is the slice of the user service the auth handlers use.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler serves login, logout and session introspection.
type AuthHandler struct {
	users    UserStore
	sessions *auth.SessionAuth
}

func NewAuthHandler(users UserStore, sessions *auth.SessionAuth) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// Login handles POST /api/auth/login. On success the session token is set
// as an HTTP-only cookie and also returned for non-browser clients.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	user, err := h.users.GetByEmail(c.Context(), body.Email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("❌ Login lookup failed: %v", err)
		}
		return invalidCredentials(c)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, body.Password)
	if err != nil || !ok {
		log.Printf("⚠️  Failed login attempt for %s", body.Email)
		return invalidCredentials(c)
	}

	token, err := h.sessions.GenerateSessionToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		log.Printf("❌ Failed to sign session token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.sessions.SessionExpiry),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	log.Printf("✅ Authenticated user: %s", user.Email)
	return c.JSON(fiber.Map{
		"token": token,
		"user": auth.User{
			ID:    user.ID.Hex(),
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /api/auth/me behind the session middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(auth.User{
		ID:    localString(c, "user_id"),
		Email: localString(c, "user_email"),
		Role:  localString(c, "user_role"),
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid email or password",
	})
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
