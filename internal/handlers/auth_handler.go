package handlers

import (
	"errors"
	"log"
	"time"

	"folio/internal/services"
	"folio/internal/sessions"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	sessionTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler. sessionTTL controls the cookie
// lifetime and must match the session store's TTL.
func NewAuthHandler(authService *services.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		sessionTTL:  sessionTTL,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// CredentialsRequest represents the request body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister handles new user registration and logs the user in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	token, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Email already used",
			})
		}
		log.Printf("Error registering user %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{"ok": true})
}

// HandleLogin handles user login and issues a session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{"ok": true})
}

// HandleLogout destroys the current session, if any, and clears the cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	token := c.Cookies(sessions.CookieName)
	if err := h.authService.Logout(token); err != nil {
		log.Printf("Error during logout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not logout",
		})
	}

	clearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessions.CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessions.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// validationMessage maps validator errors onto the wire error strings.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			if e.Tag() == "required" {
				return "Missing fields"
			}
		}
		return "Invalid email address"
	}
	return "Invalid request"
}
