package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repositories"
	"folio/internal/services"
	"folio/internal/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the full Fiber app against a fresh in-memory SQLite database.
func setupApp(t *testing.T) (*fiber.App, *sessions.MemoryStore) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Portfolio{}))

	sessionTTL := 24 * time.Hour
	store := sessions.NewMemoryStore(sessionTTL)

	userRepo := repositories.NewGORMUserRepository(db)
	portfolioRepo := repositories.NewGORMPortfolioRepository(db)

	authService := services.NewAuthService(userRepo, store)
	portfolioService := services.NewPortfolioService(portfolioRepo, nil) // nil for RabbitMQ client

	authHandler := handlers.NewAuthHandler(authService, sessionTTL)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	app := fiber.New()

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.SessionRequired(authService))
	portfolioHandler.RegisterRoutes(protected)

	return app, store
}

// doRequest fires a JSON request at the app, optionally with a session cookie.
func doRequest(t *testing.T, app *fiber.App, method, path string, payload interface{}, sessionToken string) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewReader(jsonBody)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: sessionToken})
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return body
}

// sessionCookie extracts the session token from a response, or "".
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == sessions.CookieName {
			return c.Value
		}
	}
	return ""
}

func TestRegisterLoginLogout(t *testing.T) {
	app, store := setupApp(t)
	defer store.Close()

	// Register sets a session cookie
	resp := doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"email": "a@x.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp)
	assert.NotEmpty(t, token)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])

	// Registering the same email again fails with 400
	resp = doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"email": "a@x.com", "password": "other",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Email already used", body["error"])

	// The first user's session is unaffected
	resp = doRequest(t, app, http.MethodGet, "/api/portfolio", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Missing fields
	resp = doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"email": "b@x.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Wrong password
	resp = doRequest(t, app, http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "nope",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Invalid credentials", body["error"])

	// Correct password still works after the failed attempt
	resp = doRequest(t, app, http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	loginToken := sessionCookie(resp)
	assert.NotEmpty(t, loginToken)
	resp.Body.Close()

	// Logout invalidates the session
	resp = doRequest(t, app, http.MethodPost, "/api/logout", map[string]string{}, loginToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/portfolio", nil, loginToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Logout without a session is still 200
	resp = doRequest(t, app, http.MethodPost, "/api/logout", map[string]string{}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestPortfolioEndpointsWithoutAuth(t *testing.T) {
	app, store := setupApp(t)
	defer store.Close()

	resp := doRequest(t, app, http.MethodGet, "/api/portfolio", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/portfolio", map[string]string{"full_name": "Ada"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/all-portfolios", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPortfolioSaveRoundTrip(t *testing.T) {
	app, store := setupApp(t)
	defer store.Close()

	resp := doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"email": "ada@x.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp)
	resp.Body.Close()

	// Nothing saved yet: portfolio is null
	resp = doRequest(t, app, http.MethodGet, "/api/portfolio", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Nil(t, body["portfolio"])

	// First save creates
	resp = doRequest(t, app, http.MethodPost, "/api/portfolio", map[string]string{
		"full_name": "Ada", "bio": "pioneer", "technical_skills": "analytical engines",
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["created"])

	// Second save updates the same row
	resp = doRequest(t, app, http.MethodPost, "/api/portfolio", map[string]string{
		"full_name": "Ada L.", "bio": "pioneer", "technical_skills": "analytical engines",
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["updated"])

	// Read-after-write returns the latest field values
	resp = doRequest(t, app, http.MethodGet, "/api/portfolio", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	portfolio, ok := body["portfolio"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Ada L.", portfolio["full_name"])
	assert.Equal(t, "pioneer", portfolio["bio"])
	assert.Equal(t, "analytical engines", portfolio["technical_skills"])
}

func TestAllPortfolios(t *testing.T) {
	app, store := setupApp(t)
	defer store.Close()

	users := []string{"one@x.com", "two@x.com"}
	var lastToken string
	for i, email := range users {
		resp := doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
			"email": email, "password": "pw",
		}, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		lastToken = sessionCookie(resp)
		resp.Body.Close()

		resp = doRequest(t, app, http.MethodPost, "/api/portfolio", map[string]string{
			"full_name": fmt.Sprintf("User %d", i+1),
		}, lastToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doRequest(t, app, http.MethodGet, "/api/all-portfolios", nil, lastToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])

	portfolios, ok := body["portfolios"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, portfolios, 2)

	emails := make([]string, 0, len(portfolios))
	for _, raw := range portfolios {
		row := raw.(map[string]interface{})
		emails = append(emails, row["email"].(string))
	}
	assert.ElementsMatch(t, users, emails)
}

func TestExpiredSessionIsUnauthorized(t *testing.T) {
	// A store with a tiny TTL stands in for the 24h absolute expiry.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Portfolio{}))

	store := sessions.NewMemoryStore(20 * time.Millisecond)
	defer store.Close()

	userRepo := repositories.NewGORMUserRepository(db)
	portfolioRepo := repositories.NewGORMPortfolioRepository(db)
	authService := services.NewAuthService(userRepo, store)
	portfolioService := services.NewPortfolioService(portfolioRepo, nil)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, 20*time.Millisecond).RegisterRoutes(api)
	protected := api.Group("", middleware.SessionRequired(authService))
	handlers.NewPortfolioHandler(portfolioService).RegisterRoutes(protected)

	resp := doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"email": "brief@x.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp)
	resp.Body.Close()

	time.Sleep(40 * time.Millisecond)

	resp = doRequest(t, app, http.MethodGet, "/api/portfolio", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
