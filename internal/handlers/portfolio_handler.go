package handlers

import (
	"log"

	"folio/internal/models"
	"folio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PortfolioHandler handles HTTP requests for portfolio records.
type PortfolioHandler struct {
	service *services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(service *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
	}
}

// RegisterRoutes registers the portfolio routes. The router passed in is
// expected to already carry the session middleware.
func (h *PortfolioHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/portfolio", h.HandleGet)
	router.Post("/portfolio", h.HandleSave)
	router.Get("/all-portfolios", h.HandleListAll)
}

// SavePortfolioRequest represents the request body for saving a portfolio.
// Field names are fixed by the client form.
type SavePortfolioRequest struct {
	FullName        string `json:"full_name"`
	Contact         string `json:"contact"`
	PhotoBase64     string `json:"photo_base64"`
	Bio             string `json:"bio"`
	SoftSkills      string `json:"soft_skills"`
	TechnicalSkills string `json:"technical_skills"`
	Academics       string `json:"academics"`
	Experience      string `json:"experience"`
	Projects        string `json:"projects"`
}

// HandleGet returns the caller's portfolio, or null if none was saved yet.
func (h *PortfolioHandler) HandleGet(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	portfolio, err := h.service.GetForUser(userID)
	if err != nil {
		log.Printf("Error getting portfolio for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error",
		})
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"portfolio": portfolio,
	})
}

// HandleSave upserts the caller's portfolio and reports created vs. updated.
func (h *PortfolioHandler) HandleSave(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req SavePortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing save portfolio request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	portfolio := models.Portfolio{
		FullName:        req.FullName,
		Contact:         req.Contact,
		PhotoBase64:     req.PhotoBase64,
		Bio:             req.Bio,
		SoftSkills:      req.SoftSkills,
		TechnicalSkills: req.TechnicalSkills,
		Academics:       req.Academics,
		Experience:      req.Experience,
		Projects:        req.Projects,
	}

	created, err := h.service.Save(userID, &portfolio)
	if err != nil {
		log.Printf("Error saving portfolio for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error",
		})
	}

	if created {
		return c.JSON(fiber.Map{"ok": true, "created": true})
	}
	return c.JSON(fiber.Map{"ok": true, "updated": true})
}

// HandleListAll returns every portfolio with its owner's email, newest first.
func (h *PortfolioHandler) HandleListAll(c *fiber.Ctx) error {
	portfolios, err := h.service.ListAll()
	if err != nil {
		log.Printf("Error listing portfolios: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "DB error",
		})
	}

	if portfolios == nil {
		portfolios = []models.PortfolioWithOwner{}
	}
	return c.JSON(fiber.Map{
		"ok":         true,
		"portfolios": portfolios,
	})
}
