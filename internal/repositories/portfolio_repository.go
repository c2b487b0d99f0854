package repositories

import "folio/internal/models"

// PortfolioRepository defines the interface for portfolio data access.
type PortfolioRepository interface {
	// GetByUserID returns the user's portfolio, or (nil, nil) when the user
	// has not saved one yet.
	GetByUserID(userID string) (*models.Portfolio, error)
	// Upsert inserts the portfolio on first save and overwrites every field
	// in place on subsequent saves. Returns true when a row was created.
	Upsert(portfolio *models.Portfolio) (bool, error)
	// ListAllWithOwner returns all portfolios joined with their owner's
	// email, newest first.
	ListAllWithOwner() ([]models.PortfolioWithOwner, error)
}
