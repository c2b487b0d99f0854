package services

import (
	"log"
	"time"

	"folio/internal/models"
	"folio/internal/repositories"
	"folio/pkg/rabbitmq"
)

// PortfolioService handles business logic for portfolio records.
type PortfolioService struct {
	portfolioRepo repositories.PortfolioRepository
	mqClient      *rabbitmq.Client
}

// NewPortfolioService creates a new PortfolioService. mqClient may be nil, in
// which case save events are not published.
func NewPortfolioService(portfolioRepo repositories.PortfolioRepository, mqClient *rabbitmq.Client) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		mqClient:      mqClient,
	}
}

// GetForUser returns the user's portfolio, or nil when none has been saved.
func (s *PortfolioService) GetForUser(userID string) (*models.Portfolio, error) {
	return s.portfolioRepo.GetByUserID(userID)
}

// Save upserts the user's portfolio and reports whether a new row was created.
// A save event is published afterwards; publish failures are logged but never
// fail the save, since the record is already persisted.
func (s *PortfolioService) Save(userID string, portfolio *models.Portfolio) (bool, error) {
	portfolio.UserID = userID
	created, err := s.portfolioRepo.Upsert(portfolio)
	if err != nil {
		return false, err
	}

	if s.mqClient != nil {
		event := rabbitmq.PortfolioSavedEvent{
			UserID:  userID,
			Created: created,
			SavedAt: time.Now(),
		}
		if pubErr := s.mqClient.PublishPortfolioSaved(event); pubErr != nil {
			log.Printf("Failed to publish portfolio saved event for user %s: %v", userID, pubErr)
		}
	}

	return created, nil
}

// ListAll returns every portfolio joined with its owner's email, newest first.
func (s *PortfolioService) ListAll() ([]models.PortfolioWithOwner, error) {
	return s.portfolioRepo.ListAllWithOwner()
}
