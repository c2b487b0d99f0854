package repositories

import (
	"fmt"

	"folio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPortfolioRepository is a GORM implementation of PortfolioRepository.
type GORMPortfolioRepository struct {
	db *gorm.DB
}

// NewGORMPortfolioRepository creates a new instance of GORMPortfolioRepository.
func NewGORMPortfolioRepository(db *gorm.DB) *GORMPortfolioRepository {
	return &GORMPortfolioRepository{
		db: db,
	}
}

// GetByUserID retrieves a portfolio by its owner's user ID.
func (r *GORMPortfolioRepository) GetByUserID(userID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := r.db.First(&portfolio, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio for user %s: %w", userID, err)
	}
	return &portfolio, nil
}

// Upsert inserts or fully overwrites the user's portfolio row.
// The read-then-write runs inside a single transaction, and the unique index
// on user_id backs it up: two concurrent saves for one user are last-write-wins
// but can never produce a second row.
func (r *GORMPortfolioRepository) Upsert(portfolio *models.Portfolio) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Portfolio
		err := tx.First(&existing, "user_id = ?", portfolio.UserID).Error
		if err == gorm.ErrRecordNotFound {
			if portfolio.ID == "" {
				portfolio.ID = uuid.New().String()
			}
			if err := tx.Create(portfolio).Error; err != nil {
				return fmt.Errorf("failed to create portfolio: %w", err)
			}
			created = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up portfolio for user %s: %w", portfolio.UserID, err)
		}

		// Keep the original row identity; Save overwrites every field,
		// including ones cleared by the caller.
		portfolio.ID = existing.ID
		portfolio.CreatedAt = existing.CreatedAt
		if err := tx.Save(portfolio).Error; err != nil {
			return fmt.Errorf("failed to update portfolio: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ListAllWithOwner retrieves every portfolio joined with its owner's email,
// newest first by creation time.
func (r *GORMPortfolioRepository) ListAllWithOwner() ([]models.PortfolioWithOwner, error) {
	var rows []models.PortfolioWithOwner
	err := r.db.Table("portfolios").
		Select("portfolios.*, users.email AS email").
		Joins("JOIN users ON users.id = portfolios.user_id").
		Order("portfolios.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return rows, nil
}
