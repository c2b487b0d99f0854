package models

import "time"

// Portfolio is the single per-user record of biographical and professional
// fields. The unique index on UserID enforces at most one row per user; the
// upsert in the repository relies on it.
type Portfolio struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	FullName        string    `json:"full_name"`
	Contact         string    `json:"contact"`
	PhotoBase64     string    `json:"photo_base64" gorm:"type:text"` // data-URL string, bounded only by the body cap
	Bio             string    `json:"bio" gorm:"type:text"`
	SoftSkills      string    `json:"soft_skills" gorm:"type:text"`
	TechnicalSkills string    `json:"technical_skills" gorm:"type:text"`
	Academics       string    `json:"academics" gorm:"type:text"`
	Experience      string    `json:"experience" gorm:"type:text"`
	Projects        string    `json:"projects" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PortfolioWithOwner is a Portfolio joined with its owner's email, as returned
// by the all-portfolios listing.
type PortfolioWithOwner struct {
	Portfolio `gorm:"embedded"`
	Email     string `json:"email"`
}
