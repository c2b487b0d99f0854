package services

import (
	"errors"
	"fmt"

	"folio/internal/models"
	"folio/internal/repositories"
	"folio/internal/sessions"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = errors.New("email already used")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	userRepo repositories.UserRepository
	store    sessions.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, store sessions.Store) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		store:    store,
	}
}

// Register creates a new user with a bcrypt-hashed password and logs them in
// immediately, returning the session token.
func (s *AuthService) Register(email, password string) (string, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return "", ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		// The unique index backstops the pre-check: a concurrent register
		// that slips past GetByEmail still surfaces as a duplicate.
		if errors.Is(err, repositories.ErrEmailTaken) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.store.Create(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Login verifies the credentials and returns a fresh session token.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.store.Create(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Logout destroys the session behind token. Logging out without a session, or
// twice, is a no-op.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.store.Destroy(token)
}

// ResolveSession returns the user ID behind a session token, or
// sessions.ErrNoSession when the token is missing, unknown or expired.
func (s *AuthService) ResolveSession(token string) (string, error) {
	if token == "" {
		return "", sessions.ErrNoSession
	}
	return s.store.Resolve(token)
}
