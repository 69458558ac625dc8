package services

import (
	"errors"
	"fmt"

	"github.com/Achintya-Chatterjee/task-management-api/internal/constants"
	"github.com/Achintya-Chatterjee/task-management-api/internal/models"
	"github.com/Achintya-Chatterjee/task-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("User already exists")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so a caller cannot tell which part failed.
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register validates input, persists the user with a bcrypt password hash,
// and issues a session token for the new identity.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	var fields []FieldError
	if len(input.Name) < constants.MinNameLength {
		fields = append(fields, FieldError{Field: "name", Message: fmt.Sprintf("Name must be at least %d characters", constants.MinNameLength)})
	}
	if !validEmail(input.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "Invalid email format"})
	}
	if len(input.Password) < constants.MinPasswordLength {
		fields = append(fields, FieldError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength)})
	}
	if len(fields) > 0 {
		return nil, "", &ValidationError{Fields: fields}
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), constants.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a fresh session token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	var fields []FieldError
	if !validEmail(input.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "Invalid email format"})
	}
	if input.Password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return nil, "", &ValidationError{Fields: fields}
	}

	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
