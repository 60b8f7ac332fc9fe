// Package service implements the domain rules on top of the repositories.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates credentials. Token issuance stays in the route
// layer; this service only answers whether the credentials are good.
type AuthService struct {
	userRepo repository.UserRepository
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a new account. The uniqueness checks run in a fixed order
// (email, then username) before the password policy is applied.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("EMAIL_TAKEN", "Email is already registered")
	}

	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("USERNAME_TAKEN", "Username is already taken")
	}

	if len(in.Password) < 6 {
		return nil, models.NewBadRequestError("WEAK_PASSWORD", "Password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials. Unknown email and wrong password produce
// the same error so the endpoint cannot be used to probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	return user, nil
}

// GetUserByID returns the account for the given id.
func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func invalidCredentials() *models.AppError {
	return &models.AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password",
		Status:  401,
	}
}
