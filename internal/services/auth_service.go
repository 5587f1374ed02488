package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/yukikurage/family-ledger-api/internal/constants"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/repository"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo             repository.UserRepository
	tokens               *TokenService
	defaultResetPassword string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, defaultResetPassword string) *AuthService {
	return &AuthService{
		userRepo:             userRepo,
		tokens:               tokens,
		defaultResetPassword: defaultResetPassword,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Phone    string
	Name     string
	Password string
}

// Register creates a new family member account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	phone := strings.TrimSpace(input.Phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.ensurePhoneAvailable(ctx, phone); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleFamilyMember,
		Status:       models.LifecycleActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Phone    string
	Password string
}

// LoginResult is an issued bearer token together with its owner.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByPhone(ctx, strings.TrimSpace(input.Phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrUserDisabled
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentUser resolves a bearer token to an active user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A valid token for a deleted user is an authentication failure.
			return nil, newError(ErrUnauthorized, "user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive() {
		return nil, ErrUserDisabled
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetByPhone retrieves a user by phone number.
func (s *AuthService) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ResetPassword sets the password of the user with phone to the configured default.
func (s *AuthService) ResetPassword(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(s.defaultResetPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}
	return user, nil
}

// DefaultResetPassword returns the password applied by ResetPassword.
func (s *AuthService) DefaultResetPassword() string {
	return s.defaultResetPassword
}

// UpdateProfileInput holds optional profile changes.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// UpdateProfile changes the caller's name and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone != "" && phone != user.Phone {
			if err := validatePhone(phone); err != nil {
				return nil, err
			}
			if err := s.ensurePhoneAvailable(ctx, phone); err != nil {
				return nil, err
			}
			user.Phone = phone
		}
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		user.Name = name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ensurePhoneAvailable(ctx context.Context, phone string) error {
	if _, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		return ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) < constants.MinPhoneLength {
		return validationError("phone number must have at least %d digits", constants.MinPhoneLength)
	}
	if len(phone) > constants.MaxPhoneLength {
		return validationError("phone number must have at most %d digits", constants.MaxPhoneLength)
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return validationError("phone number must contain digits only")
		}
	}
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name is required")
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		return "", validationError("name must be at most %d characters", constants.MaxNameLength)
	}
	return name, nil
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return validationError("password must be at least %d characters", constants.MinPasswordLength)
	}
	return nil
}
