package services

import (
	"fmt"

	"userservice/internal/models"
	"userservice/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for users.
type UserService struct {
	userRepo repositories.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		validate: validator.New(),
	}
}

// CreateUser creates a new user with a bcrypt-hashed password. If the email
// is already registered the existing user is returned with created=false,
// mirroring the create-or-login behaviour of the original service. A taken
// username is an error.
func (s *UserService) CreateUser(user *models.User) (*models.User, bool, error) {
	// Bounds are checked before anything reaches the store.
	if err := s.validate.Struct(user); err != nil {
		return nil, false, fmt.Errorf("user validation failed: %w", err)
	}

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return existing, false, nil
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return nil, false, fmt.Errorf("username '%s' already taken", user.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return user, true, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers retrieves users matching the filter.
func (s *UserService) ListUsers(filter repositories.UserFilter) ([]models.User, error) {
	return s.userRepo.List(filter)
}

// UpdateUser applies a partial update to an existing user. Only non-nil
// fields of the update are applied; the merged user is re-validated so that
// out-of-bounds values are rejected before the store is touched.
func (s *UserService) UpdateUser(id string, update *models.UserUpdate) (*models.User, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("user update validation failed: %w", err)
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		if existing, err := s.userRepo.GetByUsername(*update.Username); err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("username '%s' already taken", *update.Username)
		}
		user.Username = *update.Username
	}
	if update.FullName != nil {
		user.FullName = update.FullName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}

	if err := s.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("user validation failed: %w", err)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user by their ID. All addresses owned by the user are
// removed by the store's cascading foreign key.
func (s *UserService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
