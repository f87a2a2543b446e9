package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"userservice/internal/models"
	"userservice/internal/repositories"
	"userservice/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a testify mock of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestUserService_CreateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	user := &models.User{
		Email:    "alice@example.com",
		Username: "alice_shop",
		Password: "password123",
	}

	mockRepo.On("GetByEmail", user.Email).Return(nil, fmt.Errorf("user with email %s not found", user.Email)).Once()
	mockRepo.On("GetByUsername", user.Username).Return(nil, fmt.Errorf("user with username %s not found", user.Username)).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	created, isNew, err := userService.CreateUser(user)
	assert.NoError(t, err)
	assert.True(t, isNew)
	// The stored password must be a bcrypt hash of the original.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_ExistingEmailReturnsExisting(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	existing := &models.User{ID: "6f3e3c14-1e1d-46fd-9a77-7d6d85b3d2c3", Email: "alice@example.com", Username: "alice_shop"}
	mockRepo.On("GetByEmail", existing.Email).Return(existing, nil).Once()

	result, isNew, err := userService.CreateUser(&models.User{
		Email:    existing.Email,
		Username: "someone_else",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.False(t, isNew, "an already-registered email returns the existing user")
	assert.Equal(t, existing.ID, result.ID)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_CreateUser_UsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	user := &models.User{Email: "bob@example.com", Username: "alice_shop", Password: "password123"}
	mockRepo.On("GetByEmail", user.Email).Return(nil, fmt.Errorf("user with email %s not found", user.Email)).Once()
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()

	_, _, err := userService.CreateUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'alice_shop' already taken")
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_RejectsOutOfBoundsPhone(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	for _, phone := range []string{"12345", "1234567890123456789012345678901"} { // lengths 5 and 31
		_, _, err := userService.CreateUser(&models.User{
			Email:    "alice@example.com",
			Username: "alice_shop",
			Password: "password123",
			Phone:    strPtr(phone),
		})
		assert.Error(t, err, "phone of length %d must be rejected at write time", len(phone))
		assert.Contains(t, err.Error(), "validation failed")
	}
	// The repository is never reached for invalid input.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_UpdateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	current := &models.User{
		ID:       "6f3e3c14-1e1d-46fd-9a77-7d6d85b3d2c3",
		Email:    "alice@example.com",
		Username: "alice_shop",
		Password: "stored-hash-of-password",
	}
	mockRepo.On("GetByID", current.ID).Return(current, nil).Once()
	mockRepo.On("GetByUsername", "alice_new").Return(nil, fmt.Errorf("user with username alice_new not found")).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := userService.UpdateUser(current.ID, &models.UserUpdate{
		Username: strPtr("alice_new"),
		FullName: strPtr("Alice Zhou"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice_new", updated.Username)
	assert.Equal(t, "Alice Zhou", *updated.FullName)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_RejectsInvalidMerge(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	_, err := userService.UpdateUser("some-id", &models.UserUpdate{Phone: strPtr("12345")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo)

	mockRepo.On("Delete", "some-id").Return(nil).Once()
	assert.NoError(t, userService.DeleteUser("some-id"))
	mockRepo.AssertExpectations(t)
}
