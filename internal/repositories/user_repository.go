package repositories

import "userservice/internal/models"

// UserFilter narrows a user listing. Email matches exactly, Username is a
// substring match. Limit defaults to 50 and is capped at 100.
type UserFilter struct {
	Email    string
	Username string
	Limit    int
	Offset   int
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List(filter UserFilter) ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
}
