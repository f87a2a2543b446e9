package repositories

import "userservice/internal/models"

// AddressFilter narrows an address listing. UserID and PostalCode match
// exactly, City is a substring match. Limit defaults to 50 and is capped
// at 100.
type AddressFilter struct {
	UserID     string
	City       string
	PostalCode string
	Limit      int
	Offset     int
}

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	Create(address *models.Address) error
	GetByID(id string) (*models.Address, error)
	List(filter AddressFilter) ([]models.Address, error)
	Update(address *models.Address) error
	Delete(id string) error
}
