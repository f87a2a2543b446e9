package services

import (
	"fmt"

	"userservice/internal/models"
	"userservice/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// AddressService handles business logic for addresses.
type AddressService struct {
	addressRepo repositories.AddressRepository
	userRepo    repositories.UserRepository
	validate    *validator.Validate
}

// NewAddressService creates a new AddressService.
func NewAddressService(addressRepo repositories.AddressRepository, userRepo repositories.UserRepository) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		userRepo:    userRepo,
		validate:    validator.New(),
	}
}

// CreateAddress creates a new address for an existing user. The owning user
// must exist; the store's foreign key enforces the same rule as a backstop.
func (s *AddressService) CreateAddress(address *models.Address) error {
	if err := s.validate.Struct(address); err != nil {
		return fmt.Errorf("address validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByID(address.UserID); err != nil {
		return fmt.Errorf("cannot create address: %w", err)
	}

	if err := s.addressRepo.Create(address); err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetAddressByID retrieves a single address by its ID.
func (s *AddressService) GetAddressByID(id string) (*models.Address, error) {
	return s.addressRepo.GetByID(id)
}

// ListAddresses retrieves addresses matching the filter.
func (s *AddressService) ListAddresses(filter repositories.AddressFilter) ([]models.Address, error) {
	return s.addressRepo.List(filter)
}

// UpdateAddress applies a partial update to an existing address. The merged
// address is re-validated so bounds hold at write time.
func (s *AddressService) UpdateAddress(id string, update *models.AddressUpdate) (*models.Address, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("address update validation failed: %w", err)
	}

	address, err := s.addressRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Country != nil {
		address.Country = *update.Country
	}
	if update.City != nil {
		address.City = *update.City
	}
	if update.Street != nil {
		address.Street = *update.Street
	}
	if update.PostalCode != nil {
		address.PostalCode = update.PostalCode
	}

	if err := s.validate.Struct(address); err != nil {
		return nil, fmt.Errorf("address validation failed: %w", err)
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress deletes an address by its ID.
func (s *AddressService) DeleteAddress(id string) error {
	return s.addressRepo.Delete(id)
}
