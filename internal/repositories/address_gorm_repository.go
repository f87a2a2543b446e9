package repositories

import (
	"fmt"
	"userservice/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// Create creates a new address in the database. The foreign key to users
// is enforced by the store, so an address referencing a missing user is
// rejected here.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if err := r.db.Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetByID retrieves a single address by its ID from the database.
func (r *GORMAddressRepository) GetByID(id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("address with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get address by ID %s: %w", id, err)
	}
	return &address, nil
}

// List retrieves addresses matching the filter, newest first. The user_id,
// city and postal_code columns are indexed, so each filter hits an index.
func (r *GORMAddressRepository) List(filter AddressFilter) ([]models.Address, error) {
	query := r.db.Model(&models.Address{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.City != "" {
		query = query.Where("city LIKE ?", "%"+filter.City+"%")
	}
	if filter.PostalCode != "" {
		query = query.Where("postal_code = ?", filter.PostalCode)
	}

	var addresses []models.Address
	err := query.
		Order("created_at DESC").
		Limit(clampLimit(filter.Limit)).
		Offset(clampOffset(filter.Offset)).
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Update saves all fields of an existing address.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	res := r.db.Save(address)
	if res.Error != nil {
		return fmt.Errorf("failed to update address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s not found for update", address.ID)
	}
	return nil
}

// Delete deletes an address by its ID from the database.
func (r *GORMAddressRepository) Delete(id string) error {
	res := r.db.Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s not found for deletion", id)
	}
	return nil
}
