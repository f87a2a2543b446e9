package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"userservice/internal/models"

	"github.com/google/uuid"
)

// MockAddressRepository is an in-memory implementation of AddressRepository.
type MockAddressRepository struct {
	addresses map[string]models.Address
	mu        sync.RWMutex
}

// NewMockAddressRepository creates a new instance of MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]models.Address),
	}
}

// Create adds a new address.
func (r *MockAddressRepository) Create(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	r.addresses[address.ID] = *address
	return nil
}

// GetByID returns an address by its ID.
func (r *MockAddressRepository) GetByID(id string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	address, ok := r.addresses[id]
	if !ok {
		return nil, fmt.Errorf("address with ID %s not found", id)
	}
	return &address, nil
}

// List returns addresses matching the filter, newest first.
func (r *MockAddressRepository) List(filter AddressFilter) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addressList := make([]models.Address, 0, len(r.addresses))
	for _, address := range r.addresses {
		if filter.UserID != "" && address.UserID != filter.UserID {
			continue
		}
		if filter.City != "" && !strings.Contains(address.City, filter.City) {
			continue
		}
		if filter.PostalCode != "" {
			if address.PostalCode == nil || *address.PostalCode != filter.PostalCode {
				continue
			}
		}
		addressList = append(addressList, address)
	}
	sort.Slice(addressList, func(i, j int) bool {
		return addressList[i].CreatedAt.After(addressList[j].CreatedAt)
	})
	return paginate(addressList, filter.Limit, filter.Offset), nil
}

// Update modifies an existing address.
func (r *MockAddressRepository) Update(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.addresses[address.ID]
	if !ok {
		return fmt.Errorf("address with ID %s not found for update", address.ID)
	}
	r.addresses[address.ID] = *address
	return nil
}

// Delete removes an address by its ID.
func (r *MockAddressRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.addresses[id]
	if !ok {
		return fmt.Errorf("address with ID %s not found for deletion", id)
	}
	delete(r.addresses, id)
	return nil
}

// DeleteByUserID removes all addresses owned by a user. The real store does
// this through the cascading foreign key; the mock mirrors it for tests.
func (r *MockAddressRepository) DeleteByUserID(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, address := range r.addresses {
		if address.UserID == userID {
			delete(r.addresses, id)
		}
	}
}
