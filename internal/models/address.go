package models

import "time"

// Address is a postal address owned by exactly one user. It cannot outlive
// its owner: the user_id foreign key cascades on delete.
type Address struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);not null;index" validate:"required,uuid"`
	Country    string    `json:"country" gorm:"type:varchar(60);not null" validate:"required,min=1,max=60"`
	City       string    `json:"city" gorm:"type:varchar(60);not null;index" validate:"required,min=1,max=60"`
	Street     string    `json:"street" gorm:"type:varchar(120);not null" validate:"required,min=1,max=120"`
	PostalCode *string   `json:"postal_code" gorm:"type:varchar(20);index;check:chk_addresses_postal_code,postal_code IS NULL OR length(postal_code) BETWEEN 3 AND 20" validate:"omitempty,min=3,max=20"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AddressUpdate carries a partial update for an address. Nil fields are left
// untouched.
type AddressUpdate struct {
	Country    *string `json:"country" validate:"omitempty,min=1,max=60"`
	City       *string `json:"city" validate:"omitempty,min=1,max=60"`
	Street     *string `json:"street" validate:"omitempty,min=1,max=120"`
	PostalCode *string `json:"postal_code" validate:"omitempty,min=3,max=20"`
}
