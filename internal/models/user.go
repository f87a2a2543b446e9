package models

import "time"

// User represents an account in the user service.
// Email and username are unique across all users; phone, when present,
// must be 6-30 characters long.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email,max=255"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(30);not null" validate:"required,min=3,max=30"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=8,max=72"` // bcrypt hash, never serialized
	FullName  *string   `json:"full_name" gorm:"type:varchar(50)" validate:"omitempty,min=1,max=50"`
	AvatarURL *string   `json:"avatar_url" gorm:"type:text" validate:"omitempty,url"`
	Phone     *string   `json:"phone" gorm:"type:varchar(30);check:chk_users_phone,phone IS NULL OR length(phone) BETWEEN 6 AND 30" validate:"omitempty,min=6,max=30"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Addresses are owned exclusively by the user; deleting the user
	// cascades to all of them.
	Addresses []Address `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserUpdate carries a partial update for a user. Nil fields are left
// untouched.
type UserUpdate struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=30"`
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=50"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Phone     *string `json:"phone" validate:"omitempty,min=6,max=30"`
}
