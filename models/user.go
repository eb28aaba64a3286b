package models

import (
	"time"

	uuid "github.com/twinj/uuid"
	"gorm.io/gorm"
)

// Role The account role chosen at sign-up. Admin is not a role but a flag,
// it is granted out-of-band and never through the API.
type Role string

const (
	// RoleUser can capture and upload images.
	RoleUser Role = "user"
	// RoleCollector can pick a saved route and start navigation.
	RoleCollector Role = "collector"
)

// Valid Report whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCollector:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Username  string    `json:"username" gorm:"uniqueIndex"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Aadhaar   string    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewV4().String()
	}
	return nil
}
