package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role types
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
)

// ValidRole reports whether the role is one of the staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleCashier, RoleKitchen:
		return true
	}
	return false
}

// User represents a staff account.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	FullName  string         `json:"full_name" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'cashier'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string { return "users" }

// CanManage reports whether the account may administer staff and settings.
func (u *User) CanManage() bool {
	return u.Role == RoleOwner || u.Role == RoleManager
}

// UserRepository defines the contract for user data access.
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(limit, offset int) ([]User, error)
	Update(user *User) error
	Deactivate(id uint) error
	Count() (int64, error)
}
