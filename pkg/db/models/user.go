package models

import (
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
)

// User is both storefront customer and administrator, separated by Role.
// Password is accepted on writes only; PasswordHash never leaves the server.
type User struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string           `gorm:"column:name;not null" json:"name"`
	Email        string           `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone        *string          `gorm:"column:phone" json:"phone"`
	Password     string           `gorm:"-" json:"password,omitempty"`
	PasswordHash string           `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole   `gorm:"column:role;not null;default:user" json:"role"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:not_block" json:"status"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsBlocked reports whether sign-in must be refused.
func (u User) IsBlocked() bool {
	return u.Status == enums.UserStatusBlocked
}
