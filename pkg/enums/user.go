package enums

import "fmt"

// UserRole separates storefront customers from back-office administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

var validUserRoles = []UserRole{UserRoleUser, UserRoleAdmin}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// UserStatus marks whether an account may sign in.
type UserStatus string

const (
	UserStatusBlocked    UserStatus = "block"
	UserStatusNotBlocked UserStatus = "not_block"
)

func (s UserStatus) String() string {
	return string(s)
}

func (s UserStatus) IsValid() bool {
	return s == UserStatusBlocked || s == UserStatusNotBlocked
}

const (
	UserRoleRule   = "oneof=user admin"
	UserStatusRule = "oneof=block not_block"
)
