package domain

import "time"

// UserRole distinguishes riders from drivers.
type UserRole string

const (
	UserRoleRider  UserRole = "rider"
	UserRoleDriver UserRole = "driver"
	UserRoleAdmin  UserRole = "admin"
)

// UserStatus represents the account status of a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusPending  UserStatus = "pending"
)

// User represents a rider or driver in the system.
type User struct {
	ID        string
	Email     string
	Phone     string
	FullName  string
	Role      UserRole
	BVN       string
	Rating    float64
	Status    UserStatus
	CreatedAt time.Time
}
