package domain

import "time"

// Role enumerates workflow roles. Every lifecycle operation is gated on the
// acting user's role.
type Role string

const (
	RoleOperations  Role = "OPERATIONS"
	RoleMaintenance Role = "MAINTENANCE"
	RoleInspection  Role = "INSPECTION"
	RoleSparesAdmin Role = "SPARES_ADMIN"
	RoleWarehouse   Role = "WAREHOUSE"
	RoleAdmin       Role = "ADMIN"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
)

// User is an employee account. ID is the employee number.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}
