package dto

import (
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// LoginResponse response.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse response.
type UserResponse struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// NotificationResponse response.
type NotificationResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	TicketSerial string    `json:"ticket_serial"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
