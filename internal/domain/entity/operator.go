package entity

import "time"

// Roles válidos para Operator.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Operator usuario del panel de administración de transportadoras.
type Operator struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"` // bcrypt
	Name         string    `json:"name"`
	Role         string    `json:"role"`   // admin, viewer
	Status       string    `json:"status"` // active, inactive
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
