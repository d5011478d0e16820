package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleBilling = "billing"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"password,omitempty" db:"password"`
	Role      string    `json:"role" db:"role"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidRole reports whether role is one the shop recognises.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleBilling
}
