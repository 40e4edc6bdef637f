package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "ADMIN"
	RoleStorekeeper = "STOREKEEPER"
)

// IsValidRole indica si r es un rol admitido.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStorekeeper
}

// HasRole predicado de capacidad: true si role está entre los permitidos.
// Sin roles permitidos basta con estar autenticado (role no vacío).
func HasRole(role string, allowed ...string) bool {
	if role == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// User usuario del back-office.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole aplica el predicado de capacidad al rol del usuario.
func (u *User) HasRole(allowed ...string) bool {
	if u == nil {
		return false
	}
	return HasRole(u.Role, allowed...)
}
