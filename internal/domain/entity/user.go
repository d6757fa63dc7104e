package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleApprover = "approver" // puede aprobar/rechazar/convertir requisiciones
	RoleOperator = "operator"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor devuelve la identidad de actor para las operaciones del núcleo.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.FullName}
}
