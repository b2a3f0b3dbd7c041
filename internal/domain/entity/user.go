package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleConsulta    = "consulta"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, almacenista, consulta
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
