package entity

import "time"

// Roles de usuario.
const (
	RolAdmin   = "ADMIN"
	RolUsuario = "USER"
)

// Usuario cuenta de acceso al sistema. El password se guarda como hash bcrypt.
type Usuario struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Rol          string // ADMIN | USER
	Activo       bool
	CreatedAt    time.Time
}
