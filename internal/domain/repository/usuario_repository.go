package repository

import (
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// UsuarioRepository define el puerto de persistencia para Usuario.
type UsuarioRepository interface {
	Create(usuario *entity.Usuario) error
	FindByUsernameActivo(username string) (*entity.Usuario, error)
}
