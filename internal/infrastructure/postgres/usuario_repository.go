package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistema-inventario/internal/domain"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo persistencia de usuarios sobre PostgreSQL.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

// Create inserta un usuario nuevo.
func (r *UsuarioRepo) Create(usuario *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, username, password_hash, email, rol, activo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		usuario.ID, usuario.Username, usuario.PasswordHash, usuario.Email,
		usuario.Rol, usuario.Activo, usuario.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// FindByUsernameActivo busca un usuario activo por username. Devuelve
// (nil, nil) si no existe.
func (r *UsuarioRepo) FindByUsernameActivo(username string) (*entity.Usuario, error) {
	query := `
		SELECT id, username, password_hash, email, rol, activo, created_at
		FROM usuarios
		WHERE username = $1 AND activo = true`
	var u entity.Usuario
	err := r.q.QueryRow(context.Background(), query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Rol, &u.Activo, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}
