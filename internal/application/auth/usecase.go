package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/domain"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
	"github.com/jhoicas/sistema-inventario/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	usuarioRepo repository.UsuarioRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarioRepo repository.UsuarioRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarioRepo: usuarioRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password contra el hash bcrypt y genera el JWT con
// el rol del usuario. Credenciales incorrectas y usuario inexistente devuelven
// el mismo error para no filtrar qué usuarios existen.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrNoAutorizado
	}
	usuario, err := uc.usuarioRepo.FindByUsernameActivo(in.Username)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, domain.ErrNoAutorizado
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrNoAutorizado
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, usuario.ID, usuario.Username, usuario.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Username: usuario.Username,
		Role:     usuario.Rol,
	}, nil
}

// EnsureAdminPorDefecto crea el usuario admin inicial si no existe todavía.
// Se invoca al arrancar la aplicación.
func (uc *AuthUseCase) EnsureAdminPorDefecto(username, password, email string) (bool, error) {
	existente, err := uc.usuarioRepo.FindByUsernameActivo(username)
	if err != nil {
		return false, err
	}
	if existente != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := &entity.Usuario{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Rol:          entity.RolAdmin,
		Activo:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.usuarioRepo.Create(admin); err != nil {
		return false, err
	}
	return true, nil
}
