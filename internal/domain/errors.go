package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado          = errors.New("recurso no encontrado")
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrDuplicado             = errors.New("recurso duplicado")
	ErrNoAutorizado          = errors.New("no autorizado")
	ErrAccesoDenegado        = errors.New("acceso denegado")
	ErrStockInsuficiente     = errors.New("stock insuficiente")
	ErrConflictoConcurrencia = errors.New("recurso modificado concurrentemente")
)

// NoEncontradoError identifica qué recurso faltó y con qué clave se buscó.
// Envuelve ErrNoEncontrado para que errors.Is siga funcionando en los handlers.
type NoEncontradoError struct {
	Recurso string
	Campo   string
	Valor   string
}

func (e *NoEncontradoError) Error() string {
	return fmt.Sprintf("%s no encontrado con %s: %s", e.Recurso, e.Campo, e.Valor)
}

func (e *NoEncontradoError) Unwrap() error { return ErrNoEncontrado }

// NewNoEncontrado construye el error estructurado de recurso ausente.
func NewNoEncontrado(recurso, campo, valor string) error {
	return &NoEncontradoError{Recurso: recurso, Campo: campo, Valor: valor}
}
