package dto

import (
	"time"

	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// RegistrarMovimientoRequest body para POST /api/movimientos.
// Cantidad viene como int64 para poder validar el rango antes de estrecharla
// al ancho del campo stock.
type RegistrarMovimientoRequest struct {
	ProductoID string `json:"producto_id"`
	Tipo       string `json:"tipo"` // ENTRADA | SALIDA
	Cantidad   int64  `json:"cantidad"`
}

// MovimientoResponse salida de un movimiento registrado.
type MovimientoResponse struct {
	ID              string    `json:"id"`
	ProductoID      string    `json:"producto_id"`
	ProductoNombre  string    `json:"producto_nombre"`
	Tipo            string    `json:"tipo"`
	Cantidad        int32     `json:"cantidad"`
	Fecha           time.Time `json:"fecha"`
	UsuarioID       string    `json:"usuario_id,omitempty"`
	StockAnterior   int32     `json:"stock_anterior"`
	StockResultante int32     `json:"stock_resultante"`
}

// MovimientoFromEntity convierte la entidad al DTO de salida.
func MovimientoFromEntity(m *entity.MovimientoStock, productoNombre string) MovimientoResponse {
	return MovimientoResponse{
		ID:              m.ID,
		ProductoID:      m.ProductoID,
		ProductoNombre:  productoNombre,
		Tipo:            m.Tipo,
		Cantidad:        m.Cantidad,
		Fecha:           m.Fecha,
		UsuarioID:       m.UsuarioID,
		StockAnterior:   m.StockAnterior,
		StockResultante: m.StockResultante,
	}
}

// MovimientoListResponse historial de movimientos de un producto.
type MovimientoListResponse struct {
	ProductoID string               `json:"producto_id"`
	Items      []MovimientoResponse `json:"items"`
}
