package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// CreateProductoRequest entrada para crear un producto.
// Stock es el valor inicial; después solo debería mutarse vía movimientos
// o edición explícita de catálogo.
type CreateProductoRequest struct {
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Proveedor string          `json:"proveedor,omitempty"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int32           `json:"stock"`
}

// UpdateProductoRequest entrada para actualizar un producto. Version es la
// versión leída por el cliente; el update falla con conflicto si la fila avanzó.
type UpdateProductoRequest struct {
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Proveedor string          `json:"proveedor,omitempty"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int32           `json:"stock"`
	Version   int64           `json:"version"`
}

// ListProductosRequest filtros de listado (query params).
type ListProductosRequest struct {
	Search    string `query:"search"`
	Categoria string `query:"categoria"`
	Page      int    `query:"page"`
	Size      int    `query:"size"`
	SortBy    string `query:"sort_by"`
	SortDir   string `query:"sort_dir"`
}

// ProductoResponse salida de un producto.
type ProductoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Categoria     string          `json:"categoria"`
	Proveedor     string          `json:"proveedor,omitempty"`
	Precio        decimal.Decimal `json:"precio"`
	Stock         int32           `json:"stock"`
	Version       int64           `json:"version"`
	FechaRegistro time.Time       `json:"fecha_registro"`
}

// ProductoListResponse lista paginada de productos.
type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ProductoFromEntity convierte la entidad al DTO de salida.
func ProductoFromEntity(p *entity.Producto) ProductoResponse {
	return ProductoResponse{
		ID:            p.ID,
		Nombre:        p.Nombre,
		Categoria:     p.Categoria,
		Proveedor:     p.Proveedor,
		Precio:        p.Precio,
		Stock:         p.Stock,
		Version:       p.Version,
		FechaRegistro: p.FechaRegistro,
	}
}

// SyncResponse resultado de la sincronización de catálogo externo.
type SyncResponse struct {
	Insertados int    `json:"insertados"`
	Mensaje    string `json:"mensaje"`
}
