package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto representa un artículo del catálogo de inventario.
//
// Stock se muta por dos vías independientes: el motor de movimientos
// (internal/application/movimientos) y la edición directa de catálogo. La
// segunda no escribe en el ledger, así que el historial de movimientos solo
// reconstruye el stock entre ediciones manuales.
//
// Version es el token de concurrencia optimista: se incrementa en cada UPDATE
// exitoso y todo escritor debe presentar la versión que leyó.
type Producto struct {
	ID            string
	Nombre        string
	Categoria     string
	Proveedor     string // opcional, vacío si no se conoce
	Precio        decimal.Decimal
	Stock         int32
	Version       int64
	FechaRegistro time.Time // inmutable una vez asignada
}
