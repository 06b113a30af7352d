package entity

import "time"

// Tipos de movimiento de stock.
const (
	TipoEntrada = "ENTRADA"
	TipoSalida  = "SALIDA"
)

// TipoValido indica si el string corresponde a un tipo de movimiento definido.
func TipoValido(tipo string) bool {
	return tipo == TipoEntrada || tipo == TipoSalida
}

// MovimientoStock es un registro de auditoría append-only: nunca se actualiza
// ni se borra después de creado. StockAnterior y StockResultante son
// instantáneas tomadas en el momento del movimiento.
type MovimientoStock struct {
	ID              string
	ProductoID      string
	Tipo            string // ENTRADA | SALIDA
	Cantidad        int32  // 1 ≤ Cantidad ≤ 1_000_000
	Fecha           time.Time
	UsuarioID       string // opcional, vacío si el caller no aporta identidad
	StockAnterior   int32
	StockResultante int32
}
