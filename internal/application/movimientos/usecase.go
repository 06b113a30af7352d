package movimientos

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/domain"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

const (
	// CantidadMaxima es el máximo de unidades por movimiento individual.
	CantidadMaxima = 1_000_000

	// StockMaximo es el techo de seguridad del stock: el máximo del tipo
	// entero menos el movimiento más grande posible, de modo que la
	// comprobación de overflow siempre ocurre antes de desbordar int32.
	StockMaximo = math.MaxInt32 - CantidadMaxima
)

// RegistrarMovimientoUseCase registra movimientos de stock de forma
// transaccional: inserta el registro append-only del ledger y actualiza el
// contador de stock del producto con compare-and-swap sobre la columna
// version. Nunca reintenta ante conflicto; eso es política del caller.
type RegistrarMovimientoUseCase struct {
	txRunner       TxRunner
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoRepository
	pdfGen         KardexPDFGenerator
}

// NewRegistrarMovimientoUseCase construye el caso de uso. pdfGen puede ser nil
// si el kardex PDF no está habilitado.
func NewRegistrarMovimientoUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoRepository,
	pdfGen KardexPDFGenerator,
) *RegistrarMovimientoUseCase {
	return &RegistrarMovimientoUseCase{
		txRunner:       txRunner,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		pdfGen:         pdfGen,
	}
}

// Registrar valida la petición, calcula el nuevo stock y persiste movimiento +
// stock como una sola unidad de trabajo.
//
// Orden de escritura dentro de la transacción: primero el movimiento, después
// el stock del producto. Si el compare-and-swap de versión falla
// (ErrConflictoConcurrencia), el Rollback descarta también el movimiento: el
// ledger nunca queda con filas huérfanas.
func (uc *RegistrarMovimientoUseCase) Registrar(ctx context.Context, in dto.RegistrarMovimientoRequest, usuarioID string) (*dto.MovimientoResponse, error) {
	if err := validarRequest(in); err != nil {
		return nil, err
	}

	producto, err := uc.productoRepo.GetByID(in.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NewNoEncontrado("Producto", "id", in.ProductoID)
	}

	stockActual := producto.Stock
	cantidad := int32(in.Cantidad)
	nuevoStock, err := calcularNuevoStock(stockActual, cantidad, in.Tipo)
	if err != nil {
		return nil, err
	}
	// Guarda de última línea: inalcanzable si calcularNuevoStock es correcto.
	if nuevoStock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrEntradaInvalida)
	}

	mov := &entity.MovimientoStock{
		ID:              uuid.New().String(),
		ProductoID:      producto.ID,
		Tipo:            in.Tipo,
		Cantidad:        cantidad,
		Fecha:           time.Now(),
		UsuarioID:       usuarioID,
		StockAnterior:   stockActual,
		StockResultante: nuevoStock,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		productoRepo repository.ProductoRepository,
	) error {
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return productoRepo.ActualizarStock(producto.ID, nuevoStock, producto.Version)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.MovimientoFromEntity(mov, producto.Nombre)
	return &resp, nil
}

// validarRequest rechaza la petición antes de tocar almacenamiento.
func validarRequest(in dto.RegistrarMovimientoRequest) error {
	if in.ProductoID == "" {
		return fmt.Errorf("%w: producto_id es requerido", domain.ErrEntradaInvalida)
	}
	if err := uuid.Validate(in.ProductoID); err != nil {
		return fmt.Errorf("%w: producto_id debe ser un UUID válido", domain.ErrEntradaInvalida)
	}
	if in.Tipo == "" {
		return fmt.Errorf("%w: tipo de movimiento es requerido", domain.ErrEntradaInvalida)
	}
	if !entity.TipoValido(in.Tipo) {
		return fmt.Errorf("%w: tipo de movimiento no válido: %s", domain.ErrEntradaInvalida, in.Tipo)
	}
	if in.Cantidad <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrEntradaInvalida)
	}
	if in.Cantidad > CantidadMaxima {
		return fmt.Errorf("%w: la cantidad excede el límite permitido de %d", domain.ErrEntradaInvalida, CantidadMaxima)
	}
	return nil
}

// calcularNuevoStock aplica el movimiento sobre el stock actual.
// La suma de ENTRADA se hace en int64 para detectar el desborde antes de que
// ocurra en el campo int32.
func calcularNuevoStock(stockActual, cantidad int32, tipo string) (int32, error) {
	switch tipo {
	case entity.TipoEntrada:
		resultado := int64(stockActual) + int64(cantidad)
		if resultado > StockMaximo {
			return 0, fmt.Errorf("%w: la operación causaría overflow. Stock actual: %d, cantidad a agregar: %d",
				domain.ErrEntradaInvalida, stockActual, cantidad)
		}
		return stockActual + cantidad, nil
	case entity.TipoSalida:
		if stockActual < cantidad {
			return 0, fmt.Errorf("%w: disponible: %d, solicitado: %d",
				domain.ErrStockInsuficiente, stockActual, cantidad)
		}
		return stockActual - cantidad, nil
	default:
		// Defensivo: el tipo ya fue validado en validarRequest.
		return 0, fmt.Errorf("%w: tipo de movimiento no válido: %s", domain.ErrEntradaInvalida, tipo)
	}
}
