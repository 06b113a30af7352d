package movimientos_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
	"github.com/jhoicas/sistema-inventario/internal/domain"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductoRepo struct {
	productos  map[string]*entity.Producto
	getLlamado bool

	// avanzarVersionTrasLeer simula otro escritor confirmando entre la lectura
	// del producto y el compare-and-swap.
	avanzarVersionTrasLeer bool
}

func newMemProductoRepo(ps ...*entity.Producto) *memProductoRepo {
	r := &memProductoRepo{productos: map[string]*entity.Producto{}}
	for _, p := range ps {
		r.productos[p.ID] = p
	}
	return r
}

func (r *memProductoRepo) Create(p *entity.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *memProductoRepo) CreateBatch(ps []*entity.Producto) (int, error) {
	for _, p := range ps {
		r.productos[p.ID] = p
	}
	return len(ps), nil
}

func (r *memProductoRepo) GetByID(id string) (*entity.Producto, error) {
	r.getLlamado = true
	p, ok := r.productos[id]
	if !ok {
		return nil, nil
	}
	copia := *p
	if r.avanzarVersionTrasLeer {
		p.Version++
	}
	return &copia, nil
}

func (r *memProductoRepo) List(repository.ProductoFilter) ([]*entity.Producto, int, error) {
	return nil, 0, nil
}

func (r *memProductoRepo) Update(p *entity.Producto) error {
	r.productos[p.ID] = p
	return nil
}

// ActualizarStock replica el compare-and-swap del adaptador real: la versión
// esperada debe coincidir con la almacenada.
func (r *memProductoRepo) ActualizarStock(productoID string, nuevoStock int32, versionEsperada int64) error {
	p, ok := r.productos[productoID]
	if !ok || p.Version != versionEsperada {
		return domain.ErrConflictoConcurrencia
	}
	p.Stock = nuevoStock
	p.Version++
	return nil
}

func (r *memProductoRepo) Delete(id string) error {
	delete(r.productos, id)
	return nil
}

func (r *memProductoRepo) ExistsByNombre(string, string) (bool, error) { return false, nil }

func (r *memProductoRepo) FindNombresExistentes([]string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type memMovimientoRepo struct {
	movs []*entity.MovimientoStock
}

func (r *memMovimientoRepo) Create(m *entity.MovimientoStock) error {
	r.movs = append(r.movs, m)
	return nil
}

func (r *memMovimientoRepo) ListByProducto(productoID string, limit, offset int) ([]*entity.MovimientoStock, error) {
	var out []*entity.MovimientoStock
	for _, m := range r.movs {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memTxRunner ejecuta el callback contra los repos en memoria y, si falla,
// deshace las escrituras igual que el Rollback real.
type memTxRunner struct {
	productoRepo   *memProductoRepo
	movimientoRepo *memMovimientoRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
) error) error {
	movsAntes := len(r.movimientoRepo.movs)
	productosAntes := map[string]entity.Producto{}
	for id, p := range r.productoRepo.productos {
		productosAntes[id] = *p
	}

	if err := fn(r.movimientoRepo, r.productoRepo); err != nil {
		r.movimientoRepo.movs = r.movimientoRepo.movs[:movsAntes]
		for id := range r.productoRepo.productos {
			copia := productosAntes[id]
			r.productoRepo.productos[id] = &copia
		}
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func productoConStock(stock int32) *entity.Producto {
	return &entity.Producto{
		ID:            uuid.New().String(),
		Nombre:        "Monitor 24 pulgadas",
		Categoria:     "electronics",
		Proveedor:     "ACME",
		Precio:        decimal.NewFromFloat(199.99),
		Stock:         stock,
		Version:       3,
		FechaRegistro: time.Now(),
	}
}

func buildUseCase(p *entity.Producto) (*movimientos.RegistrarMovimientoUseCase, *memProductoRepo, *memMovimientoRepo) {
	productoRepo := newMemProductoRepo(p)
	movimientoRepo := &memMovimientoRepo{}
	tx := &memTxRunner{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
	uc := movimientos.NewRegistrarMovimientoUseCase(tx, productoRepo, movimientoRepo, nil)
	return uc, productoRepo, movimientoRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Registrar — casos felices
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrar_EntradaSumaStock(t *testing.T) {
	p := productoConStock(100)
	uc, productoRepo, movimientoRepo := buildUseCase(p)

	out, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID,
		Tipo:       entity.TipoEntrada,
		Cantidad:   10,
	}, "usuario-1")
	require.NoError(t, err)

	assert.Equal(t, int32(100), out.StockAnterior, "debe capturar el stock previo al movimiento")
	assert.Equal(t, int32(110), out.StockResultante)
	assert.Equal(t, entity.TipoEntrada, out.Tipo)
	assert.Equal(t, p.Nombre, out.ProductoNombre)
	assert.Equal(t, "usuario-1", out.UsuarioID)

	guardado := productoRepo.productos[p.ID]
	assert.Equal(t, int32(110), guardado.Stock, "el contador del producto debe reflejar la entrada")
	assert.Equal(t, int64(4), guardado.Version, "el CAS debe avanzar la versión")
	require.Len(t, movimientoRepo.movs, 1, "el ledger debe tener exactamente una fila")
}

func TestRegistrar_SalidaHastaCero(t *testing.T) {
	// Frontera: retirar exactamente todo el stock disponible es válido.
	p := productoConStock(100)
	uc, productoRepo, _ := buildUseCase(p)

	out, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID,
		Tipo:       entity.TipoSalida,
		Cantidad:   100,
	}, "usuario-1")
	require.NoError(t, err)

	assert.Equal(t, int32(0), out.StockResultante)
	assert.Equal(t, int32(0), productoRepo.productos[p.ID].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registrar — rechazos de negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrar_SalidaSinStockSuficiente(t *testing.T) {
	p := productoConStock(100)
	uc, productoRepo, movimientoRepo := buildUseCase(p)

	_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID,
		Tipo:       entity.TipoSalida,
		Cantidad:   150,
	}, "usuario-1")

	require.ErrorIs(t, err, domain.ErrStockInsuficiente)
	assert.Contains(t, err.Error(), "disponible: 100, solicitado: 150")
	assert.Equal(t, int32(100), productoRepo.productos[p.ID].Stock, "el stock no debe cambiar")
	assert.Empty(t, movimientoRepo.movs, "el rechazo no debe dejar filas en el ledger")
}

func TestRegistrar_EntradaConOverflow(t *testing.T) {
	// Stock ya en el techo de seguridad: cualquier entrada lo excede.
	p := productoConStock(movimientos.StockMaximo)
	uc, productoRepo, movimientoRepo := buildUseCase(p)

	_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID,
		Tipo:       entity.TipoEntrada,
		Cantidad:   1,
	}, "usuario-1")

	require.ErrorIs(t, err, domain.ErrEntradaInvalida)
	assert.Contains(t, err.Error(), "overflow")
	assert.Equal(t, int32(movimientos.StockMaximo), productoRepo.productos[p.ID].Stock)
	assert.Empty(t, movimientoRepo.movs)
}

func TestRegistrar_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildUseCase(productoConStock(10))

	_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: uuid.New().String(),
		Tipo:       entity.TipoEntrada,
		Cantidad:   1,
	}, "usuario-1")

	require.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registrar — conflicto de concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Dos escritores leen la misma versión; el segundo en confirmar pierde y su
// movimiento se descarta con el rollback (el ledger no queda con huérfanos).
func TestRegistrar_ConflictoConcurrencia(t *testing.T) {
	p := productoConStock(100)
	productoRepo := newMemProductoRepo(p)
	movimientoRepo := &memMovimientoRepo{}
	tx := &memTxRunner{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
	uc := movimientos.NewRegistrarMovimientoUseCase(tx, productoRepo, movimientoRepo, nil)

	// Primer escritor gana y avanza la versión.
	_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID, Tipo: entity.TipoEntrada, Cantidad: 5,
	}, "usuario-1")
	require.NoError(t, err)

	// El segundo escritor lee y, antes de confirmar, otro actor avanza la fila.
	productoRepo.avanzarVersionTrasLeer = true

	_, err = uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID, Tipo: entity.TipoSalida, Cantidad: 5,
	}, "usuario-2")

	require.ErrorIs(t, err, domain.ErrConflictoConcurrencia)
	require.Len(t, movimientoRepo.movs, 1, "solo el movimiento del primer escritor debe sobrevivir")
	assert.Equal(t, int32(105), productoRepo.productos[p.ID].Stock, "el stock debe quedar como lo dejó el primer escritor")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registrar — validación de entrada (sin tocar almacenamiento)
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrar_Validacion(t *testing.T) {
	productoID := uuid.New().String()
	casos := []struct {
		nombre string
		in     dto.RegistrarMovimientoRequest
		msg    string
	}{
		{"producto_id vacío", dto.RegistrarMovimientoRequest{Tipo: "ENTRADA", Cantidad: 1}, "producto_id es requerido"},
		{"producto_id no UUID", dto.RegistrarMovimientoRequest{ProductoID: "abc", Tipo: "ENTRADA", Cantidad: 1}, "UUID válido"},
		{"tipo vacío", dto.RegistrarMovimientoRequest{ProductoID: productoID, Cantidad: 1}, "tipo de movimiento es requerido"},
		{"tipo desconocido", dto.RegistrarMovimientoRequest{ProductoID: productoID, Tipo: "AJUSTE", Cantidad: 1}, "tipo de movimiento no válido"},
		{"cantidad cero", dto.RegistrarMovimientoRequest{ProductoID: productoID, Tipo: "ENTRADA", Cantidad: 0}, "mayor a 0"},
		{"cantidad negativa", dto.RegistrarMovimientoRequest{ProductoID: productoID, Tipo: "SALIDA", Cantidad: -5}, "mayor a 0"},
		{"cantidad sobre el límite", dto.RegistrarMovimientoRequest{ProductoID: productoID, Tipo: "ENTRADA", Cantidad: movimientos.CantidadMaxima + 1}, "excede el límite"},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			uc, productoRepo, movimientoRepo := buildUseCase(productoConStock(10))

			_, err := uc.Registrar(context.Background(), c.in, "usuario-1")

			require.ErrorIs(t, err, domain.ErrEntradaInvalida)
			assert.Contains(t, err.Error(), c.msg)
			assert.False(t, productoRepo.getLlamado, "la validación debe rechazar antes de consultar almacenamiento")
			assert.Empty(t, movimientoRepo.movs)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestHistorial_DevuelveMovimientosDelProducto(t *testing.T) {
	p := productoConStock(1000)
	uc, _, _ := buildUseCase(p)

	for i := 0; i < 3; i++ {
		_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
			ProductoID: p.ID, Tipo: entity.TipoSalida, Cantidad: int64(i + 1),
		}, "usuario-1")
		require.NoError(t, err)
	}

	out, err := uc.Historial(context.Background(), p.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, p.ID, out.ProductoID)
	assert.Len(t, out.Items, 3)
	for _, item := range out.Items {
		assert.Equal(t, p.Nombre, item.ProductoNombre)
	}
}

func TestHistorial_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildUseCase(productoConStock(10))

	_, err := uc.Historial(context.Background(), uuid.New().String(), 50, 0)
	require.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// ──────────────────────────────────────────────────────────────────────────────
// KardexPDF
// ──────────────────────────────────────────────────────────────────────────────

type stubPDFGen struct {
	recibidos int
}

func (g *stubPDFGen) GenerateKardexPDF(_ context.Context, _ *entity.Producto, movs []*entity.MovimientoStock) ([]byte, error) {
	g.recibidos = len(movs)
	return []byte("%PDF-1.7 stub"), nil
}

func TestKardexPDF_GeneraDocumento(t *testing.T) {
	p := productoConStock(100)
	productoRepo := newMemProductoRepo(p)
	movimientoRepo := &memMovimientoRepo{}
	tx := &memTxRunner{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
	gen := &stubPDFGen{}
	uc := movimientos.NewRegistrarMovimientoUseCase(tx, productoRepo, movimientoRepo, gen)

	_, err := uc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p.ID, Tipo: entity.TipoEntrada, Cantidad: 7,
	}, "usuario-1")
	require.NoError(t, err)

	pdfBytes, err := uc.KardexPDF(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, 1, gen.recibidos)
}

func TestKardexPDF_SinGeneradorConfigurado(t *testing.T) {
	p := productoConStock(100)
	uc, _, _ := buildUseCase(p) // pdfGen nil

	_, err := uc.KardexPDF(context.Background(), p.ID)
	require.Error(t, err)
}

// Guarda de consistencia de las constantes del motor.
func TestLimites(t *testing.T) {
	assert.Equal(t, 1_000_000, movimientos.CantidadMaxima)
	assert.Greater(t, movimientos.StockMaximo, movimientos.CantidadMaxima,
		fmt.Sprintf("el techo de stock (%d) debe dejar margen para el movimiento más grande", movimientos.StockMaximo))
}
