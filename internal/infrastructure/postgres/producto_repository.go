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

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación del puerto ProductoRepository sobre PostgreSQL (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoColumns = `id, nombre, categoria, proveedor, precio, stock, version, fecha_registro`

// Create persiste un nuevo producto con version 0.
func (r *ProductoRepo) Create(producto *entity.Producto) error {
	query := `
		INSERT INTO productos (id, nombre, categoria, proveedor, precio, stock, version, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		producto.ID, producto.Nombre, producto.Categoria, nullableStr(producto.Proveedor),
		producto.Precio, producto.Stock, producto.Version, producto.FechaRegistro,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// CreateBatch inserta un lote de productos (sincronización de catálogo).
// Devuelve cuántos se insertaron antes del primer error.
func (r *ProductoRepo) CreateBatch(productos []*entity.Producto) (int, error) {
	for i, p := range productos {
		if err := r.Create(p); err != nil {
			return i, fmt.Errorf("insert batch producto %q: %w", p.Nombre, err)
		}
	}
	return len(productos), nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE id = $1`
	p, err := scanProducto(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// List lista productos con filtros, paginación y ordenamiento. Devuelve
// también el total sin paginar para los metadatos de página.
func (r *ProductoRepo) List(filter repository.ProductoFilter) ([]*entity.Producto, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (nombre ILIKE $%d OR proveedor ILIKE $%d)", pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	if filter.Categoria != "" {
		where += fmt.Sprintf(" AND categoria = $%d", pos)
		args = append(args, filter.Categoria)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM productos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productos: %w", err)
	}

	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM productos%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productoColumns, where, sortColumn(filter.SortBy), dir, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update actualiza todos los campos editables con compare-and-swap sobre
// version. Cero filas afectadas significa que otro escritor avanzó la versión.
func (r *ProductoRepo) Update(producto *entity.Producto) error {
	query := `
		UPDATE productos
		SET nombre = $2, categoria = $3, proveedor = $4, precio = $5, stock = $6, version = version + 1
		WHERE id = $1 AND version = $7`
	cmd, err := r.q.Exec(context.Background(), query,
		producto.ID, producto.Nombre, producto.Categoria, nullableStr(producto.Proveedor),
		producto.Precio, producto.Stock, producto.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflictoConcurrencia
	}
	return nil
}

// ActualizarStock fija solo el stock del producto (motor de movimientos) con
// compare-and-swap sobre version.
func (r *ProductoRepo) ActualizarStock(productoID string, nuevoStock int32, versionEsperada int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE productos SET stock = $2, version = version + 1 WHERE id = $1 AND version = $3`,
		productoID, nuevoStock, versionEsperada,
	)
	if err != nil {
		return fmt.Errorf("actualizar stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflictoConcurrencia
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductoRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	return nil
}

// ExistsByNombre indica si existe un producto con ese nombre, opcionalmente
// excluyendo un ID (para updates).
func (r *ProductoRepo) ExistsByNombre(nombre, excluirID string) (bool, error) {
	var existe bool
	var err error
	if excluirID == "" {
		err = r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM productos WHERE nombre = $1)`, nombre).Scan(&existe)
	} else {
		err = r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM productos WHERE nombre = $1 AND id <> $2)`, nombre, excluirID).Scan(&existe)
	}
	if err != nil {
		return false, fmt.Errorf("exists producto por nombre: %w", err)
	}
	return existe, nil
}

// FindNombresExistentes devuelve el subconjunto de nombres ya presentes en el catálogo.
func (r *ProductoRepo) FindNombresExistentes(nombres []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(nombres) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT nombre FROM productos WHERE nombre = ANY($1)`, nombres)
	if err != nil {
		return nil, fmt.Errorf("find nombres existentes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan nombre: %w", err)
		}
		out[n] = struct{}{}
	}
	return out, rows.Err()
}

// sortColumn mapea el campo de ordenamiento (ya validado en el caso de uso) a
// la columna real. Defensa extra contra interpolación de SQL.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "id", "nombre", "categoria", "proveedor", "precio", "stock", "fecha_registro":
		return sortBy
	default:
		return "fecha_registro"
	}
}

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	var proveedor *string
	if err := row.Scan(&p.ID, &p.Nombre, &p.Categoria, &proveedor, &p.Precio, &p.Stock, &p.Version, &p.FechaRegistro); err != nil {
		return nil, err
	}
	if proveedor != nil {
		p.Proveedor = *proveedor
	}
	return &p, nil
}

func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
