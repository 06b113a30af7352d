package productos

import "context"

// ProductoExterno es la forma mínima de un producto del catálogo externo.
type ProductoExterno struct {
	Title    string
	Category string
	Price    float64
}

// CatalogoExternoClient es el puerto del importador de catálogo (FakeStore).
// Una respuesta vacía no es error: el job simplemente no inserta nada.
type CatalogoExternoClient interface {
	GetProductos(ctx context.Context) ([]ProductoExterno, error)
}
