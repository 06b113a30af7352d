// Package fakestore implementa el cliente HTTP contra la FakeStore API
// (https://fakestoreapi.com) para la sincronización inicial del catálogo.
package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jhoicas/sistema-inventario/internal/application/productos"
)

var _ productos.CatalogoExternoClient = (*Client)(nil)

// Client cliente HTTP de la FakeStore API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient construye el cliente. baseURL apunta al endpoint de productos
// (por defecto https://fakestoreapi.com/products).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

// productoExternoJSON payload de la FakeStore API. Solo se mapean los campos
// que el catálogo usa.
type productoExternoJSON struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// GetProductos descarga el catálogo completo de la API externa.
func (c *Client) GetProductos(ctx context.Context) ([]productos.ProductoExterno, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SistemaInventario/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consultar FakeStore API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FakeStore API respondió %d", resp.StatusCode)
	}

	var payload []productoExternoJSON
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decodificar respuesta: %w", err)
	}

	out := make([]productos.ProductoExterno, 0, len(payload))
	for _, p := range payload {
		out = append(out, productos.ProductoExterno{
			Title:    p.Title,
			Price:    p.Price,
			Category: p.Category,
		})
	}
	return out, nil
}
