package dto

import "github.com/shopspring/decimal"

// HistorialPrecioItem is one row in the price-history list of an equipo.
type HistorialPrecioItem struct {
	ID            string          `json:"id"`
	EquipoID      string          `json:"equipo_id"`
	ListaAntes    decimal.Decimal `json:"precio_lista_antes"`
	ListaDespues  decimal.Decimal `json:"precio_lista_despues"`
	MinimoAntes   decimal.Decimal `json:"precio_minimo_antes"`
	MinimoDespues decimal.Decimal `json:"precio_minimo_despues"`
	CostoAntes    decimal.Decimal `json:"precio_costo_antes"`
	CostoDespues  decimal.Decimal `json:"precio_costo_despues"`
	Usuario       string          `json:"usuario"`
	CreatedAt     string          `json:"created_at"`
}

// HistorialPrecioListResponse is returned by GET /v1/equipos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
