package dto

import "github.com/shopspring/decimal"

type ConteoEstado struct {
	Estado   string `json:"estado"`
	Unidades int64  `json:"unidades"`
}

type DashboardResponse struct {
	TotalEquipos     int64           `json:"total_equipos"`
	TotalUnidades    int64           `json:"total_unidades"`
	PorEstado        []ConteoEstado  `json:"por_estado"`
	VentasMes        int64           `json:"ventas_mes"`
	IngresoMes       decimal.Decimal `json:"ingreso_mes"`
	SaldoPendiente   decimal.Decimal `json:"saldo_pendiente"`
	VentasPendientes int64           `json:"ventas_pendientes"`
}

type VendedorRanking struct {
	Posicion     int             `json:"posicion"`
	Vendedor     string          `json:"vendedor"`
	TotalVentas  int64           `json:"total_ventas"`
	IngresoTotal decimal.Decimal `json:"ingreso_total"`
	IngresoIVA   decimal.Decimal `json:"ingreso_iva"`
}

// ConfigResponse feeds the frontend select boxes.
type ConfigResponse struct {
	Estados     []string `json:"estados"`
	Ubicaciones []string `json:"ubicaciones"`
	Categorias  []string `json:"categorias"`
	FormasPago  []string `json:"formas_pago"`
}
