package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Vendedor string `form:"vendedor"`
	Estado   string `form:"estado"` // Anticipo | Liquidado | empty = all
	Desde    string `form:"desde"`  // YYYY-MM-DD
	Hasta    string `form:"hasta"`  // YYYY-MM-DD, inclusive
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AutorizacionGerente carries the manager override for a below-minimum price.
type AutorizacionGerente struct {
	Gerente  string `json:"gerente"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegistrarVentaRequest struct {
	Vendedor            string               `json:"vendedor"             validate:"required,min=2,max=100"`
	ClienteNombre       string               `json:"cliente_nombre"       validate:"required,min=2,max=200"`
	ClienteContacto     *string              `json:"cliente_contacto"`
	ClienteRFC          *string              `json:"cliente_rfc"          validate:"omitempty,max=13"`
	ClienteDireccion    *string              `json:"cliente_direccion"`
	ClienteEmail        *string              `json:"cliente_email"        validate:"omitempty,email"`
	PrecioVenta         decimal.Decimal      `json:"precio_venta"`
	MotivoDescuento     *string              `json:"motivo_descuento"`
	FormaPago           string               `json:"forma_pago"           validate:"required,max=50"`
	Facturado           bool                 `json:"facturado"`
	NumeroFactura       *string              `json:"numero_factura"`
	AnticipoInicial     decimal.Decimal      `json:"anticipo_inicial"`
	ComprobanteAnticipo *string              `json:"comprobante_anticipo"`
	Autorizacion        *AutorizacionGerente `json:"autorizacion"`
	Notas               *string              `json:"notas"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"max=500"` // empty defaults to "Anulacion"
}

type RegistrarAnticipoRequest struct {
	Monto       decimal.Decimal `json:"monto"`
	Fecha       string          `json:"fecha"` // YYYY-MM-DD; empty = today
	Nota        string          `json:"nota"        validate:"max=500"`
	Comprobante *string         `json:"comprobante"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AnticipoResponse struct {
	ID          string          `json:"id"`
	VentaID     string          `json:"venta_id"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       string          `json:"fecha"`
	Nota        string          `json:"nota"`
	Comprobante *string         `json:"comprobante"`
}

type VentaResponse struct {
	ID                  string             `json:"id"`
	InventarioID        string             `json:"inventario_id"`
	EquipoID            string             `json:"equipo_id"`
	EquipoCodigo        string             `json:"equipo_codigo,omitempty"`
	EquipoNombre        string             `json:"equipo_nombre,omitempty"`
	NumeroSerie         string             `json:"numero_serie,omitempty"`
	Vendedor            string             `json:"vendedor"`
	ClienteNombre       string             `json:"cliente_nombre"`
	ClienteContacto     *string            `json:"cliente_contacto"`
	ClienteRFC          *string            `json:"cliente_rfc"`
	ClienteDireccion    *string            `json:"cliente_direccion"`
	ClienteEmail        *string            `json:"cliente_email"`
	PrecioLista         decimal.Decimal    `json:"precio_lista"`
	PrecioVenta         decimal.Decimal    `json:"precio_venta"`
	DescuentoMonto      decimal.Decimal    `json:"descuento_monto"`
	DescuentoPorcentaje decimal.Decimal    `json:"descuento_porcentaje"`
	MotivoDescuento     *string            `json:"motivo_descuento"`
	FormaPago           string             `json:"forma_pago"`
	Facturado           bool               `json:"facturado"`
	NumeroFactura       *string            `json:"numero_factura"`
	AutorizadoPor       string             `json:"autorizado_por"`
	Estado              string             `json:"estado"`
	TotalAbonado        decimal.Decimal    `json:"total_abonado"`
	Saldo               decimal.Decimal    `json:"saldo"`
	FechaVenta          string             `json:"fecha_venta"`
	Notas               *string            `json:"notas"`
	Anticipos           []AnticipoResponse `json:"anticipos"`
}

// LiquidacionResponse is the recomputed settlement of a sale after an
// anticipo is added or removed.
type LiquidacionResponse struct {
	VentaID      string          `json:"venta_id"`
	TotalAbonado decimal.Decimal `json:"total_abonado"`
	Saldo        decimal.Decimal `json:"saldo"`
	Estado       string          `json:"estado"`
}
