package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CotizacionItemRequest struct {
	EquipoID       *string         `json:"equipo_id"       validate:"omitempty,uuid"`
	Descripcion    string          `json:"descripcion"     validate:"max=500"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type CrearCotizacionRequest struct {
	ClienteNombre    string                  `json:"cliente_nombre"    validate:"required,min=2,max=200"`
	ClienteEmpresa   *string                 `json:"cliente_empresa"`
	ClienteTelefono  *string                 `json:"cliente_telefono"`
	ClienteEmail     *string                 `json:"cliente_email"     validate:"omitempty,email"`
	ClienteDireccion *string                 `json:"cliente_direccion"`
	Vendedor         string                  `json:"vendedor"          validate:"required,min=2,max=100"`
	IncluyeIVA       *bool                   `json:"incluye_iva"`
	VigenciaDias     int                     `json:"vigencia_dias"     validate:"omitempty,min=1,max=365"`
	Notas            *string                 `json:"notas"`
	Items            []CotizacionItemRequest `json:"items"             validate:"required,min=1,dive"`
}

type EnviarEmailRequest struct {
	Para *string `json:"para" validate:"omitempty,email"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type CotizacionFilter struct {
	Buscar string `form:"buscar"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CotizacionItemResponse struct {
	ID             string          `json:"id"`
	EquipoID       *string         `json:"equipo_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	TotalLinea     decimal.Decimal `json:"total_linea"`
}

type CotizacionResponse struct {
	ID               string                   `json:"id"`
	Folio            string                   `json:"folio"`
	ClienteNombre    string                   `json:"cliente_nombre"`
	ClienteEmpresa   *string                  `json:"cliente_empresa"`
	ClienteTelefono  *string                  `json:"cliente_telefono"`
	ClienteEmail     *string                  `json:"cliente_email"`
	ClienteDireccion *string                  `json:"cliente_direccion"`
	Vendedor         string                   `json:"vendedor"`
	IncluyeIVA       bool                     `json:"incluye_iva"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	IVA              decimal.Decimal          `json:"iva"`
	Total            decimal.Decimal          `json:"total"`
	VigenciaDias     int                      `json:"vigencia_dias"`
	Notas            *string                  `json:"notas"`
	FechaCotizacion  string                   `json:"fecha_cotizacion"`
	Items            []CotizacionItemResponse `json:"items"`
}

type CotizacionListResponse struct {
	Data  []CotizacionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// EnvioResponse reports whether a message was queued for delivery.
// Delivery itself happens in the background worker pool.
type EnvioResponse struct {
	Encolados int    `json:"encolados"`
	Mensaje   string `json:"mensaje"`
}
