package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RequisicionItemRequest struct {
	ProveedorID    *string         `json:"proveedor_id"    validate:"omitempty,uuid"`
	Componente     string          `json:"componente"      validate:"required,min=1,max=300"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"gt=0"`
	Unidad         string          `json:"unidad"          validate:"omitempty,max=20"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	TieneIVA       *bool           `json:"tiene_iva"`
}

type CrearRequisicionRequest struct {
	EquipoNombre string                   `json:"equipo_nombre" validate:"required,min=2,max=200"`
	Solicitante  string                   `json:"solicitante"   validate:"omitempty,max=100"`
	Notas        *string                  `json:"notas"`
	Items        []RequisicionItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type CambiarEstadoRequisicionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pendiente Enviada Recibida Cancelada"`
}

// EnviarRequisicionRequest narrows a send to one supplier; nil sends to all.
type EnviarRequisicionRequest struct {
	ProveedorID *string `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type RequisicionFilter struct {
	Estado      string `form:"estado"`
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RequisicionItemResponse struct {
	ID              string          `json:"id"`
	ProveedorID     *string         `json:"proveedor_id"`
	ProveedorNombre *string         `json:"proveedor_nombre"`
	Componente      string          `json:"componente"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	Unidad          string          `json:"unidad"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	TieneIVA        bool            `json:"tiene_iva"`
	Importe         decimal.Decimal `json:"importe"`
}

type RequisicionResponse struct {
	ID           string                    `json:"id"`
	Folio        string                    `json:"folio"`
	EquipoNombre string                    `json:"equipo_nombre"`
	Solicitante  string                    `json:"solicitante"`
	Estado       string                    `json:"estado"`
	Notas        *string                   `json:"notas"`
	Subtotal     decimal.Decimal           `json:"subtotal"`
	IVA          decimal.Decimal           `json:"iva"`
	Total        decimal.Decimal           `json:"total"`
	CreatedAt    string                    `json:"created_at"`
	Items        []RequisicionItemResponse `json:"items"`
}

type RequisicionListResponse struct {
	Data  []RequisicionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type WhatsAppURLResponse struct {
	Proveedor string `json:"proveedor"`
	Telefono  string `json:"telefono"`
	URL       string `json:"url"`
}
