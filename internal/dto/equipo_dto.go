package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEquipoRequest struct {
	Codigo           string          `json:"codigo"            validate:"required,min=2,max=40"`
	Nombre           string          `json:"nombre"            validate:"required,min=2,max=200"`
	Marca            string          `json:"marca"             validate:"omitempty,max=100"`
	Modelo           string          `json:"modelo"            validate:"omitempty,max=100"`
	Categoria        string          `json:"categoria"         validate:"omitempty,max=100"`
	Descripcion      *string         `json:"descripcion"`
	PrecioLista      decimal.Decimal `json:"precio_lista"      validate:"min=0"`
	PrecioMinimo     decimal.Decimal `json:"precio_minimo"     validate:"min=0"`
	PrecioCosto      decimal.Decimal `json:"precio_costo"      validate:"min=0"`
	PotenciaMotor    string          `json:"potencia_motor"`
	Capacidad        string          `json:"capacidad"`
	Dimensiones      string          `json:"dimensiones"`
	Peso             string          `json:"peso"`
	Especificaciones string          `json:"especificaciones"`
}

// ActualizarEquipoRequest uses pointers so only sent fields change.
type ActualizarEquipoRequest struct {
	Nombre           *string          `json:"nombre"         validate:"omitempty,min=2,max=200"`
	Marca            *string          `json:"marca"`
	Modelo           *string          `json:"modelo"`
	Categoria        *string          `json:"categoria"`
	Descripcion      *string          `json:"descripcion"`
	PrecioLista      *decimal.Decimal `json:"precio_lista"   validate:"omitempty,min=0"`
	PrecioMinimo     *decimal.Decimal `json:"precio_minimo"  validate:"omitempty,min=0"`
	PrecioCosto      *decimal.Decimal `json:"precio_costo"   validate:"omitempty,min=0"`
	PotenciaMotor    *string          `json:"potencia_motor"`
	Capacidad        *string          `json:"capacidad"`
	Dimensiones      *string          `json:"dimensiones"`
	Peso             *string          `json:"peso"`
	Especificaciones *string          `json:"especificaciones"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type EquipoFilter struct {
	Buscar    string `form:"buscar"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"  validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EquipoResponse struct {
	ID                  string          `json:"id"`
	Codigo              string          `json:"codigo"`
	Nombre              string          `json:"nombre"`
	Marca               string          `json:"marca"`
	Modelo              string          `json:"modelo"`
	Categoria           string          `json:"categoria"`
	Descripcion         *string         `json:"descripcion"`
	PrecioLista         decimal.Decimal `json:"precio_lista"`
	PrecioMinimo        decimal.Decimal `json:"precio_minimo"`
	PrecioCosto         decimal.Decimal `json:"precio_costo"`
	PotenciaMotor       string          `json:"potencia_motor"`
	Capacidad           string          `json:"capacidad"`
	Dimensiones         string          `json:"dimensiones"`
	Peso                string          `json:"peso"`
	Especificaciones    string          `json:"especificaciones"`
	UnidadesDisponibles int64           `json:"unidades_disponibles"`
}

type EquipoListResponse struct {
	Data       []EquipoResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ConsultaPrecioResponse is returned by the public price check endpoint (no auth required).
type ConsultaPrecioResponse struct {
	Codigo              string          `json:"codigo"`
	Nombre              string          `json:"nombre"`
	Categoria           string          `json:"categoria"`
	PrecioLista         decimal.Decimal `json:"precio_lista"`
	PrecioConIVA        decimal.Decimal `json:"precio_con_iva"`
	UnidadesDisponibles int64           `json:"unidades_disponibles"`
}
