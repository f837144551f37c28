package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearUnidadRequest registers a physical unit. An empty NumeroSerie is
// allocated from the equipo code counter.
type CrearUnidadRequest struct {
	EquipoID      string  `json:"equipo_id"     validate:"required,uuid"`
	NumeroSerie   string  `json:"numero_serie"  validate:"omitempty,max=60"`
	Estado        string  `json:"estado"        validate:"omitempty,ne=Vendida"`
	Ubicacion     string  `json:"ubicacion"     validate:"omitempty,max=60"`
	Observaciones *string `json:"observaciones"`
}

type CambiarEstadoRequest struct {
	Estado    string  `json:"estado"    validate:"required,ne=Vendida"`
	Ubicacion *string `json:"ubicacion" validate:"omitempty,max=60"`
	Notas     string  `json:"notas"     validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type InventarioFilter struct {
	EquipoID  string `form:"equipo_id"`
	Estado    string `form:"estado"`
	Ubicacion string `form:"ubicacion"`
	Buscar    string `form:"buscar"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UnidadResponse struct {
	ID            string  `json:"id"`
	EquipoID      string  `json:"equipo_id"`
	EquipoCodigo  string  `json:"equipo_codigo"`
	EquipoNombre  string  `json:"equipo_nombre"`
	Categoria     string  `json:"categoria"`
	NumeroSerie   string  `json:"numero_serie"`
	Estado        string  `json:"estado"`
	Ubicacion     string  `json:"ubicacion"`
	Observaciones *string `json:"observaciones"`
	FechaIngreso  string  `json:"fecha_ingreso"`
}

type UnidadListResponse struct {
	Data  []UnidadResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type MovimientoResponse struct {
	ID             string  `json:"id"`
	Tipo           string  `json:"tipo"`
	EstadoAnterior *string `json:"estado_anterior"`
	EstadoNuevo    string  `json:"estado_nuevo"`
	Usuario        string  `json:"usuario"`
	Notas          string  `json:"notas"`
	ReferenciaID   *string `json:"referencia_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
