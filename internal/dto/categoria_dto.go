package dto

import "github.com/google/uuid"

// Categories group the catalog (Quebradoras, Cribas, Bandas...). Their names
// feed the /v1/config lists and the equipo "categoria" column.

type CrearCategoriaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`
}

// ActualizarCategoriaRequest is a partial update; Activo=false hides the
// category from the default listing without touching existing equipos.
type ActualizarCategoriaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=2,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`
	Activo      *bool   `json:"activo"`
}

// CategoriaFilter: by default only active categories are listed.
type CategoriaFilter struct {
	Todas  bool   `form:"todas"`
	Buscar string `form:"buscar" validate:"max=100"`
}

type CategoriaResponse struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
	CreadaEn    string    `json:"creada_en,omitempty"`
}
