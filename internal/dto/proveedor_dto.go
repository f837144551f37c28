package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	RazonSocial    string  `json:"razon_social"    validate:"required,min=2,max=200"`
	ContactoNombre *string `json:"contacto_nombre"`
	Correo         *string `json:"correo"          validate:"omitempty,email"`
	WhatsApp       *string `json:"whatsapp"        validate:"omitempty,min=10,max=20"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
}

type ActualizarProveedorRequest struct {
	RazonSocial    *string `json:"razon_social"    validate:"omitempty,min=2,max=200"`
	ContactoNombre *string `json:"contacto_nombre"`
	Correo         *string `json:"correo"          validate:"omitempty,email"`
	WhatsApp       *string `json:"whatsapp"        validate:"omitempty,min=10,max=20"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
	Activo         *bool   `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID             string  `json:"id"`
	RazonSocial    string  `json:"razon_social"`
	ContactoNombre *string `json:"contacto_nombre"`
	Correo         *string `json:"correo"`
	WhatsApp       *string `json:"whatsapp"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
	Activo         bool    `json:"activo"`
}
