package model

// Roles carried in the JWT. Users are not stored; they come from configuration.
const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
)
