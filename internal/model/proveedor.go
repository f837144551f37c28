package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is a parts or material supplier for the plant.
type Proveedor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RazonSocial    string    `gorm:"not null"`
	ContactoNombre *string
	Correo         *string
	WhatsApp       *string `gorm:"column:whatsapp"`
	Telefono       *string
	Direccion      *string
	Activo         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
