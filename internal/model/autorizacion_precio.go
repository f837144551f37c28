package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AutorizacionPrecio records every sale closed below the price floor and the
// manager who approved it. Rows are never updated.
type AutorizacionPrecio struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID          *uuid.UUID      `gorm:"type:uuid;index"`
	InventarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	EquipoID         uuid.UUID       `gorm:"type:uuid;not null"`
	PrecioMinimo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioAutorizado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Gerente          string          `gorm:"not null"`
	Vendedor         string          `gorm:"not null"`
	Usuario          string          `gorm:"not null"`
	Motivo           *string
	CreatedAt        time.Time
}

func (AutorizacionPrecio) TableName() string { return "autorizaciones_precio" }

func (a *AutorizacionPrecio) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
