package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialPrecio registra cada cambio de precio de un equipo.
// Los registros son inmutables.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EquipoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListaAntes    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ListaDespues  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinimoAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinimoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoAntes    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoDespues  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Usuario       string          `gorm:"not null"`
	CreatedAt     time.Time
}

func (HistorialPrecio) TableName() string { return "historial_precios" }

func (h *HistorialPrecio) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
