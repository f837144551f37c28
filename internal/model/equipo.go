package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Equipo is a catalog entry: a machine model DURTRON manufactures and sells.
// Physical stock lives in UnidadInventario.
type Equipo struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo           string    `gorm:"uniqueIndex;not null"`
	Nombre           string    `gorm:"index;not null"`
	Marca            string    `gorm:"not null;default:'DURTRON'"`
	Modelo           string
	Categoria        string `gorm:"index"`
	Descripcion      *string
	PrecioLista      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioMinimo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCosto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PotenciaMotor    string
	Capacidad        string
	Dimensiones      string
	Peso             string
	Especificaciones string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Equipo) TableName() string { return "equipos" }

func (e *Equipo) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
