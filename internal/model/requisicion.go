package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Requisition states.
const (
	RequisicionPendiente = "Pendiente"
	RequisicionEnviada   = "Enviada"
	RequisicionRecibida  = "Recibida"
	RequisicionCancelada = "Cancelada"
)

// Requisicion is a purchase request for the components needed to build an
// equipment. Each line may go to a different supplier.
type Requisicion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Folio        string    `gorm:"uniqueIndex;not null"`
	EquipoNombre string    `gorm:"not null"`
	Solicitante  string    `gorm:"not null"`
	Estado       string    `gorm:"index;not null;default:'Pendiente'"`
	Notas        *string
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA          decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []RequisicionItem `gorm:"foreignKey:RequisicionID"`
}

func (Requisicion) TableName() string { return "requisiciones" }

func (r *Requisicion) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type RequisicionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RequisicionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProveedorID    *uuid.UUID      `gorm:"type:uuid;index"`
	Componente     string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unidad         string          `gorm:"not null;default:'pza'"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TieneIVA       bool            `gorm:"column:tiene_iva;not null"`

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (RequisicionItem) TableName() string { return "requisicion_items" }

func (i *RequisicionItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
