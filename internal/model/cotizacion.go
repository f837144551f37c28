package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cotizacion is a customer quotation. Totals are computed at creation time
// and frozen; later catalog price edits do not alter an issued quotation.
type Cotizacion struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Folio            string    `gorm:"uniqueIndex;not null"`
	ClienteNombre    string    `gorm:"not null"`
	ClienteEmpresa   *string
	ClienteTelefono  *string
	ClienteEmail     *string
	ClienteDireccion *string
	Vendedor         string          `gorm:"not null"`
	IncluyeIVA       bool            `gorm:"column:incluye_iva;not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VigenciaDias     int             `gorm:"not null;default:30"`
	Notas            *string
	CreatedAt        time.Time

	Items []CotizacionItem `gorm:"foreignKey:CotizacionID"`
}

func (Cotizacion) TableName() string { return "cotizaciones" }

func (c *Cotizacion) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type CotizacionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CotizacionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	EquipoID       *uuid.UUID      `gorm:"type:uuid"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalLinea     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (CotizacionItem) TableName() string { return "cotizacion_items" }

func (i *CotizacionItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
