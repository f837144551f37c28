package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Anticipo is one advance payment applied to a Venta. Monto is always > 0.
type Anticipo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha       time.Time       `gorm:"not null"`
	Nota        string
	Comprobante *string
	CreatedAt   time.Time
}

func (Anticipo) TableName() string { return "anticipos" }

func (a *Anticipo) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	if a.Fecha.IsZero() {
		a.Fecha = time.Now()
	}
	return nil
}
