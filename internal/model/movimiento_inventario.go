package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement types.
const (
	MovimientoIngreso      = "ingreso"
	MovimientoCambioEstado = "cambio_estado"
	MovimientoVenta        = "venta"
	MovimientoAnulacion    = "anulacion_venta"
)

// MovimientoInventario is the audit trail of a unit: every state change,
// sale and sale reversal appends one row.
type MovimientoInventario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	InventarioID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo           string    `gorm:"not null"`
	EstadoAnterior *string
	EstadoNuevo    string `gorm:"not null"`
	Usuario        string `gorm:"not null"`
	Notas          string
	ReferenciaID   *uuid.UUID `gorm:"type:uuid"` // venta_id when the movement comes from a sale
	CreatedAt      time.Time
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }

func (m *MovimientoInventario) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
