package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AutorizadoAutomatico marks sales at or above the price floor.
const AutorizadoAutomatico = "Automatico"

// FormasPago accepted at the counter.
var FormasPago = []string{"Efectivo", "Transferencia Bancaria", "Cheque", "Tarjeta de Credito", "Financiamiento"}

// Venta is the sale of exactly one UnidadInventario.
// TotalAbonado and Estado are a cache of SUM(anticipos.monto); they are
// recomputed in the same transaction as every anticipo change.
type Venta struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	InventarioID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	EquipoID            uuid.UUID `gorm:"type:uuid;index;not null"`
	Vendedor            string    `gorm:"index;not null"`
	ClienteNombre       string    `gorm:"not null"`
	ClienteContacto     *string
	ClienteRFC          *string `gorm:"column:cliente_rfc"`
	ClienteDireccion    *string
	ClienteEmail        *string
	PrecioLista         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoMonto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoPorcentaje decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MotivoDescuento     *string
	FormaPago           string `gorm:"not null"`
	Facturado           bool   `gorm:"not null;default:false"`
	NumeroFactura       *string
	AutorizadoPor       string          `gorm:"not null"`
	Estado              string          `gorm:"index;not null;default:'Anticipo'"`
	TotalAbonado        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FechaVenta          time.Time       `gorm:"index;not null"`
	Notas               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Anticipos []Anticipo        `gorm:"foreignKey:VentaID"`
	Unidad    *UnidadInventario `gorm:"foreignKey:InventarioID"`
	Equipo    *Equipo           `gorm:"foreignKey:EquipoID"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	if v.FechaVenta.IsZero() {
		v.FechaVenta = time.Now()
	}
	return nil
}
