package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit states. EstadoVendida is set only by a sale and cleared only by
// cancelling that sale.
const (
	EstadoDisponible    = "Disponible"
	EstadoEnFabricacion = "En Fabricacion"
	EstadoEnPlanta1     = "En Planta 1"
	EstadoEnPlanta2     = "En Planta 2"
	EstadoApartada      = "Apartada"
	EstadoEnCotizacion  = "En Cotizacion"
	EstadoNoDisponible  = "No Disponible"
	EstadoVendida       = "Vendida"
)

// EstadosUnidad lists every unit state in display order.
var EstadosUnidad = []string{
	EstadoDisponible,
	EstadoEnFabricacion,
	EstadoEnPlanta1,
	EstadoEnPlanta2,
	EstadoApartada,
	EstadoEnCotizacion,
	EstadoNoDisponible,
	EstadoVendida,
}

// Ubicaciones where a unit can physically be.
var Ubicaciones = []string{"Planta 1", "Planta 2", "Almacen", "En Transito", "Cliente"}

// UnidadInventario is one physical, serially numbered unit of an Equipo.
type UnidadInventario struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EquipoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NumeroSerie   string    `gorm:"uniqueIndex;not null"`
	Estado        string    `gorm:"index;not null;default:'Disponible'"`
	Ubicacion     string    `gorm:"not null;default:'Planta 1'"`
	Observaciones *string
	FechaIngreso  time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Equipo *Equipo `gorm:"foreignKey:EquipoID"`
}

func (UnidadInventario) TableName() string { return "inventario" }

func (u *UnidadInventario) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	if u.FechaIngreso.IsZero() {
		u.FechaIngreso = time.Now()
	}
	return nil
}
