package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categoria groups catalog equipment (quebradoras, molinos, bandas...).
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

func (c *Categoria) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
