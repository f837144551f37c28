package model

import "time"

// ContadorSerie holds the last serial number issued for a code prefix.
type ContadorSerie struct {
	Codigo    string `gorm:"primaryKey"`
	Ultimo    int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (ContadorSerie) TableName() string { return "contadores_serie" }
