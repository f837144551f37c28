package repository

import (
	"context"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstadoCount is one row of the units-by-state aggregate.
type EstadoCount struct {
	Estado   string
	Unidades int64
}

// VendedorTotales is one row of the seller ranking aggregate.
type VendedorTotales struct {
	Vendedor     string
	TotalVentas  int64
	IngresoTotal decimal.Decimal
}

// ReporteRepository runs read-only aggregates for the dashboard.
type ReporteRepository interface {
	UnidadesPorEstado(ctx context.Context) ([]EstadoCount, error)
	VentasEntre(ctx context.Context, desde, hasta time.Time) (int64, decimal.Decimal, error)
	SaldoPendiente(ctx context.Context) (int64, decimal.Decimal, error)
	RankingVendedores(ctx context.Context) ([]VendedorTotales, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) UnidadesPorEstado(ctx context.Context) ([]EstadoCount, error) {
	var rows []EstadoCount
	err := r.db.WithContext(ctx).Model(&model.UnidadInventario{}).
		Select("estado, COUNT(*) AS unidades").
		Group("estado").
		Order("estado").
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) VentasEntre(ctx context.Context, desde, hasta time.Time) (int64, decimal.Decimal, error) {
	var row struct {
		Ventas  int64
		Ingreso decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COUNT(*) AS ventas, SUM(precio_venta) AS ingreso").
		Where("fecha_venta >= ? AND fecha_venta < ?", desde, hasta).
		Scan(&row).Error
	return row.Ventas, row.Ingreso.Decimal, err
}

func (r *reporteRepo) SaldoPendiente(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Ventas int64
		Saldo  decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COUNT(*) AS ventas, SUM(precio_venta - total_abonado) AS saldo").
		Where("estado = ?", "Anticipo").
		Scan(&row).Error
	return row.Ventas, row.Saldo.Decimal, err
}

func (r *reporteRepo) RankingVendedores(ctx context.Context) ([]VendedorTotales, error) {
	var rows []VendedorTotales
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("vendedor, COUNT(*) AS total_ventas, SUM(precio_venta) AS ingreso_total").
		Group("vendedor").
		Order("ingreso_total DESC").
		Scan(&rows).Error
	return rows, err
}
