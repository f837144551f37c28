package repository

import (
	"context"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VentaRepository covers sales, their anticipos and the price-floor audit.
type VentaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	FindAnticipoByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error)
	ListAnticipos(ctx context.Context, ventaID uuid.UUID) ([]model.Anticipo, error)
	// ListDescuadradas returns sales whose cached total or state disagrees
	// with the sum of their anticipos.
	ListDescuadradas(ctx context.Context, limit int) ([]uuid.UUID, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	CreateAnticipoTx(tx *gorm.DB, a *model.Anticipo) error
	// DeleteAnticipoTx returns gorm.ErrRecordNotFound when no row was deleted.
	DeleteAnticipoTx(tx *gorm.DB, id uuid.UUID) error
	SumAnticiposTx(tx *gorm.DB, ventaID uuid.UUID) (decimal.Decimal, error)
	UpdateLiquidacionTx(tx *gorm.DB, ventaID uuid.UUID, total decimal.Decimal, estado string) error
	CreateAutorizacionTx(tx *gorm.DB, a *model.AutorizacionPrecio) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Anticipos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC, created_at ASC") }).
		Preload("Unidad").
		Preload("Equipo").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Vendedor != "" {
		q = q.Where("vendedor = ?", filter.Vendedor)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
		q = q.Where("fecha_venta >= ?", t)
	}
	if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
		q = q.Where("fecha_venta < ?", t.AddDate(0, 0, 1))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit, 50, 200)
	err := q.Preload("Unidad").Preload("Equipo").
		Order("fecha_venta DESC").
		Offset(offset).Limit(limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) FindAnticipoByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error) {
	var a model.Anticipo
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *ventaRepo) ListAnticipos(ctx context.Context, ventaID uuid.UUID) ([]model.Anticipo, error) {
	var list []model.Anticipo
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).Order("fecha ASC, created_at ASC").Find(&list).Error
	return list, err
}

func (r *ventaRepo) ListDescuadradas(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var rows []struct{ ID uuid.UUID }
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.id FROM ventas v
		LEFT JOIN (SELECT venta_id, SUM(monto) AS total FROM anticipos GROUP BY venta_id) a
			ON a.venta_id = v.id
		WHERE v.total_abonado <> COALESCE(a.total, 0)
		   OR v.estado <> CASE WHEN COALESCE(a.total, 0) >= v.precio_venta THEN ? ELSE ? END
		LIMIT ?`, "Liquidado", "Anticipo", limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error
	return &v, err
}

// DeleteTx removes the sale and its anticipos. Price-floor audit rows keep
// their data; venta_id is nulled by the FK.
func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("venta_id = ?", id).Delete(&model.Anticipo{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.AutorizacionPrecio{}).Where("venta_id = ?", id).Update("venta_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Venta{}, "id = ?", id).Error
}

func (r *ventaRepo) CreateAnticipoTx(tx *gorm.DB, a *model.Anticipo) error {
	return tx.Create(a).Error
}

func (r *ventaRepo) DeleteAnticipoTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Anticipo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumAnticiposTx is the authoritative paid total of a sale.
func (r *ventaRepo) SumAnticiposTx(tx *gorm.DB, ventaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.Anticipo{}).
		Select("SUM(monto)").
		Where("venta_id = ?", ventaID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *ventaRepo) UpdateLiquidacionTx(tx *gorm.DB, ventaID uuid.UUID, total decimal.Decimal, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", ventaID).Updates(map[string]interface{}{
		"total_abonado": total,
		"estado":        estado,
	}).Error
}

func (r *ventaRepo) CreateAutorizacionTx(tx *gorm.DB, a *model.AutorizacionPrecio) error {
	return tx.Create(a).Error
}
