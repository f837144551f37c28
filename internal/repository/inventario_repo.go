package repository

import (
	"context"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository defines the data access contract for stock units and
// their movement log.
type InventarioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadInventario, error)
	List(ctx context.Context, filter dto.InventarioFilter) ([]model.UnidadInventario, int64, error)
	CountByEquipo(ctx context.Context, equipoID uuid.UUID, estado string) (int64, error)
	ListMovimientos(ctx context.Context, inventarioID uuid.UUID) ([]model.MovimientoInventario, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, u *model.UnidadInventario) error
	// FindForUpdateTx locks the unit row until the transaction ends.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.UnidadInventario, error)
	// MarcarVendidaTx flips the unit to Vendida only if it is not already
	// sold. It returns false when another sale got there first.
	MarcarVendidaTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, ubicacion *string) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error
	// DeleteTx removes the unit and its movement log.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UnidadInventario, error) {
	var u model.UnidadInventario
	err := r.db.WithContext(ctx).Preload("Equipo").First(&u, "id = ?", id).Error
	return &u, err
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.UnidadInventario, int64, error) {
	var unidades []model.UnidadInventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.UnidadInventario{})
	if filter.EquipoID != "" {
		q = q.Where("equipo_id = ?", filter.EquipoID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Ubicacion != "" {
		q = q.Where("ubicacion = ?", filter.Ubicacion)
	}
	if filter.Buscar != "" {
		q = q.Where("LOWER(numero_serie) LIKE ?", "%"+strings.ToLower(filter.Buscar)+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginate(filter.Page, filter.Limit, 100, 500)
	err := q.Preload("Equipo").Order("fecha_ingreso DESC").Limit(limit).Offset(offset).Find(&unidades).Error
	return unidades, total, err
}

// Delete removes the unit and its movement log.
func (r *inventarioRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("inventario_id = ?", id).Delete(&model.MovimientoInventario{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.UnidadInventario{}, "id = ?", id).Error
}

// CountByEquipo counts units of an equipo; an empty estado counts all of them.
func (r *inventarioRepo) CountByEquipo(ctx context.Context, equipoID uuid.UUID, estado string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.UnidadInventario{}).Where("equipo_id = ?", equipoID)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *inventarioRepo) ListMovimientos(ctx context.Context, inventarioID uuid.UUID) ([]model.MovimientoInventario, error) {
	var movs []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Where("inventario_id = ?", inventarioID).
		Order("created_at DESC").
		Find(&movs).Error
	return movs, err
}

func (r *inventarioRepo) CreateTx(tx *gorm.DB, u *model.UnidadInventario) error {
	return tx.Create(u).Error
}

func (r *inventarioRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.UnidadInventario, error) {
	var u model.UnidadInventario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *inventarioRepo) MarcarVendidaTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.UnidadInventario{}).
		Where("id = ? AND estado <> ?", id, model.EstadoVendida).
		Update("estado", model.EstadoVendida)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventarioRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, ubicacion *string) error {
	updates := map[string]interface{}{"estado": estado}
	if ubicacion != nil {
		updates["ubicacion"] = *ubicacion
	}
	return tx.Model(&model.UnidadInventario{}).Where("id = ?", id).Updates(updates).Error
}

func (r *inventarioRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}
